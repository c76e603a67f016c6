package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/sportsmeet/models"
	"github.com/Dosada05/sportsmeet/storage"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every setting of the application.
type Config struct {
	DatabaseURL  string        `env:"DATABASE_URL,required,notEmpty"`
	JWTSecretKey string        `env:"JWT_SECRET_KEY,required,notEmpty"`
	JWTTTL       time.Duration `env:"JWT_TTL" envDefault:"24h"`
	ServerPort   int           `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel     slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`

	DefaultPointsMode  models.PointsMode `env:"DEFAULT_POINTS_MODE" envDefault:"overall-only"`
	CORSAllowedOrigins []string          `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	MigrateOnStart     bool              `env:"MIGRATE_ON_START" envDefault:"true"`

	R2 R2Config
}

type R2Config struct {
	AccountID       string `env:"R2_ACCOUNT_ID"`
	AccessKeyID     string `env:"R2_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"R2_SECRET_ACCESS_KEY"`
	BucketName      string `env:"R2_BUCKET_NAME"`
	PublicBaseURL   string `env:"R2_PUBLIC_BASE_URL"`
}

func (c R2Config) Uploader() storage.CloudflareR2UploaderConfig {
	return storage.CloudflareR2UploaderConfig{
		AccountID:       c.AccountID,
		AccessKeyID:     c.AccessKeyID,
		SecretAccessKey: c.SecretAccessKey,
		BucketName:      c.BucketName,
		PublicBaseURL:   c.PublicBaseURL,
	}
}

// Load reads the configuration from the environment, loading a .env file
// first when one is present.
func Load() (*Config, error) {
	// .env is only used locally, so a missing file is not fatal.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL))
	}
	if !c.DefaultPointsMode.Valid() {
		errs = append(errs, fmt.Errorf("DEFAULT_POINTS_MODE must be overall-only or always, got %q", c.DefaultPointsMode))
	}
	for i, origin := range c.CORSAllowedOrigins {
		c.CORSAllowedOrigins[i] = strings.TrimSpace(origin)
	}
	return errors.Join(errs...)
}

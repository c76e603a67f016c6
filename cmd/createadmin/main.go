// Command createadmin creates or resets an admin console account.
//
//	createadmin -email admin@example.com -name "Admin" -password secret123
//
// The password may also be passed through ADMIN_PASSWORD.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/Dosada05/sportsmeet/db"
	"github.com/Dosada05/sportsmeet/repositories"
	"github.com/Dosada05/sportsmeet/services"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type adminEnv struct {
	DatabaseURL   string `env:"DATABASE_URL,required,notEmpty"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

func main() {
	email := flag.String("email", "", "admin email")
	name := flag.String("name", "Administrator", "display name")
	password := flag.String("password", "", "admin password (or ADMIN_PASSWORD)")
	migrate := flag.Bool("migrate", false, "apply the database schema first")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	_ = godotenv.Load()
	cfg, err := env.ParseAs[adminEnv]()
	if err != nil {
		logger.Error("failed to parse environment", slog.Any("error", err))
		os.Exit(1)
	}
	if *password == "" {
		*password = cfg.AdminPassword
	}

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbConn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *migrate {
		if err := db.Migrate(ctx, dbConn); err != nil {
			logger.Error("failed to apply database schema", slog.Any("error", err))
			os.Exit(1)
		}
	}

	authService := services.NewAuthService(repositories.NewPostgresUserRepository(dbConn))
	user, err := authService.EnsureAdmin(ctx, services.AdminInput{
		Email:    *email,
		Name:     *name,
		Password: *password,
	})
	if err != nil {
		logger.Error("failed to create admin", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("admin ready", slog.Int("id", user.ID), slog.String("email", user.Email))
}

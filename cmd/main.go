package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/sportsmeet/config"
	"github.com/Dosada05/sportsmeet/db"
	_ "github.com/Dosada05/sportsmeet/docs"
	"github.com/Dosada05/sportsmeet/handlers"
	"github.com/Dosada05/sportsmeet/metrics"
	"github.com/Dosada05/sportsmeet/repositories"
	api "github.com/Dosada05/sportsmeet/routes"
	"github.com/Dosada05/sportsmeet/services"
	"github.com/Dosada05/sportsmeet/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

// @title Sports Meet API
// @version 1.0
// @description Результаты межфакультетской спартакиады и таблица очков.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Set up the logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("default_points_mode", string(cfg.DefaultPointsMode)),
	)

	// Connect to the database
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if cfg.MigrateOnStart {
		migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := db.Migrate(migrateCtx, dbConn)
		cancel()
		if err != nil {
			logger.Error("failed to apply database schema", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("database schema applied")
	}

	// File storage (Cloudflare R2) is optional; without it uploads answer 503
	var uploader storage.FileUploader
	if r2cfg := cfg.R2.Uploader(); r2cfg.Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(context.Background(), r2cfg)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized", slog.String("bucket", r2cfg.BucketName))
	} else {
		logger.Warn("R2 storage is not configured, uploads are disabled")
	}

	metricsManager := metrics.NewManager(metrics.WithRuntimeCollectors())

	// Repositories
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	facultyRepo := repositories.NewPostgresFacultyRepository(dbConn)
	sportRepo := repositories.NewPostgresSportRepository(dbConn)
	resultRepo := repositories.NewPostgresResultRepository(dbConn)
	placementRepo := repositories.NewPostgresPlacementRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	pointsRepo := repositories.NewPostgresFacultyPointsRepository(dbConn)
	mediaRepo := repositories.NewPostgresMediaRepository(dbConn)
	logger.Info("repositories initialized")

	// Services
	pointsDeps := services.PointsDeps{
		Tx:              db.NewTxRunner(dbConn, logger),
		ResultRepo:      resultRepo,
		PlacementRepo:   placementRepo,
		ParticipantRepo: participantRepo,
		PointsRepo:      pointsRepo,
		Observer:        metricsManager,
		Logger:          logger,
	}
	authService := services.NewAuthService(userRepo)
	facultyService := services.NewFacultyService(facultyRepo, uploader, logger)
	sportService := services.NewSportService(sportRepo, uploader, logger)
	mediaService := services.NewMediaService(mediaRepo, uploader, logger)
	pointsService := services.NewPointsService(pointsDeps)
	resultService := services.NewResultService(pointsDeps, sportRepo, cfg.DefaultPointsMode)
	standingsService := services.NewStandingsService(facultyRepo, pointsRepo, uploader)
	dashboardService := services.NewDashboardService(facultyRepo, sportRepo, resultRepo, mediaRepo, pointsRepo)
	logger.Info("services initialized")

	// Router
	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Auth:      handlers.NewAuthHandler(authService, cfg.JWTSecretKey, cfg.JWTTTL),
		Faculty:   handlers.NewFacultyHandler(facultyService),
		Sport:     handlers.NewSportHandler(sportService),
		Result:    handlers.NewResultHandler(resultService),
		Points:    handlers.NewPointsHandler(pointsService),
		Standings: handlers.NewStandingsHandler(standingsService),
		Media:     handlers.NewMediaHandler(mediaService),
		Dashboard: handlers.NewDashboardHandler(dashboardService),
		Health:    handlers.NewHealthHandler(dbConn),
	}, api.Options{
		JWTSecret:      []byte(cfg.JWTSecretKey),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         logger,
		Metrics:        metricsManager,
	})
	logger.Info("routes configured")

	// Configure and start the HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for a shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}

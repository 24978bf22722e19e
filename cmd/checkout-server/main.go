package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/frontdash/checkout/internal/api"
	"github.com/frontdash/checkout/internal/config"
	"github.com/frontdash/checkout/internal/frontdash"
	"github.com/frontdash/checkout/internal/repository"
	"github.com/frontdash/checkout/internal/repository/memory"
	"github.com/frontdash/checkout/internal/repository/postgres"
	"github.com/frontdash/checkout/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Confirmation archive
	var repos *repository.Repositories
	switch cfg.Archive.Driver {
	case config.ArchiveDriverPostgres:
		db, err := postgres.NewConnection(cfg.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := postgres.RunMigrations(db); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		repos = postgres.NewRepositories(db, logger)
	default:
		repos = memory.NewRepositories()
	}

	client := frontdash.NewClient(cfg.Frontdash, logger)
	checkoutService := service.NewCheckoutService(client, repos, cfg.Checkout, logger)
	router := api.NewRouter(cfg, checkoutService, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting checkout server",
			zap.String("port", cfg.Port),
			zap.String("environment", cfg.Environment),
			zap.String("archive", cfg.Archive.Driver),
			zap.String("frontdash_api", cfg.Frontdash.BaseURL),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Failed to shut down gracefully", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	zapCfg := zap.NewDevelopmentConfig()
	if cfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"presight/pkg/config"
	"presight/pkg/database"
	"presight/pkg/errors"
	httpserver "presight/pkg/http"
	"presight/pkg/http/handlers"
	"presight/pkg/logging"
	"presight/pkg/metrics"
	"presight/pkg/repository"
	"presight/pkg/sampler"
	"presight/pkg/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.Init(logging.LogLevel(cfg.Logging.Level), cfg.Logging.Format); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger := logging.Get()
	defer logger.Sync()

	logger.Infof("Starting presight presence analytics service")
	logger.Infof("Server: %s:%d, database driver: %s", cfg.Server.Host, cfg.Server.Port, cfg.Database.Driver)

	db, err := database.New(cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	if err := db.Migrate(); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	mets := metrics.NewDefault()
	repo := repository.NewPresenceRepository(db.GetDB())

	presenceService := services.NewPresenceService(repo)
	statsService := services.NewStatsService(repo)
	predictionService := services.NewPredictionService(repo)
	reportService := services.NewReportService(statsService, mets)

	errHandler := errors.NewErrorHandler(true)
	server := httpserver.NewServer(cfg.Server, logger, mets, httpserver.Handlers{
		Stats:      handlers.NewStatsHandlers(presenceService, statsService, errHandler),
		Prediction: handlers.NewPredictionHandlers(predictionService, errHandler),
		Report:     handlers.NewReportHandlers(reportService, errHandler),
		User:       handlers.NewUserHandlers(presenceService, errHandler),
		Health:     handlers.NewHealthHandler(db.GetDB()),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var presenceSampler *sampler.Sampler
	if cfg.Sampler.Enabled {
		presenceSampler = sampler.New(
			sampler.NewSyntheticDirectory(50),
			repo, logger, mets, cfg.Sampler.Interval,
		)
		presenceSampler.Start(ctx)
		logger.Infof("Presence sampler started, interval %s", cfg.Sampler.Interval)
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Shutdown signal received: %v", sig)
	case err := <-serverErr:
		if err != nil {
			logger.Errorf("HTTP server failed: %v", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error stopping HTTP server: %v", err)
	}
	if presenceSampler != nil {
		cancel()
		presenceSampler.Stop()
	}
	if err := db.Close(); err != nil {
		logger.Errorf("Error closing database: %v", err)
	}

	logger.Infof("Service stopped cleanly")
}

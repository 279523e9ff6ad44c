package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Tushar365/orderapp/internal/api"
	"github.com/Tushar365/orderapp/internal/config"
	"github.com/Tushar365/orderapp/internal/drive"
	"github.com/Tushar365/orderapp/internal/repository/postgres"
	"github.com/Tushar365/orderapp/internal/service"
	"github.com/Tushar365/orderapp/internal/sheets"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	logger.Info("Starting pharmacy order server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
	)

	// Initialize database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := postgres.RunMigrations(db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db, logger)

	// External clients: spreadsheet mirror and prescription storage
	sheetsClient := sheets.NewClient(cfg.Sheets, logger)
	driveClient := drive.NewClient(cfg.Drive, logger)

	// Services
	assembler := service.NewAssembler(cfg.ServicePincodes)
	reconciler := service.NewSheetReconciler(sheetsClient, repos, cfg.Sheets.OrdersTab, cfg.Sheets.MedicinesTab, logger)
	svc := service.NewOrderService(repos, assembler, reconciler, logger)

	// Initialize router
	router := api.NewRouter(cfg, repos, svc, reconciler, driveClient, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Sheet sync: run once on startup, then on an interval
	syncCtx, stopSync := context.WithCancel(context.Background())
	defer stopSync()
	if sheetsClient.Configured() {
		go service.RunSheetSyncLoop(syncCtx, reconciler, cfg.SyncInterval, logger)
		logger.Info("Sheet sync job started",
			zap.Duration("interval", cfg.SyncInterval),
		)
	} else {
		logger.Warn("Sheet mirror not configured, sync loop disabled")
	}

	logger.Info("Server started successfully", zap.String("address", srv.Addr))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stopSync()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

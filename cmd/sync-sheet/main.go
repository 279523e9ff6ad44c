package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Tushar365/orderapp/internal/config"
	"github.com/Tushar365/orderapp/internal/repository/postgres"
	"github.com/Tushar365/orderapp/internal/service"
	"github.com/Tushar365/orderapp/internal/sheets"
)

func main() {
	// CLI convenience: pick up the local .env if present
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	repos := postgres.NewRepositories(db, logger)

	sheetsClient := sheets.NewClient(cfg.Sheets, logger)
	if !sheetsClient.Configured() {
		fmt.Fprintln(os.Stderr, "❌ Sheet mirror not configured (set GOOGLE_SHEET_ID and GOOGLE_SHEETS_TOKEN)")
		os.Exit(1)
	}

	reconciler := service.NewSheetReconciler(sheetsClient, repos, cfg.Sheets.OrdersTab, cfg.Sheets.MedicinesTab, logger)

	fmt.Println("🔄 Pulling updates from the sheet mirror...")
	report, err := service.RunSheetSyncOnce(context.Background(), reconciler, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Sync failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Sync complete: %d orders updated, %d medicines updated, %d rows skipped, %d rows failed\n",
		report.OrdersUpdated, report.MedicinesUpdated, report.RowsSkipped, report.RowsFailed)
}

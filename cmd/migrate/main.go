package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/Tushar365/orderapp/internal/config"
	"github.com/Tushar365/orderapp/internal/repository/postgres"
)

func main() {
	// CLI convenience: pick up the local .env if present
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to run migrations: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Migrations applied successfully")
}

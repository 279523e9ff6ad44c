package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	Database    DatabaseConfig
	Sheets      SheetsConfig
	Drive       DriveConfig
	API         APIConfig
	LogLevel    string
	// SYNC_SECRET: optional shared secret for POST /v1/sync-sheet
	SyncSecret string
	// SERVICE_PINCODES: comma-separated delivery area pincodes
	ServicePincodes []string
	SyncInterval    time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// SheetsConfig is used to call the spreadsheet mirror that the back office
// edits by hand. Empty SpreadsheetID disables push and pull.
type SheetsConfig struct {
	SpreadsheetID string
	AccessToken   string // GOOGLE_SHEETS_TOKEN: bearer token for the values API
	OrdersTab     string
	MedicinesTab  string
}

// DriveConfig is used to upload prescription files. Empty FolderID disables
// the upload endpoint (it returns 503).
type DriveConfig struct {
	FolderID    string
	AccessToken string // GOOGLE_DRIVE_TOKEN
}

type APIConfig struct {
	// ADMIN_KEY_HASH: bcrypt hash of the back-office API key
	AdminKeyHash string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SHEET_ORDERS_TAB", "Orders")
	viper.SetDefault("SHEET_MEDICINES_TAB", "Medicines")
	viper.SetDefault("SHEET_SYNC_INTERVAL_MINUTES", "10")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "orderapp"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Sheets: SheetsConfig{
			SpreadsheetID: strings.TrimSpace(getEnvOrViper("GOOGLE_SHEET_ID", "")),
			AccessToken:   strings.TrimSpace(getEnvOrViper("GOOGLE_SHEETS_TOKEN", "")),
			OrdersTab:     getEnvOrViper("SHEET_ORDERS_TAB", "Orders"),
			MedicinesTab:  getEnvOrViper("SHEET_MEDICINES_TAB", "Medicines"),
		},
		Drive: DriveConfig{
			FolderID:    strings.TrimSpace(getEnvOrViper("GOOGLE_DRIVE_FOLDER_ID", "")),
			AccessToken: strings.TrimSpace(getEnvOrViper("GOOGLE_DRIVE_TOKEN", "")),
		},
		API: APIConfig{
			AdminKeyHash: strings.TrimSpace(getEnvOrViper("ADMIN_KEY_HASH", "")),
		},
		LogLevel:   getEnvOrViper("LOG_LEVEL", "info"),
		SyncSecret: strings.TrimSpace(getEnvOrViper("SYNC_SECRET", "")),
	}

	pincodes := getEnvOrViper("SERVICE_PINCODES", "110001,110002")
	for _, p := range strings.Split(pincodes, ",") {
		if p = strings.TrimSpace(p); p != "" {
			cfg.ServicePincodes = append(cfg.ServicePincodes, p)
		}
	}
	if len(cfg.ServicePincodes) == 0 {
		return nil, fmt.Errorf("SERVICE_PINCODES must list at least one pincode")
	}

	minutes := viper.GetInt("SHEET_SYNC_INTERVAL_MINUTES")
	if minutes <= 0 {
		minutes = 10
	}
	cfg.SyncInterval = time.Duration(minutes) * time.Minute

	return cfg, nil
}

// InServiceArea reports whether a pincode is in the delivery area.
func (c *Config) InServiceArea(pincode string) bool {
	for _, p := range c.ServicePincodes {
		if p == pincode {
			return true
		}
	}
	return false
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

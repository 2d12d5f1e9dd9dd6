/*
config.go - Environment configuration

PURPOSE:
  Reads the runtime configuration from environment variables, with sane
  development defaults. Flags in cmd/server override the port and select
  the workbook backend.

ENVIRONMENT VARIABLES:
  API_KEY                  Static API key for X-API-Key auth
  GOOGLE_CREDENTIALS_PATH  Service account JSON for the Sheets backend
  SPREADSHEET_ID           Target spreadsheet ID for the Sheets backend
  FRONTEND_URL             Extra CORS origin
  PORT                     HTTP port (default 8000)
*/
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config is the runtime configuration of the server.
type Config struct {
	APIKey          string
	CredentialsPath string
	SpreadsheetID   string
	FrontendURL     string
	Port            int
}

// FromEnv builds a Config from the environment.
func FromEnv() Config {
	return Config{
		APIKey:          getenv("API_KEY", "dev-api-key"),
		CredentialsPath: getenv("GOOGLE_CREDENTIALS_PATH", "credentials.json"),
		SpreadsheetID:   os.Getenv("SPREADSHEET_ID"),
		FrontendURL:     os.Getenv("FRONTEND_URL"),
		Port:            getenvInt("PORT", 8000),
	}
}

// ValidateSheets checks the fields the Google Sheets backend needs.
func (c Config) ValidateSheets() error {
	if c.SpreadsheetID == "" {
		return fmt.Errorf("SPREADSHEET_ID is required for the Google Sheets backend")
	}
	if _, err := os.Stat(c.CredentialsPath); err != nil {
		return fmt.Errorf("credentials file %s: %w", c.CredentialsPath, err)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// Package config loads server configuration from the environment, with a
// .env file picked up in development.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs at startup.
type Config struct {
	// Port the HTTP server listens on.
	Port string

	// DBPath is the SQLite database file path.
	DBPath string

	// GeminiAPIKey authenticates against the Gemini API.
	GeminiAPIKey string

	// GeminiModel is the vision model used for extraction.
	GeminiModel string
}

// Load reads configuration from the environment. Outside production a .env
// file is loaded first if present. GEMINI_API_KEY is the only required
// variable; everything else has a sensible default.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		DBPath:       getEnv("DB_PATH", "./data/bills.db"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("missing env var: GEMINI_API_KEY")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Package config handles prediction service configuration from environment variables
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the prediction service configuration
type Config struct {
	// Server settings
	Port          string
	Env           string // "development", "production"
	LogLevel      string
	LogFormat     string // "text" or "json"
	AllowedOrigin string

	// Model
	ModelPath string

	// History
	DatabaseURL   string // PostgreSQL connection string (optional, in-memory if not set)
	HistoryBuffer int
	HistoryBatch  int
}

const (
	DefaultPort          = "8000"
	DefaultEnv           = "development"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultAllowedOrigin = "*"
	DefaultModelPath     = "models/model_pipeline.bin"
	DefaultHistoryBuffer = 1024
	DefaultHistoryBatch  = 64
)

// Load reads configuration from environment variables.
// A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", DefaultPort),
		Env:           getEnv("ENV", DefaultEnv),
		LogLevel:      getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:     getEnv("LOG_FORMAT", DefaultLogFormat),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", DefaultAllowedOrigin),
		ModelPath:     getEnv("MODEL_PATH", DefaultModelPath),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		HistoryBuffer: getEnvInt("HISTORY_BUFFER", DefaultHistoryBuffer),
		HistoryBatch:  getEnvInt("HISTORY_BATCH", DefaultHistoryBatch),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.ModelPath == "" {
		return fmt.Errorf("MODEL_PATH is required")
	}
	port, err := strconv.Atoi(c.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("PORT must be a number between 1 and 65535, got %q", c.Port)
	}
	if c.HistoryBuffer < 1 {
		return fmt.Errorf("HISTORY_BUFFER must be positive, got %d", c.HistoryBuffer)
	}
	if c.HistoryBatch < 1 {
		return fmt.Errorf("HISTORY_BATCH must be positive, got %d", c.HistoryBatch)
	}
	return nil
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Port
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// Package config loads configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/TheGhoul27/NAS-Cloud/pkg/models"
)

// Config holds all client configuration.
type Config struct {
	// Server
	ServerURL string
	Context   models.Context

	// Logging
	LogLevel  string
	LogFormat string

	// Metrics (empty = disabled)
	MetricsAddr string

	// HTTP
	RequestTimeout time.Duration
	RetryAttempts  int

	// Search
	SearchDebounce time.Duration
}

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	cfg := &Config{
		ServerURL:      envOr("NASCLOUD_SERVER_URL", "http://localhost:8000"),
		Context:        models.Context(envOr("NASCLOUD_CONTEXT", "drive")),
		LogLevel:       envOr("LOG_LEVEL", "info"),
		LogFormat:      envOr("LOG_FORMAT", "console"),
		MetricsAddr:    envOr("METRICS_ADDR", ""),
		RequestTimeout: envDuration("NASCLOUD_REQUEST_TIMEOUT", 30*time.Second),
		RetryAttempts:  envInt("NASCLOUD_RETRY_ATTEMPTS", 3),
		SearchDebounce: envDuration("NASCLOUD_SEARCH_DEBOUNCE", 300*time.Millisecond),
	}

	if !cfg.Context.Valid() {
		return nil, fmt.Errorf("NASCLOUD_CONTEXT must be %q or %q, got %q",
			models.ContextDrive, models.ContextPhotos, cfg.Context)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"INKWELL_DB_PATH" envDefault:"./data/inkwell.db"`
	ServerHost string `env:"INKWELL_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"INKWELL_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"INKWELL_ENV" envDefault:"development"`
	LogLevel   string `env:"INKWELL_LOG_LEVEL" envDefault:"info"`

	// Rate limiting for write operations, per client IP
	RateLimit float64 `env:"INKWELL_RATE_LIMIT" envDefault:"10"` // requests per second
	RateBurst int     `env:"INKWELL_RATE_BURST" envDefault:"20"`

	// Request handling
	RequestTimeout int `env:"INKWELL_REQUEST_TIMEOUT" envDefault:"30"` // seconds

	// Maintenance scheduler
	MaintenanceSchedule string `env:"INKWELL_MAINTENANCE_SCHEDULE" envDefault:"@hourly"`
	EventRetentionDays  int    `env:"INKWELL_EVENT_RETENTION_DAYS" envDefault:"90"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// SlogLevel maps the configured log level string to a slog.Level.
// Unknown values fall back to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.ServerPort < 1 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("INKWELL_SERVER_PORT must be between 1 and 65535, got %d", cfg.ServerPort)
	}
	if cfg.RateLimit <= 0 {
		return nil, fmt.Errorf("INKWELL_RATE_LIMIT must be positive, got %g", cfg.RateLimit)
	}
	if cfg.EventRetentionDays < 1 {
		return nil, fmt.Errorf("INKWELL_EVENT_RETENTION_DAYS must be at least 1, got %d", cfg.EventRetentionDays)
	}

	return cfg, nil
}

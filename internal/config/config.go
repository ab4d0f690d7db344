package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Config holds all configuration for the archive
type Config struct {
	// Database
	DatabaseURL string

	// Storage
	ArchiveRoot string

	// Membership export
	ExportDir     string
	NotifyCommand string

	// Logging
	LogLevel string

	// Environment
	AppEnv string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}

	// Required: DATABASE_URL
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set")
	}

	// ARCHIVE_ROOT (default: ./archive)
	cfg.ArchiveRoot = os.Getenv("ARCHIVE_ROOT")
	if cfg.ArchiveRoot == "" {
		cfg.ArchiveRoot = "./archive"
	}

	// EXPORT_DIR: membership export disabled when empty
	cfg.ExportDir = os.Getenv("EXPORT_DIR")

	// NOTIFY_LIST_CHANGE_COMMAND: command invoked with the export file path
	cfg.NotifyCommand = os.Getenv("NOTIFY_LIST_CHANGE_COMMAND")

	// LOG_LEVEL (default: info)
	cfg.LogLevel = os.Getenv("LOG_LEVEL")
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.AppEnv = os.Getenv("APP_ENV")
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}

	return cfg, nil
}

// LoadWithValidation loads and validates configuration, failing fast on errors
func LoadWithValidation() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.AppEnv == "production" {
		if err := cfg.ValidateProduction(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DatabaseURL cannot be empty")
	}
	if c.ArchiveRoot == "" {
		return fmt.Errorf("ArchiveRoot cannot be empty")
	}
	if c.NotifyCommand != "" && c.ExportDir == "" {
		return fmt.Errorf("NOTIFY_LIST_CHANGE_COMMAND requires EXPORT_DIR to be set")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error")
	}
	return nil
}

// ValidateProduction performs additional validation for production environment
func (c *Config) ValidateProduction() error {
	if strings.Contains(c.DatabaseURL, "sslmode=disable") {
		return fmt.Errorf("sslmode=disable is not allowed in production")
	}
	return nil
}

// LogConfig logs configuration values (excluding secrets)
func (c *Config) LogConfig(logger *slog.Logger) {
	logger.Info("configuration loaded",
		slog.String("archive_root", c.ArchiveRoot),
		slog.String("export_dir", c.ExportDir),
		slog.Bool("notify_command_set", c.NotifyCommand != ""),
		slog.String("log_level", c.LogLevel),
		slog.String("app_env", c.AppEnv),
	)
}

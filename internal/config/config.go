// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"garment-cost/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Server contains HTTP server settings
	Server ServerConfig `json:"server"`

	// Sheet contains costing-sheet source settings
	Sheet SheetConfig `json:"sheet"`

	// Rates contains exchange-rate source settings
	Rates RatesConfig `json:"rates"`

	// Store contains calculation history settings
	Store StoreConfig `json:"store"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`

	// Development exposes full error detail in responses
	Development bool `json:"development"`

	// AllowedOrigins lists CORS origins
	AllowedOrigins []string `json:"allowed_origins"`
}

// SheetConfig contains costing-sheet settings
type SheetConfig struct {
	// Path is the costing sheet file
	Path string `json:"path"`

	// Watch reloads the sheet on file changes
	Watch bool `json:"watch"`

	// Fallback seeds hard-coded defaults when the sheet cannot be read
	Fallback bool `json:"fallback"`
}

// RatesConfig contains exchange-rate source settings
type RatesConfig struct {
	// URL is the rate endpoint
	URL string `json:"url"`

	// RefreshSchedule is the cron spec for background refreshes
	RefreshSchedule string `json:"refresh_schedule"`

	// TimeoutSeconds bounds a single fetch
	TimeoutSeconds int `json:"timeout_seconds"`
}

// StoreConfig contains calculation history settings
type StoreConfig struct {
	// Enabled persists calculations when true
	Enabled bool `json:"enabled"`

	// Path is the sqlite database file
	Path string `json:"path"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".garment-cost")

	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
		Sheet: SheetConfig{
			Path:     filepath.Join(dataDir, "costing.hcl"),
			Watch:    true,
			Fallback: false,
		},
		Rates: RatesConfig{
			URL:             "",
			RefreshSchedule: "@every 1h",
			TimeoutSeconds:  10,
		},
		Store: StoreConfig{
			Enabled: true,
			Path:    filepath.Join(dataDir, "history.db"),
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file, falling back to defaults when the
// file does not exist
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides settings from environment variables, typically loaded
// from a .env file by the entrypoint
func (c *Config) ApplyEnv() {
	if v := os.Getenv("GARMENT_COST_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("GARMENT_COST_SHEET"); v != "" {
		c.Sheet.Path = v
	}
	if v := os.Getenv("GARMENT_COST_RATES_URL"); v != "" {
		c.Rates.URL = v
	}
	if v := os.Getenv("GARMENT_COST_DB"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("GARMENT_COST_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}

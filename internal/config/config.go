// Package config provides configuration management for the tracker.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Fetch    FetchConfig    `mapstructure:"fetch"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	UI       UIConfig       `mapstructure:"ui"`
}

// FetchConfig holds scraping-related configuration.
type FetchConfig struct {
	Workers         int     `mapstructure:"workers"`          // concurrent page fetches
	TimeoutSeconds  int     `mapstructure:"timeout_seconds"`  // per-request timeout
	RefreshInterval int     `mapstructure:"refresh_interval"` // seconds between watch sweeps
	RequestsPerSec  float64 `mapstructure:"requests_per_sec"` // rate limit toward the sites
}

// DatabaseConfig holds store configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// NotifyConfig holds alert notification configuration.
type NotifyConfig struct {
	Terminal bool          `mapstructure:"terminal"`
	Webhook  WebhookConfig `mapstructure:"webhook"`
}

// WebhookConfig holds webhook notification configuration.
type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

// UIConfig holds terminal output configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/psx-tracker"
	}
	return filepath.Join(home, ".config", "psx-tracker")
}

// DefaultDBPath returns the default SQLite database path.
func DefaultDBPath() string {
	return filepath.Join(DefaultConfigDir(), "psx.db")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("fetch.workers", 8)
	v.SetDefault("fetch.timeout_seconds", 10)
	v.SetDefault("fetch.refresh_interval", 300)
	v.SetDefault("fetch.requests_per_sec", 4.0)
	v.SetDefault("database.path", DefaultDBPath())
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
	v.SetDefault("notify.terminal", true)
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "2006-01-02")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if werr := writeTemplateConfig(configDir); werr != nil {
				return nil, fmt.Errorf("writing config template: %w", werr)
			}
		} else {
			return nil, fmt.Errorf("reading config.toml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PSX_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("PSX_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PSX_FETCH_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Fetch.Workers = n
		}
	}
	if v := os.Getenv("PSX_WEBHOOK_URL"); v != "" {
		cfg.Notify.Webhook.URL = v
		cfg.Notify.Webhook.Enabled = true
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Fetch.Workers < 1 || c.Fetch.Workers > 64 {
		return fmt.Errorf("fetch.workers must be between 1 and 64")
	}
	if c.Fetch.TimeoutSeconds < 1 {
		return fmt.Errorf("fetch.timeout_seconds must be positive")
	}
	if c.Fetch.RefreshInterval < 1 {
		return fmt.Errorf("fetch.refresh_interval must be positive")
	}
	if c.Fetch.RequestsPerSec <= 0 {
		return fmt.Errorf("fetch.requests_per_sec must be positive")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	return nil
}

const configTemplate = `# psx-tracker configuration

[fetch]
workers = 8
timeout_seconds = 10
refresh_interval = 300
requests_per_sec = 4.0

[database]
# path = "~/.config/psx-tracker/psx.db"

[logging]
level = "info"
console = true
file = true

[notify]
terminal = true

[notify.webhook]
enabled = false
url = ""

[ui]
color_enabled = true
date_format = "2006-01-02"
`

func writeTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}
	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte(configTemplate), 0644)
}

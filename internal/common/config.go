// Package common provides shared utilities for Moneta
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Moneta
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Finance     FinanceConfig `toml:"finance"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	ExternalURL string `toml:"external_url"` // Public base URL when behind a proxy (optional)
}

// StorageConfig selects and configures the ledger storage backend.
// Backend is "badger" (embedded, default) or "surrealdb" (server).
type StorageConfig struct {
	Backend   string          `toml:"backend"`
	DataDir   string          `toml:"data_dir"` // Root for the embedded backend
	SurrealDB SurrealDBConfig `toml:"surrealdb"`
}

// SurrealDBConfig holds connection settings for the SurrealDB backend.
type SurrealDBConfig struct {
	URL       string `toml:"url"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

// FinanceConfig holds analytics behavior settings.
type FinanceConfig struct {
	// DefaultCurrency is the display currency when a tool call omits one ("GBP" or "USD").
	DefaultCurrency string `toml:"default_currency"`
	// FallbackGBPUSD is used when the fx_rates store has no GBPUSD row.
	FallbackGBPUSD float64 `toml:"fallback_gbp_usd"`
	// ExcludedCategories overrides the built-in spending exclusion set when non-empty.
	ExcludedCategories []string `toml:"excluded_categories"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 4600,
		},
		Storage: StorageConfig{
			Backend: "badger",
			DataDir: "./data",
			SurrealDB: SurrealDBConfig{
				URL:       "ws://localhost:8000/rpc",
				Namespace: "moneta",
				Database:  "ledger",
				Username:  "root",
				Password:  "root",
			},
		},
		Finance: FinanceConfig{
			DefaultCurrency: "GBP",
			FallbackGBPUSD:  1.27,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Missing files are skipped; later files override earlier ones.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies MONETA_* environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("MONETA_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("MONETA_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("MONETA_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if url := os.Getenv("MONETA_EXTERNAL_URL"); url != "" {
		config.Server.ExternalURL = url
	}

	if backend := os.Getenv("MONETA_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = strings.ToLower(backend)
	}

	if dir := os.Getenv("MONETA_STORAGE_DATA_DIR"); dir != "" {
		config.Storage.DataDir = dir
	}

	if v := os.Getenv("MONETA_SURREALDB_URL"); v != "" {
		config.Storage.SurrealDB.URL = v
	}
	if v := os.Getenv("MONETA_SURREALDB_NAMESPACE"); v != "" {
		config.Storage.SurrealDB.Namespace = v
	}
	if v := os.Getenv("MONETA_SURREALDB_DATABASE"); v != "" {
		config.Storage.SurrealDB.Database = v
	}
	if v := os.Getenv("MONETA_SURREALDB_USER"); v != "" {
		config.Storage.SurrealDB.Username = v
	}
	if v := os.Getenv("MONETA_SURREALDB_PASS"); v != "" {
		config.Storage.SurrealDB.Password = v
	}

	if dc := os.Getenv("MONETA_DEFAULT_CURRENCY"); dc != "" {
		config.Finance.DefaultCurrency = strings.ToUpper(dc)
	}

	if rate := os.Getenv("MONETA_FALLBACK_GBP_USD"); rate != "" {
		if r, err := strconv.ParseFloat(rate, 64); err == nil && r > 0 {
			config.Finance.FallbackGBPUSD = r
		}
	}

	if level := os.Getenv("MONETA_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// Validate checks the loaded configuration for values that would make the
// server misbehave at runtime rather than fail fast.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}

	switch c.Storage.Backend {
	case "badger", "surrealdb":
	default:
		return fmt.Errorf("invalid storage backend %q (valid: badger, surrealdb)", c.Storage.Backend)
	}

	dc := strings.ToUpper(c.Finance.DefaultCurrency)
	if dc != "GBP" && dc != "USD" {
		return fmt.Errorf("invalid default currency %q (valid: GBP, USD)", c.Finance.DefaultCurrency)
	}
	c.Finance.DefaultCurrency = dc

	if c.Finance.FallbackGBPUSD <= 0 {
		return fmt.Errorf("fallback_gbp_usd must be positive, got %v", c.Finance.FallbackGBPUSD)
	}

	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// Print logs the effective configuration at startup. Secrets are redacted.
func (c *Config) Print(logger *Logger) {
	logger.Info().
		Str("environment", c.Environment).
		Str("host", c.Server.Host).
		Int("port", c.Server.Port).
		Str("backend", c.Storage.Backend).
		Str("data_dir", c.Storage.DataDir).
		Str("default_currency", c.Finance.DefaultCurrency).
		Float64("fallback_gbp_usd", c.Finance.FallbackGBPUSD).
		Str("log_level", c.Logging.Level).
		Msg("Configuration loaded")

	if c.Storage.Backend == "surrealdb" {
		logger.Info().
			Str("url", c.Storage.SurrealDB.URL).
			Str("namespace", c.Storage.SurrealDB.Namespace).
			Str("database", c.Storage.SurrealDB.Database).
			Str("username", c.Storage.SurrealDB.Username).
			Msg("SurrealDB backend configured")
	}
}

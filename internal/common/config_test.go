package common

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig_DefaultPort(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Server.Port != 4600 {
		t.Errorf("Server.Port default = %d, want %d", cfg.Server.Port, 4600)
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Storage.Backend != "badger" {
		t.Errorf("Storage.Backend default = %q, want %q", cfg.Storage.Backend, "badger")
	}
	if cfg.Finance.DefaultCurrency != "GBP" {
		t.Errorf("Finance.DefaultCurrency default = %q, want %q", cfg.Finance.DefaultCurrency, "GBP")
	}
	if cfg.Finance.FallbackGBPUSD != 1.27 {
		t.Errorf("Finance.FallbackGBPUSD default = %v, want 1.27", cfg.Finance.FallbackGBPUSD)
	}
}

func TestConfig_PortEnvOverride(t *testing.T) {
	t.Setenv("MONETA_SERVER_PORT", "9090")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d after env override, want %d", cfg.Server.Port, 9090)
	}
}

func TestConfig_BackendEnvOverride(t *testing.T) {
	t.Setenv("MONETA_STORAGE_BACKEND", "SurrealDB")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Storage.Backend != "surrealdb" {
		t.Errorf("Storage.Backend = %q after env override, want %q", cfg.Storage.Backend, "surrealdb")
	}
}

func TestConfig_SurrealEnvOverrides(t *testing.T) {
	t.Setenv("MONETA_SURREALDB_URL", "ws://db:8000/rpc")
	t.Setenv("MONETA_SURREALDB_USER", "moneta")
	t.Setenv("MONETA_SURREALDB_PASS", "hunter2")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Storage.SurrealDB.URL != "ws://db:8000/rpc" {
		t.Errorf("SurrealDB.URL = %q, want %q", cfg.Storage.SurrealDB.URL, "ws://db:8000/rpc")
	}
	if cfg.Storage.SurrealDB.Username != "moneta" {
		t.Errorf("SurrealDB.Username = %q, want %q", cfg.Storage.SurrealDB.Username, "moneta")
	}
	if cfg.Storage.SurrealDB.Password != "hunter2" {
		t.Errorf("SurrealDB.Password = %q, want %q", cfg.Storage.SurrealDB.Password, "hunter2")
	}
}

func TestConfig_FallbackRateEnvOverride(t *testing.T) {
	t.Setenv("MONETA_FALLBACK_GBP_USD", "1.31")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Finance.FallbackGBPUSD != 1.31 {
		t.Errorf("FallbackGBPUSD = %v after env override, want 1.31", cfg.Finance.FallbackGBPUSD)
	}
}

func TestConfig_FallbackRateEnvInvalidIgnored(t *testing.T) {
	t.Setenv("MONETA_FALLBACK_GBP_USD", "-2")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Finance.FallbackGBPUSD != 1.27 {
		t.Errorf("FallbackGBPUSD = %v, want default 1.27 for invalid env value", cfg.Finance.FallbackGBPUSD)
	}
}

func TestConfig_Validate_BadBackend(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Storage.Backend = "postgres"

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() = nil for backend postgres, want error")
	}
}

func TestConfig_Validate_BadCurrency(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Finance.DefaultCurrency = "AUD"

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() = nil for currency AUD, want error")
	}
}

func TestConfig_Validate_NormalizesCurrencyCase(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Finance.DefaultCurrency = "usd"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Finance.DefaultCurrency != "USD" {
		t.Errorf("DefaultCurrency = %q after Validate, want %q", cfg.Finance.DefaultCurrency, "USD")
	}
}

func TestConfig_Validate_BadFallbackRate(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Finance.FallbackGBPUSD = 0

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() = nil for zero fallback rate, want error")
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/moneta.toml")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Port != 4600 {
		t.Errorf("Server.Port = %d, want default 4600", cfg.Server.Port)
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "moneta.toml")
	content := `
[server]
port = 5000

[finance]
default_currency = "USD"
excluded_categories = ["Excluded", "Income"]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Finance.DefaultCurrency != "USD" {
		t.Errorf("DefaultCurrency = %q, want USD", cfg.Finance.DefaultCurrency)
	}
	if len(cfg.Finance.ExcludedCategories) != 2 {
		t.Errorf("ExcludedCategories = %v, want 2 entries", cfg.Finance.ExcludedCategories)
	}
	// Untouched sections keep defaults
	if cfg.Storage.Backend != "badger" {
		t.Errorf("Storage.Backend = %q, want badger", cfg.Storage.Backend)
	}
}

func TestLoadConfig_MalformedFileErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "moneta.toml")
	if err := os.WriteFile(path, []byte("[server\nport = oops"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() = nil error for malformed TOML, want error")
	}
}

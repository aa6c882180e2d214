package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bobmcallan/moneta/internal/common"
)

func TestNewStorageManagerBadger(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Storage.Backend = BackendBadger
	cfg.Storage.DataDir = t.TempDir()

	sm, err := NewStorageManager(common.NewSilentLogger(), cfg)
	if err != nil {
		t.Fatalf("open badger backend: %v", err)
	}
	defer sm.Close()

	if err := sm.Ping(context.Background()); err != nil {
		t.Errorf("ping: %v", err)
	}
}

func TestNewStorageManagerDefaultsToBadger(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Storage.Backend = ""
	cfg.Storage.DataDir = t.TempDir()

	sm, err := NewStorageManager(common.NewSilentLogger(), cfg)
	if err != nil {
		t.Fatalf("open default backend: %v", err)
	}
	defer sm.Close()
}

func TestNewStorageManagerUnknownBackend(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Storage.Backend = "postgres"

	_, err := NewStorageManager(common.NewSilentLogger(), cfg)
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

const seedJSON = `{
  "accounts": [
    {"institution": "Monzo", "account_name": "Current", "category": "Cash", "currency": "GBP", "balance_total_local": 1200.50, "balance_personal_local": 1200.50, "date_updated": "2025-07-01T00:00:00Z"},
    {"institution": "Vanguard", "account_name": "ISA", "category": "Brokerage", "currency": "GBP", "balance_total_local": 25000, "balance_personal_local": 25000, "date_updated": "2025-07-01T00:00:00Z"}
  ],
  "transactions": [
    {"date": "2025-07-03T00:00:00Z", "counterparty": "TESCO STORES 2904", "category": "Groceries", "amount_gbp": -54.20},
    {"date": "2025-07-05T00:00:00Z", "counterparty": "Salary", "category": "Income", "amount_gbp": 3200.00}
  ],
  "budget_targets": [
    {"category": "Groceries", "annual_budget_gbp": -4800, "tracking_est_gbp": 5100, "ytd_gbp": -2800}
  ],
  "budget_history": [
    {"date": "2025-06-01T00:00:00Z", "category": "Groceries", "forecast_spend": 4900, "annual_budget": -4800}
  ],
  "net_worth": [
    {"date": "2025-06-01T00:00:00Z", "category": "Personal", "amount_gbp": 100000, "amount_usd": 127000}
  ],
  "fx_rates": [
    {"date": "2025-07-01T00:00:00Z", "gbpusd_rate": 1.29}
  ]
}`

func TestImportSeed(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Storage.Backend = BackendBadger
	cfg.Storage.DataDir = t.TempDir()

	logger := common.NewSilentLogger()
	sm, err := NewStorageManager(logger, cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer sm.Close()

	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, []byte(seedJSON), 0644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}

	ctx := context.Background()
	counts, err := ImportSeed(ctx, sm, logger, "default", path)
	if err != nil {
		t.Fatalf("import seed: %v", err)
	}
	if counts.Accounts != 2 || counts.Transactions != 2 || counts.BudgetTargets != 1 || counts.BudgetHistory != 1 || counts.NetWorth != 1 || counts.FXRates != 1 {
		t.Errorf("unexpected counts: %+v", counts)
	}

	accounts, err := sm.Accounts().ListAll(ctx, "default")
	if err != nil {
		t.Fatalf("list accounts: %v", err)
	}
	if len(accounts) != 2 {
		t.Errorf("expected 2 accounts, got %d", len(accounts))
	}
	for _, a := range accounts {
		if a.UserID != "default" {
			t.Errorf("account %s not stamped with user id", a.AccountName)
		}
	}

	rate, err := sm.FX().Latest(ctx, "default")
	if err != nil {
		t.Fatalf("latest fx: %v", err)
	}
	if rate == nil || rate.GBPUSD != 1.29 {
		t.Errorf("expected imported rate 1.29, got %+v", rate)
	}
}

func TestImportSeedRejectsUndatedTransaction(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Storage.Backend = BackendBadger
	cfg.Storage.DataDir = t.TempDir()

	logger := common.NewSilentLogger()
	sm, err := NewStorageManager(logger, cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer sm.Close()

	path := filepath.Join(t.TempDir(), "seed.json")
	bad := `{"transactions": [{"counterparty": "TESCO", "category": "Groceries", "amount_gbp": -10}]}`
	if err := os.WriteFile(path, []byte(bad), 0644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}

	if _, err := ImportSeed(context.Background(), sm, logger, "default", path); err == nil {
		t.Fatal("expected error for transaction without a date")
	}
}

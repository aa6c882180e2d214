package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/storage"
)

// TestSeedImport loads the full ledger fixture through the SurrealDB
// manager and reads it back through every store.
func TestSeedImport(t *testing.T) {
	mgr := testManager(t)
	ctx := testContext()
	logger := common.NewSilentLogger()

	counts, err := storage.ImportSeed(ctx, mgr, logger, "seed_user", "ledger.json")
	require.NoError(t, err)

	assert.Equal(t, 9, counts.Accounts)
	assert.Equal(t, 79, counts.Transactions)
	assert.Equal(t, 8, counts.BudgetTargets)
	assert.Equal(t, 21, counts.BudgetHistory)
	assert.Equal(t, 21, counts.NetWorth)
	assert.Equal(t, 3, counts.FXRates)

	// Accounts: every row stamped with the import user
	accounts, err := mgr.Accounts().ListAll(ctx, "seed_user")
	require.NoError(t, err)
	require.Len(t, accounts, 9)
	for _, a := range accounts {
		assert.Equal(t, "seed_user", a.UserID)
	}

	// Transactions: total count and a bounded month read
	count, err := mgr.Transactions().Count(ctx, "seed_user")
	require.NoError(t, err)
	assert.Equal(t, 79, count)

	july, err := mgr.Transactions().ListByDateRange(ctx, "seed_user",
		time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, july, 16)
	for i := 1; i < len(july); i++ {
		assert.False(t, july[i].Date.Before(july[i-1].Date), "transactions out of date order at %d", i)
	}

	// Budget targets ordered by category ascending
	targets, err := mgr.Budgets().ListTargets(ctx, "seed_user")
	require.NoError(t, err)
	require.Len(t, targets, 8)
	assert.Equal(t, "Dining", targets[0].Category)
	assert.Equal(t, "Utilities", targets[7].Category)

	// Budget history holds three capture dates
	rows, err := mgr.BudgetHistory().ListRows(ctx, "seed_user")
	require.NoError(t, err)
	assert.Len(t, rows, 21)

	// Net worth: exact-date read returns the three entity entries
	entries, err := mgr.NetWorth().ListByDateRange(ctx, "seed_user",
		time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// FX: greatest-dated rate wins
	latest, err := mgr.FX().Latest(ctx, "seed_user")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.InDelta(t, 1.28, latest.GBPUSD, 0.0001)
	assert.Equal(t, "2025-07-31", latest.Date.Format("2006-01-02"))
}

// TestSeedImportIdempotent re-imports the same file and verifies row
// counts are unchanged: file-assigned IDs overwrite rather than duplicate.
func TestSeedImportIdempotent(t *testing.T) {
	mgr := testManager(t)
	ctx := testContext()
	logger := common.NewSilentLogger()

	_, err := storage.ImportSeed(ctx, mgr, logger, "seed_user", "ledger.json")
	require.NoError(t, err)

	counts, err := storage.ImportSeed(ctx, mgr, logger, "seed_user", "ledger.json")
	require.NoError(t, err)
	assert.Equal(t, 79, counts.Transactions)

	accounts, err := mgr.Accounts().ListAll(ctx, "seed_user")
	require.NoError(t, err)
	assert.Len(t, accounts, 9)

	count, err := mgr.Transactions().Count(ctx, "seed_user")
	require.NoError(t, err)
	assert.Equal(t, 79, count)

	rates, err := mgr.FX().ListAll(ctx, "seed_user")
	require.NoError(t, err)
	assert.Len(t, rates, 3)
}

// TestSeedImportRejectsBadInput covers the validation failures: missing
// file, malformed JSON, and rows without required fields.
func TestSeedImportRejectsBadInput(t *testing.T) {
	mgr := testManager(t)
	ctx := testContext()
	logger := common.NewSilentLogger()

	t.Run("missing file", func(t *testing.T) {
		_, err := storage.ImportSeed(ctx, mgr, logger, "u1", filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read seed file")
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
		_, err := storage.ImportSeed(ctx, mgr, logger, "u1", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse seed file")
	})

	t.Run("transaction without date", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nodate.json")
		seed := `{"transactions": [{"id": "tx_x", "counterparty": "Tesco", "amount_gbp": -10}]}`
		require.NoError(t, os.WriteFile(path, []byte(seed), 0644))
		_, err := storage.ImportSeed(ctx, mgr, logger, "u1", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing date")
	})

	t.Run("account without identity", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "noident.json")
		seed := `{"accounts": [{"id": "acc_x", "currency": "GBP", "balance_total_local": 100, "date_updated": "2025-07-31T00:00:00Z"}]}`
		require.NoError(t, os.WriteFile(path, []byte(seed), 0644))
		_, err := storage.ImportSeed(ctx, mgr, logger, "u1", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing institution and account_name")
	})
}

// TestSeedImportIsolatesUsers imports under one user and verifies another
// user sees nothing.
func TestSeedImportIsolatesUsers(t *testing.T) {
	mgr := testManager(t)
	ctx := testContext()
	logger := common.NewSilentLogger()

	_, err := storage.ImportSeed(ctx, mgr, logger, "alice", "ledger.json")
	require.NoError(t, err)

	accounts, err := mgr.Accounts().ListAll(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, accounts)

	count, err := mgr.Transactions().Count(ctx, "bob")
	require.NoError(t, err)
	assert.Zero(t, count)

	latest, err := mgr.FX().Latest(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, latest)
}

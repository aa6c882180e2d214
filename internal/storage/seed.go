package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/interfaces"
	"github.com/bobmcallan/moneta/internal/models"
)

// SeedFile is the on-disk JSON layout consumed by ImportSeed: one object
// with an array per record type. Any section may be omitted.
type SeedFile struct {
	Accounts      []models.Account        `json:"accounts"`
	Transactions  []models.Transaction    `json:"transactions"`
	BudgetTargets []models.BudgetTarget   `json:"budget_targets"`
	BudgetHistory []models.BudgetSnapshot `json:"budget_history"`
	NetWorth      []models.NetWorthEntry  `json:"net_worth"`
	FXRates       []models.FXRate         `json:"fx_rates"`
}

// SeedCounts reports how many rows each section loaded.
type SeedCounts struct {
	Accounts      int `json:"accounts"`
	Transactions  int `json:"transactions"`
	BudgetTargets int `json:"budget_targets"`
	BudgetHistory int `json:"budget_history"`
	NetWorth      int `json:"net_worth"`
	FXRates       int `json:"fx_rates"`
}

// ImportSeed loads a JSON seed file into the store, stamping every row with
// userID. Rows keep their file-assigned IDs when present, so importing the
// same file twice overwrites rather than duplicates.
func ImportSeed(ctx context.Context, store interfaces.StorageManager, logger *common.Logger, userID, path string) (*SeedCounts, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	var seed SeedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}

	for i := range seed.Accounts {
		a := &seed.Accounts[i]
		a.UserID = userID
		if a.Institution == "" && a.AccountName == "" {
			return nil, fmt.Errorf("seed account %d: missing institution and account_name", i)
		}
	}
	for i := range seed.Transactions {
		tx := &seed.Transactions[i]
		tx.UserID = userID
		if tx.Date.IsZero() {
			return nil, fmt.Errorf("seed transaction %d (%s): missing date", i, tx.Counterparty)
		}
	}
	for i := range seed.BudgetTargets {
		seed.BudgetTargets[i].UserID = userID
	}
	for i := range seed.BudgetHistory {
		seed.BudgetHistory[i].UserID = userID
	}
	for i := range seed.NetWorth {
		e := &seed.NetWorth[i]
		e.UserID = userID
		if e.Date.IsZero() {
			return nil, fmt.Errorf("seed net worth entry %d (%s): missing date", i, e.Category)
		}
	}
	for i := range seed.FXRates {
		seed.FXRates[i].UserID = userID
	}

	if err := store.Accounts().PutBatch(ctx, seed.Accounts); err != nil {
		return nil, fmt.Errorf("failed to import accounts: %w", err)
	}
	if err := store.Transactions().PutBatch(ctx, seed.Transactions); err != nil {
		return nil, fmt.Errorf("failed to import transactions: %w", err)
	}
	if err := store.Budgets().PutBatch(ctx, seed.BudgetTargets); err != nil {
		return nil, fmt.Errorf("failed to import budget targets: %w", err)
	}
	if err := store.BudgetHistory().PutBatch(ctx, seed.BudgetHistory); err != nil {
		return nil, fmt.Errorf("failed to import budget history: %w", err)
	}
	if err := store.NetWorth().PutBatch(ctx, seed.NetWorth); err != nil {
		return nil, fmt.Errorf("failed to import net worth entries: %w", err)
	}
	for i := range seed.FXRates {
		if err := store.FX().Put(ctx, &seed.FXRates[i]); err != nil {
			return nil, fmt.Errorf("failed to import fx rate %d: %w", i, err)
		}
	}

	counts := &SeedCounts{
		Accounts:      len(seed.Accounts),
		Transactions:  len(seed.Transactions),
		BudgetTargets: len(seed.BudgetTargets),
		BudgetHistory: len(seed.BudgetHistory),
		NetWorth:      len(seed.NetWorth),
		FXRates:       len(seed.FXRates),
	}
	logger.Info().
		Str("path", path).
		Str("user_id", userID).
		Int("accounts", counts.Accounts).
		Int("transactions", counts.Transactions).
		Int("budget_targets", counts.BudgetTargets).
		Int("budget_history", counts.BudgetHistory).
		Int("net_worth", counts.NetWorth).
		Int("fx_rates", counts.FXRates).
		Msg("Seed data imported")
	return counts, nil
}

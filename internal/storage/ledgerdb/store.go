// Package ledgerdb implements the ledger stores using BadgerHold, an
// embedded index-aware layer over BadgerDB. It is the default backend:
// one data directory on disk, no external service to run.
package ledgerdb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/interfaces"
)

// Store implements interfaces.StorageManager over a single BadgerHold
// database holding all six record types.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger

	accounts     *accountStore
	transactions *transactionStore
	budgets      *budgetStore
	history      *historyStore
	networth     *networthStore
	fx           *fxStore
}

// NewStore opens (creating if needed) the ledger database under path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	dir := filepath.Join(path, "ledger")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledger db path %s: %w", dir, err)
	}

	opts := badgerhold.DefaultOptions
	opts.Dir = dir
	opts.ValueDir = dir
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger db at %s: %w", dir, err)
	}

	s := &Store{db: db, logger: logger}
	s.accounts = &accountStore{db: db, logger: logger}
	s.transactions = &transactionStore{db: db, logger: logger}
	s.budgets = &budgetStore{db: db, logger: logger}
	s.history = &historyStore{db: db, logger: logger}
	s.networth = &networthStore{db: db, logger: logger}
	s.fx = &fxStore{db: db, logger: logger}

	logger.Info().Str("path", dir).Msg("LedgerDB opened")
	return s, nil
}

func (s *Store) Accounts() interfaces.AccountStore {
	return s.accounts
}

func (s *Store) Transactions() interfaces.TransactionStore {
	return s.transactions
}

func (s *Store) Budgets() interfaces.BudgetStore {
	return s.budgets
}

func (s *Store) BudgetHistory() interfaces.BudgetHistoryStore {
	return s.history
}

func (s *Store) NetWorth() interfaces.NetWorthStore {
	return s.networth
}

func (s *Store) FX() interfaces.FXStore {
	return s.fx
}

// Ping runs a no-op read transaction to verify the store is usable.
func (s *Store) Ping(_ context.Context) error {
	return s.db.Badger().View(func(_ *badger.Txn) error { return nil })
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Compile-time check
var _ interfaces.StorageManager = (*Store)(nil)

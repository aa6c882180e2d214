// Package surrealdb implements the ledger stores against a SurrealDB
// instance. Every record is keyed by an explicit record ID so upserts are
// idempotent, and each table carries a shadow id field (account_id,
// transaction_id, ...) that SELECT projections alias back to id, keeping
// the models free of SurrealDB's own record ID type.
package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/interfaces"
)

// pageSize bounds a single SELECT; list operations paginate internally so
// callers always receive the full result set.
const pageSize = 1000

// Manager implements interfaces.StorageManager using SurrealDB.
type Manager struct {
	db     *surrealdb.DB
	logger *common.Logger

	accountStore     *AccountStore
	transactionStore *TransactionStore
	budgetStore      *BudgetStore
	historyStore     *BudgetHistoryStore
	netWorthStore    *NetWorthStore
	fxStore          *FXStore
}

// NewManager connects to SurrealDB and prepares the ledger tables.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	ctx := context.Background()
	sc := config.Storage.SurrealDB

	db, err := surrealdb.New(sc.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": sc.Username,
		"pass": sc.Password,
	}); err != nil {
		return nil, fmt.Errorf("failed to sign in to SurrealDB: %w", err)
	}

	if err := db.Use(ctx, sc.Namespace, sc.Database); err != nil {
		return nil, fmt.Errorf("failed to select namespace/database: %w", err)
	}

	// Define tables up front (SurrealDB v3 errors on querying non-existent tables)
	tables := []string{"accounts", "transactions", "budget_targets", "budget_history", "net_worth", "fx_rates"}
	for _, table := range tables {
		sql := fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS", table)
		if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
			return nil, fmt.Errorf("failed to define table %s: %w", table, err)
		}
	}

	m := &Manager{
		db:     db,
		logger: logger,
	}
	m.accountStore = NewAccountStore(db, logger)
	m.transactionStore = NewTransactionStore(db, logger)
	m.budgetStore = NewBudgetStore(db, logger)
	m.historyStore = NewBudgetHistoryStore(db, logger)
	m.netWorthStore = NewNetWorthStore(db, logger)
	m.fxStore = NewFXStore(db, logger)

	logger.Info().
		Str("url", sc.URL).
		Str("namespace", sc.Namespace).
		Str("database", sc.Database).
		Msg("SurrealDB storage manager initialized")

	return m, nil
}

func (m *Manager) Accounts() interfaces.AccountStore {
	return m.accountStore
}

func (m *Manager) Transactions() interfaces.TransactionStore {
	return m.transactionStore
}

func (m *Manager) Budgets() interfaces.BudgetStore {
	return m.budgetStore
}

func (m *Manager) BudgetHistory() interfaces.BudgetHistoryStore {
	return m.historyStore
}

func (m *Manager) NetWorth() interfaces.NetWorthStore {
	return m.netWorthStore
}

func (m *Manager) FX() interfaces.FXStore {
	return m.fxStore
}

// Ping issues a trivial query to verify the connection is alive.
func (m *Manager) Ping(ctx context.Context) error {
	if _, err := surrealdb.Query[any](ctx, m.db, "RETURN 1", nil); err != nil {
		return fmt.Errorf("surrealdb ping failed: %w", err)
	}
	return nil
}

func (m *Manager) Close() error {
	m.db.Close(context.Background())
	return nil
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)

// Package interfaces defines service contracts for Moneta
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/moneta/internal/models"
)

// StorageManager coordinates the ledger stores. Both backends (embedded
// BadgerHold and SurrealDB) satisfy the same contracts; the analytics
// services never know which one they run against.
type StorageManager interface {
	// Store accessors
	Accounts() AccountStore
	Transactions() TransactionStore
	Budgets() BudgetStore
	BudgetHistory() BudgetHistoryStore
	NetWorth() NetWorthStore
	FX() FXStore

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}

// AccountStore reads and writes account balance history rows.
// Rows are append-only history: the same (institution, account_name)
// identity appears once per refresh. Latest-row selection is a service
// concern, not a query concern.
type AccountStore interface {
	// ListAll returns every account row for the user.
	ListAll(ctx context.Context, userID string) ([]models.Account, error)

	// Put saves one account row, assigning an ID when absent.
	Put(ctx context.Context, account *models.Account) error

	// PutBatch saves many rows in one shot (seed/import path).
	PutBatch(ctx context.Context, accounts []models.Account) error
}

// TransactionStore reads and writes ledger transactions.
// Implementations MUST return the complete result set for a range query,
// paginating internally; callers never see a partial page.
type TransactionStore interface {
	// ListByDateRange returns all of the user's transactions with
	// start <= date <= end, ordered by date ascending.
	ListByDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.Transaction, error)

	// Count returns the user's total transaction count.
	Count(ctx context.Context, userID string) (int, error)

	// Put saves one transaction, assigning an ID when absent.
	Put(ctx context.Context, tx *models.Transaction) error

	// PutBatch saves many transactions in one shot (seed/import path).
	PutBatch(ctx context.Context, txs []models.Transaction) error
}

// BudgetStore reads and writes current per-category budget rows.
type BudgetStore interface {
	// ListTargets returns all budget rows for the user ordered by
	// category ascending.
	ListTargets(ctx context.Context, userID string) ([]models.BudgetTarget, error)

	// Put saves one row, assigning an ID when absent.
	Put(ctx context.Context, target *models.BudgetTarget) error

	// PutBatch saves many rows in one shot (seed/import path).
	PutBatch(ctx context.Context, targets []models.BudgetTarget) error
}

// BudgetHistoryStore reads and writes per-category budget capture rows.
type BudgetHistoryStore interface {
	// ListRows returns all capture rows for the user ordered by date
	// ascending, then category. Boundary selection is a service concern.
	ListRows(ctx context.Context, userID string) ([]models.BudgetSnapshot, error)

	// Put saves one row, assigning an ID when absent.
	Put(ctx context.Context, row *models.BudgetSnapshot) error

	// PutBatch saves many rows in one shot (seed/import path).
	PutBatch(ctx context.Context, rows []models.BudgetSnapshot) error
}

// NetWorthStore reads and writes dated per-entity net-worth entries.
type NetWorthStore interface {
	// ListByDateRange returns entries with start <= date <= end ordered
	// by date ascending. Exact-date reads use start == end.
	ListByDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.NetWorthEntry, error)

	// Put saves one entry, assigning an ID when absent.
	Put(ctx context.Context, entry *models.NetWorthEntry) error

	// PutBatch saves many entries in one shot (seed/import path).
	PutBatch(ctx context.Context, entries []models.NetWorthEntry) error
}

// FXStore reads and writes stored GBPUSD rates.
type FXStore interface {
	// ListAll returns every rate row for the user ordered by date
	// ascending, feeding the per-date rate table.
	ListAll(ctx context.Context, userID string) ([]models.FXRate, error)

	// Latest returns the greatest-dated rate, or (nil, nil) when the
	// store has none.
	Latest(ctx context.Context, userID string) (*models.FXRate, error)

	// Put saves one rate row, assigning an ID when absent.
	Put(ctx context.Context, rate *models.FXRate) error
}

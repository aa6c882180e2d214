package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/models"
)

const transactionSelectFields = `transaction_id AS id, user_id, date, counterparty,
	category, amount_gbp, amount_usd`

// TransactionStore implements interfaces.TransactionStore using SurrealDB.
type TransactionStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewTransactionStore(db *surrealdb.DB, logger *common.Logger) *TransactionStore {
	return &TransactionStore{
		db:     db,
		logger: logger,
	}
}

// ListByDateRange returns all rows with start <= date <= end, date
// ascending, paginating until the window is exhausted.
func (s *TransactionStore) ListByDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.Transaction, error) {
	sql := "SELECT " + transactionSelectFields + " FROM transactions" +
		" WHERE user_id = $user_id AND date >= $start AND date <= $end" +
		" ORDER BY date ASC, transaction_id ASC LIMIT $limit START $offset"

	out := make([]models.Transaction, 0)
	for offset := 0; ; offset += pageSize {
		vars := map[string]any{
			"user_id": userID,
			"start":   start,
			"end":     end,
			"limit":   pageSize,
			"offset":  offset,
		}
		results, err := surrealdb.Query[[]models.Transaction](ctx, s.db, sql, vars)
		if err != nil {
			return nil, fmt.Errorf("failed to list transactions: %w", err)
		}
		if results == nil || len(*results) == 0 {
			break
		}
		page := (*results)[0].Result
		out = append(out, page...)
		if len(page) < pageSize {
			break
		}
	}
	return out, nil
}

func (s *TransactionStore) Count(ctx context.Context, userID string) (int, error) {
	sql := "SELECT count() AS cnt FROM transactions WHERE user_id = $user_id GROUP ALL"
	vars := map[string]any{"user_id": userID}

	type countResult struct {
		Cnt int `json:"cnt"`
	}
	results, err := surrealdb.Query[[]countResult](ctx, s.db, sql, vars)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return 0, nil
	}
	return (*results)[0].Result[0].Cnt, nil
}

func (s *TransactionStore) Put(ctx context.Context, tx *models.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}

	sql := `UPSERT $rid SET
		transaction_id = $transaction_id, user_id = $user_id, date = $date,
		counterparty = $counterparty, category = $category,
		amount_gbp = $amount_gbp, amount_usd = $amount_usd`
	vars := map[string]any{
		"rid":            surrealmodels.NewRecordID("transactions", tx.ID),
		"transaction_id": tx.ID,
		"user_id":        tx.UserID,
		"date":           tx.Date,
		"counterparty":   tx.Counterparty,
		"category":       tx.Category,
		"amount_gbp":     tx.AmountGBP,
		"amount_usd":     tx.AmountUSD,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[any](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save transaction after retries: %w", lastErr)
}

func (s *TransactionStore) PutBatch(ctx context.Context, txs []models.Transaction) error {
	for i := range txs {
		if err := s.Put(ctx, &txs[i]); err != nil {
			return err
		}
	}
	s.logger.Debug().Int("count", len(txs)).Msg("Transaction batch saved")
	return nil
}

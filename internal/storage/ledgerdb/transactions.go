package ledgerdb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/models"
)

type transactionStore struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// ListByDateRange fetches the user's rows via the UserID index and applies
// the date window in memory. Both boundaries are inclusive.
func (s *transactionStore) ListByDateRange(_ context.Context, userID string, start, end time.Time) ([]models.Transaction, error) {
	var all []models.Transaction
	if err := s.db.Find(&all, badgerhold.Where("UserID").Eq(userID)); err != nil {
		return nil, fmt.Errorf("failed to list transactions for user '%s': %w", userID, err)
	}

	rows := make([]models.Transaction, 0, len(all))
	for _, tx := range all {
		if tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}
		rows = append(rows, tx)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date.Equal(rows[j].Date) {
			return rows[i].ID < rows[j].ID
		}
		return rows[i].Date.Before(rows[j].Date)
	})
	return rows, nil
}

func (s *transactionStore) Count(_ context.Context, userID string) (int, error) {
	var rows []models.Transaction
	if err := s.db.Find(&rows, badgerhold.Where("UserID").Eq(userID)); err != nil {
		return 0, fmt.Errorf("failed to count transactions for user '%s': %w", userID, err)
	}
	return len(rows), nil
}

func (s *transactionStore) Put(_ context.Context, tx *models.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	if err := s.db.Upsert(tx.ID, tx); err != nil {
		return fmt.Errorf("failed to save transaction '%s': %w", tx.ID, err)
	}
	return nil
}

func (s *transactionStore) PutBatch(ctx context.Context, txs []models.Transaction) error {
	for i := range txs {
		if err := s.Put(ctx, &txs[i]); err != nil {
			return err
		}
	}
	s.logger.Debug().Int("count", len(txs)).Msg("Transaction batch saved")
	return nil
}

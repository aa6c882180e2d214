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

type networthStore struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// ListByDateRange fetches the user's rows via the UserID index and applies
// the date window in memory. Both boundaries are inclusive.
func (s *networthStore) ListByDateRange(_ context.Context, userID string, start, end time.Time) ([]models.NetWorthEntry, error) {
	var all []models.NetWorthEntry
	if err := s.db.Find(&all, badgerhold.Where("UserID").Eq(userID)); err != nil {
		return nil, fmt.Errorf("failed to list net worth entries for user '%s': %w", userID, err)
	}

	rows := make([]models.NetWorthEntry, 0, len(all))
	for _, e := range all {
		if e.Date.Before(start) || e.Date.After(end) {
			continue
		}
		rows = append(rows, e)
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		if rows[i].Category != rows[j].Category {
			return rows[i].Category < rows[j].Category
		}
		return rows[i].ID < rows[j].ID
	})
	return rows, nil
}

func (s *networthStore) Put(_ context.Context, entry *models.NetWorthEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if err := s.db.Upsert(entry.ID, entry); err != nil {
		return fmt.Errorf("failed to save net worth entry '%s': %w", entry.ID, err)
	}
	return nil
}

func (s *networthStore) PutBatch(ctx context.Context, entries []models.NetWorthEntry) error {
	for i := range entries {
		if err := s.Put(ctx, &entries[i]); err != nil {
			return err
		}
	}
	s.logger.Debug().Int("count", len(entries)).Msg("Net worth batch saved")
	return nil
}

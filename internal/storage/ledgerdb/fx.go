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

type fxStore struct {
	db     *badgerhold.Store
	logger *common.Logger
}

func (s *fxStore) ListAll(_ context.Context, userID string) ([]models.FXRate, error) {
	var rows []models.FXRate
	if err := s.db.Find(&rows, badgerhold.Where("UserID").Eq(userID)); err != nil {
		return nil, fmt.Errorf("failed to list fx rates for user '%s': %w", userID, err)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date.Equal(rows[j].Date) {
			return rows[i].ID < rows[j].ID
		}
		return rows[i].Date.Before(rows[j].Date)
	})
	return rows, nil
}

// Latest returns the greatest-dated stored rate. A missing rate is not an
// error: callers fall back to the configured rate.
func (s *fxStore) Latest(ctx context.Context, userID string) (*models.FXRate, error) {
	rows, err := s.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	out := rows[len(rows)-1]
	return &out, nil
}

func (s *fxStore) Put(_ context.Context, rate *models.FXRate) error {
	if rate.ID == "" {
		rate.ID = uuid.New().String()
	}
	if rate.Date.IsZero() {
		rate.Date = time.Now()
	}
	if err := s.db.Upsert(rate.ID, rate); err != nil {
		return fmt.Errorf("failed to save fx rate '%s': %w", rate.ID, err)
	}
	return nil
}

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

type budgetStore struct {
	db     *badgerhold.Store
	logger *common.Logger
}

func (s *budgetStore) ListTargets(_ context.Context, userID string) ([]models.BudgetTarget, error) {
	var rows []models.BudgetTarget
	if err := s.db.Find(&rows, badgerhold.Where("UserID").Eq(userID)); err != nil {
		return nil, fmt.Errorf("failed to list budget targets for user '%s': %w", userID, err)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Category < rows[j].Category })
	return rows, nil
}

func (s *budgetStore) Put(_ context.Context, target *models.BudgetTarget) error {
	if target.ID == "" {
		target.ID = uuid.New().String()
	}
	// Seed imports carry their own edit time; only stamp when absent.
	if target.DateUpdated.IsZero() {
		target.DateUpdated = time.Now()
	}
	if err := s.db.Upsert(target.ID, target); err != nil {
		return fmt.Errorf("failed to save budget target '%s': %w", target.ID, err)
	}
	return nil
}

func (s *budgetStore) PutBatch(ctx context.Context, targets []models.BudgetTarget) error {
	for i := range targets {
		if err := s.Put(ctx, &targets[i]); err != nil {
			return err
		}
	}
	s.logger.Debug().Int("count", len(targets)).Msg("Budget target batch saved")
	return nil
}

type historyStore struct {
	db     *badgerhold.Store
	logger *common.Logger
}

func (s *historyStore) ListRows(_ context.Context, userID string) ([]models.BudgetSnapshot, error) {
	var rows []models.BudgetSnapshot
	if err := s.db.Find(&rows, badgerhold.Where("UserID").Eq(userID)); err != nil {
		return nil, fmt.Errorf("failed to list budget history for user '%s': %w", userID, err)
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

func (s *historyStore) Put(_ context.Context, row *models.BudgetSnapshot) error {
	if row.ID == "" {
		row.ID = uuid.New().String()
	}
	if row.Date.IsZero() {
		row.Date = time.Now()
	}
	if err := s.db.Upsert(row.ID, row); err != nil {
		return fmt.Errorf("failed to save budget snapshot '%s': %w", row.ID, err)
	}
	return nil
}

func (s *historyStore) PutBatch(ctx context.Context, rows []models.BudgetSnapshot) error {
	for i := range rows {
		if err := s.Put(ctx, &rows[i]); err != nil {
			return err
		}
	}
	s.logger.Debug().Int("count", len(rows)).Msg("Budget history batch saved")
	return nil
}

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

const budgetTargetSelectFields = `target_id AS id, user_id, category,
	annual_budget_gbp, tracking_est_gbp, ytd_gbp, date_updated`

const budgetSnapshotSelectFields = `snapshot_id AS id, user_id, date, category,
	forecast_spend, annual_budget`

// BudgetStore implements interfaces.BudgetStore using SurrealDB.
type BudgetStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewBudgetStore(db *surrealdb.DB, logger *common.Logger) *BudgetStore {
	return &BudgetStore{
		db:     db,
		logger: logger,
	}
}

func (s *BudgetStore) ListTargets(ctx context.Context, userID string) ([]models.BudgetTarget, error) {
	sql := "SELECT " + budgetTargetSelectFields + " FROM budget_targets WHERE user_id = $user_id" +
		" ORDER BY category ASC, target_id ASC LIMIT $limit START $start"

	out := make([]models.BudgetTarget, 0)
	for start := 0; ; start += pageSize {
		vars := map[string]any{
			"user_id": userID,
			"limit":   pageSize,
			"start":   start,
		}
		results, err := surrealdb.Query[[]models.BudgetTarget](ctx, s.db, sql, vars)
		if err != nil {
			return nil, fmt.Errorf("failed to list budget targets: %w", err)
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

func (s *BudgetStore) Put(ctx context.Context, target *models.BudgetTarget) error {
	if target.ID == "" {
		target.ID = uuid.New().String()
	}
	// Seed imports carry their own edit time; only stamp when absent.
	if target.DateUpdated.IsZero() {
		target.DateUpdated = time.Now()
	}

	sql := `UPSERT $rid SET
		target_id = $target_id, user_id = $user_id, category = $category,
		annual_budget_gbp = $annual_budget_gbp, tracking_est_gbp = $tracking_est_gbp,
		ytd_gbp = $ytd_gbp, date_updated = $date_updated`
	vars := map[string]any{
		"rid":               surrealmodels.NewRecordID("budget_targets", target.ID),
		"target_id":         target.ID,
		"user_id":           target.UserID,
		"category":          target.Category,
		"annual_budget_gbp": target.AnnualBudgetGBP,
		"tracking_est_gbp":  target.TrackingEstGBP,
		"ytd_gbp":           target.YTDGBP,
		"date_updated":      target.DateUpdated,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[any](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save budget target after retries: %w", lastErr)
}

func (s *BudgetStore) PutBatch(ctx context.Context, targets []models.BudgetTarget) error {
	for i := range targets {
		if err := s.Put(ctx, &targets[i]); err != nil {
			return err
		}
	}
	s.logger.Debug().Int("count", len(targets)).Msg("Budget target batch saved")
	return nil
}

// BudgetHistoryStore implements interfaces.BudgetHistoryStore using SurrealDB.
type BudgetHistoryStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewBudgetHistoryStore(db *surrealdb.DB, logger *common.Logger) *BudgetHistoryStore {
	return &BudgetHistoryStore{
		db:     db,
		logger: logger,
	}
}

func (s *BudgetHistoryStore) ListRows(ctx context.Context, userID string) ([]models.BudgetSnapshot, error) {
	sql := "SELECT " + budgetSnapshotSelectFields + " FROM budget_history WHERE user_id = $user_id" +
		" ORDER BY date ASC, category ASC, snapshot_id ASC LIMIT $limit START $start"

	out := make([]models.BudgetSnapshot, 0)
	for start := 0; ; start += pageSize {
		vars := map[string]any{
			"user_id": userID,
			"limit":   pageSize,
			"start":   start,
		}
		results, err := surrealdb.Query[[]models.BudgetSnapshot](ctx, s.db, sql, vars)
		if err != nil {
			return nil, fmt.Errorf("failed to list budget history: %w", err)
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

func (s *BudgetHistoryStore) Put(ctx context.Context, row *models.BudgetSnapshot) error {
	if row.ID == "" {
		row.ID = uuid.New().String()
	}
	if row.Date.IsZero() {
		row.Date = time.Now()
	}

	sql := `UPSERT $rid SET
		snapshot_id = $snapshot_id, user_id = $user_id, date = $date,
		category = $category, forecast_spend = $forecast_spend,
		annual_budget = $annual_budget`
	vars := map[string]any{
		"rid":            surrealmodels.NewRecordID("budget_history", row.ID),
		"snapshot_id":    row.ID,
		"user_id":        row.UserID,
		"date":           row.Date,
		"category":       row.Category,
		"forecast_spend": row.ForecastSpend,
		"annual_budget":  row.AnnualBudget,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[any](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save budget history row after retries: %w", lastErr)
}

func (s *BudgetHistoryStore) PutBatch(ctx context.Context, rows []models.BudgetSnapshot) error {
	for i := range rows {
		if err := s.Put(ctx, &rows[i]); err != nil {
			return err
		}
	}
	s.logger.Debug().Int("count", len(rows)).Msg("Budget history batch saved")
	return nil
}

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

const fxRateSelectFields = `rate_id AS id, user_id, date, gbpusd_rate`

// FXStore implements interfaces.FXStore using SurrealDB.
type FXStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewFXStore(db *surrealdb.DB, logger *common.Logger) *FXStore {
	return &FXStore{
		db:     db,
		logger: logger,
	}
}

// ListAll returns every stored rate, date ascending.
func (s *FXStore) ListAll(ctx context.Context, userID string) ([]models.FXRate, error) {
	sql := "SELECT " + fxRateSelectFields + " FROM fx_rates WHERE user_id = $user_id" +
		" ORDER BY date ASC, rate_id ASC LIMIT $limit START $start"

	out := make([]models.FXRate, 0)
	for start := 0; ; start += pageSize {
		vars := map[string]any{
			"user_id": userID,
			"limit":   pageSize,
			"start":   start,
		}
		results, err := surrealdb.Query[[]models.FXRate](ctx, s.db, sql, vars)
		if err != nil {
			return nil, fmt.Errorf("failed to list fx rates: %w", err)
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

// Latest returns the newest stored rate. A missing rate is not an error:
// callers fall back to the default rate.
func (s *FXStore) Latest(ctx context.Context, userID string) (*models.FXRate, error) {
	sql := "SELECT " + fxRateSelectFields + " FROM fx_rates" +
		" WHERE user_id = $user_id ORDER BY date DESC LIMIT 1"
	vars := map[string]any{"user_id": userID}

	results, err := surrealdb.Query[[]models.FXRate](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest fx rate: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	return &(*results)[0].Result[0], nil
}

func (s *FXStore) Put(ctx context.Context, rate *models.FXRate) error {
	if rate.ID == "" {
		rate.ID = uuid.New().String()
	}
	if rate.Date.IsZero() {
		rate.Date = time.Now()
	}

	sql := `UPSERT $rid SET
		rate_id = $rate_id, user_id = $user_id, date = $date,
		gbpusd_rate = $gbpusd_rate`
	vars := map[string]any{
		"rid":         surrealmodels.NewRecordID("fx_rates", rate.ID),
		"rate_id":     rate.ID,
		"user_id":     rate.UserID,
		"date":        rate.Date,
		"gbpusd_rate": rate.GBPUSD,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[any](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save fx rate after retries: %w", lastErr)
}

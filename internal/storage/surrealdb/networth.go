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

const netWorthSelectFields = `entry_id AS id, user_id, date, category,
	amount_gbp, amount_usd`

// NetWorthStore implements interfaces.NetWorthStore using SurrealDB.
type NetWorthStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewNetWorthStore(db *surrealdb.DB, logger *common.Logger) *NetWorthStore {
	return &NetWorthStore{
		db:     db,
		logger: logger,
	}
}

// ListByDateRange returns all entries with start <= date <= end, date
// ascending then entity label. An exact-date read passes start == end.
func (s *NetWorthStore) ListByDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.NetWorthEntry, error) {
	sql := "SELECT " + netWorthSelectFields + " FROM net_worth" +
		" WHERE user_id = $user_id AND date >= $start AND date <= $end" +
		" ORDER BY date ASC, category ASC, entry_id ASC LIMIT $limit START $offset"

	out := make([]models.NetWorthEntry, 0)
	for offset := 0; ; offset += pageSize {
		vars := map[string]any{
			"user_id": userID,
			"start":   start,
			"end":     end,
			"limit":   pageSize,
			"offset":  offset,
		}
		results, err := surrealdb.Query[[]models.NetWorthEntry](ctx, s.db, sql, vars)
		if err != nil {
			return nil, fmt.Errorf("failed to list net worth entries: %w", err)
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

func (s *NetWorthStore) Put(ctx context.Context, entry *models.NetWorthEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	sql := `UPSERT $rid SET
		entry_id = $entry_id, user_id = $user_id, date = $date,
		category = $category, amount_gbp = $amount_gbp, amount_usd = $amount_usd`
	vars := map[string]any{
		"rid":        surrealmodels.NewRecordID("net_worth", entry.ID),
		"entry_id":   entry.ID,
		"user_id":    entry.UserID,
		"date":       entry.Date,
		"category":   entry.Category,
		"amount_gbp": entry.AmountGBP,
		"amount_usd": entry.AmountUSD,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[any](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save net worth entry after retries: %w", lastErr)
}

func (s *NetWorthStore) PutBatch(ctx context.Context, entries []models.NetWorthEntry) error {
	for i := range entries {
		if err := s.Put(ctx, &entries[i]); err != nil {
			return err
		}
	}
	s.logger.Debug().Int("count", len(entries)).Msg("Net worth batch saved")
	return nil
}

package networth

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/finance"
	"github.com/bobmcallan/moneta/internal/interfaces"
	"github.com/bobmcallan/moneta/internal/models"
)

// Trend grouping modes.
const (
	TrendByTotal  = "total"
	TrendByEntity = "entity"
)

func validateTrendGroupBy(g string) (string, error) {
	switch g {
	case "":
		return TrendByTotal, nil
	case TrendByTotal, TrendByEntity:
		return g, nil
	default:
		return "", fmt.Errorf("invalid group_by: %q (valid: total, entity)", g)
	}
}

// AnalyzeTrend builds the net-worth series over a date range from stored
// entries. Points cover the capture dates actually present; the series
// is not calendar-filled, so sparse histories stay sparse.
func (s *Service) AnalyzeTrend(ctx context.Context, opts interfaces.TrendOptions) (*models.NetWorthTrend, error) {
	if opts.StartDate == "" {
		return nil, fmt.Errorf("start_date is required")
	}
	groupBy, err := validateTrendGroupBy(opts.GroupBy)
	if err != nil {
		return nil, err
	}
	endStr := opts.EndDate
	if endStr == "" {
		endStr = finance.Day(s.now()).Format(time.DateOnly)
	}
	rng, err := finance.ResolveCustom(opts.StartDate, endStr, s.now())
	if err != nil {
		return nil, err
	}

	userID := common.ResolveUserID(ctx)
	entries, err := s.storage.NetWorth().ListByDateRange(ctx, userID, rng.Start, rng.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load net worth entries: %w", err)
	}

	byDate := make(map[string]*models.TrendPoint)
	for _, e := range entries {
		key := finance.Day(e.Date).Format(time.DateOnly)
		p := byDate[key]
		if p == nil {
			p = &models.TrendPoint{Date: key}
			if groupBy == TrendByEntity {
				p.ByEntity = make(map[string]float64)
			}
			byDate[key] = p
		}
		p.TotalGBP += e.AmountGBP
		p.TotalUSD += e.AmountUSD
		if groupBy == TrendByEntity {
			p.ByEntity[e.Category] += e.AmountGBP
		}
	}

	points := make([]models.TrendPoint, 0, len(byDate))
	for _, p := range byDate {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })

	trend := &models.NetWorthTrend{
		GroupBy: groupBy,
		Points:  points,
	}
	if len(points) > 0 {
		first, last := points[0], points[len(points)-1]
		trend.FirstDate = first.Date
		trend.LastDate = last.Date
		trend.ChangeGBP = last.TotalGBP - first.TotalGBP
		trend.ChangeUSD = last.TotalUSD - first.TotalUSD
		if first.TotalGBP != 0 {
			pct := trend.ChangeGBP / first.TotalGBP * 100
			trend.ChangePctGBP = &pct
		}
	}

	s.logger.Info().
		Str("group_by", groupBy).
		Int("points", len(points)).
		Float64("change_gbp", trend.ChangeGBP).
		Msg("Net worth trend complete")

	return trend, nil
}

package budget

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/finance"
	"github.com/bobmcallan/moneta/internal/interfaces"
	"github.com/bobmcallan/moneta/internal/models"
)

// Driver impact labels.
const (
	ImpactPositive = "Positive"
	ImpactNegative = "Negative"
	ImpactNeutral  = "Neutral"
)

// maxDrivers bounds how many category drivers a result surfaces.
const maxDrivers = 5

// currentSnapshotLabel marks an end boundary served from the live budget
// table rather than a history capture.
const currentSnapshotLabel = "current"

// boundary is one resolved endpoint: the per-category gaps plus the
// capture date they came from.
type boundary struct {
	snapshotDate string
	gaps         map[string]float64
}

// AnalyzeForecastEvolution compares the budget outlook at two dates using
// the daily history captures. Each boundary resolves to the exact capture
// when one exists, otherwise the most recent capture before it; the end
// boundary may fall back to the live budget table. A start date with no
// capture at or before it is an error; the outlook is never zero-filled.
func (s *Service) AnalyzeForecastEvolution(ctx context.Context, opts interfaces.EvolutionOptions) (*models.ForecastEvolution, error) {
	if opts.StartDate == "" {
		return nil, fmt.Errorf("start_date is required")
	}
	currency := strings.ToUpper(opts.Currency)
	if currency == "" {
		currency = common.ResolveDisplayCurrency(ctx, s.defaultCurrency)
	}
	if !finance.ValidDisplayCurrency(currency) {
		return nil, fmt.Errorf("invalid currency: %q (valid: GBP, USD)", opts.Currency)
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
	history, err := s.storage.BudgetHistory().ListRows(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load budget history: %w", err)
	}

	start, ok := s.resolveCapture(history, rng.Start)
	if !ok {
		if len(history) == 0 {
			return nil, fmt.Errorf("no budget history recorded")
		}
		earliest := finance.Day(history[0].Date).Format(time.DateOnly)
		return nil, fmt.Errorf("no budget history on or before %s (earliest snapshot: %s)",
			rng.Start.Format(time.DateOnly), earliest)
	}
	end, ok := s.resolveCapture(history, rng.End)
	if !ok {
		end, err = s.liveBoundary(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	result := &models.ForecastEvolution{
		Currency:          currency,
		StartDate:         rng.Start.Format(time.DateOnly),
		EndDate:           rng.End.Format(time.DateOnly),
		StartSnapshotDate: start.snapshotDate,
		EndSnapshotDate:   end.snapshotDate,
	}

	categories := make(map[string]bool, len(start.gaps)+len(end.gaps))
	for c := range start.gaps {
		categories[c] = true
	}
	for c := range end.gaps {
		categories[c] = true
	}

	drivers := make([]models.ForecastDriver, 0, len(categories))
	for category := range categories {
		startGap := start.gaps[category]
		endGap := end.gaps[category]
		delta := endGap - startGap

		result.TotalGapStart += startGap
		result.TotalGapEnd += endGap

		impact := ImpactNeutral
		switch {
		case delta > 0:
			impact = ImpactPositive
		case delta < 0:
			impact = ImpactNegative
		}
		drivers = append(drivers, models.ForecastDriver{
			Category: category,
			StartGap: startGap,
			EndGap:   endGap,
			Delta:    delta,
			Impact:   impact,
		})
	}
	result.TotalGapChange = result.TotalGapEnd - result.TotalGapStart

	sort.Slice(drivers, func(i, j int) bool {
		di, dj := math.Abs(drivers[i].Delta), math.Abs(drivers[j].Delta)
		if di == dj {
			return drivers[i].Category < drivers[j].Category
		}
		return di > dj
	})
	if len(drivers) > maxDrivers {
		drivers = drivers[:maxDrivers]
	}
	result.Drivers = drivers

	if currency == finance.CurrencyUSD {
		conv, err := s.converter(ctx, userID)
		if err != nil {
			return nil, err
		}
		result.TotalGapStart = conv.ToUSD(result.TotalGapStart)
		result.TotalGapEnd = conv.ToUSD(result.TotalGapEnd)
		result.TotalGapChange = conv.ToUSD(result.TotalGapChange)
		for i := range result.Drivers {
			result.Drivers[i].StartGap = conv.ToUSD(result.Drivers[i].StartGap)
			result.Drivers[i].EndGap = conv.ToUSD(result.Drivers[i].EndGap)
			result.Drivers[i].Delta = conv.ToUSD(result.Drivers[i].Delta)
		}
	}

	s.logger.Info().
		Str("start_snapshot", result.StartSnapshotDate).
		Str("end_snapshot", result.EndSnapshotDate).
		Float64("gap_change", result.TotalGapChange).
		Msg("Forecast evolution complete")

	return result, nil
}

// resolveCapture picks the capture serving a boundary date: the exact
// capture date when present, otherwise the most recent one before it.
// History rows arrive date ascending.
func (s *Service) resolveCapture(history []models.BudgetSnapshot, target time.Time) (boundary, bool) {
	var captureDate time.Time
	found := false
	for _, row := range history {
		d := finance.Day(row.Date)
		if d.After(target) {
			break
		}
		captureDate = d
		found = true
	}
	if !found {
		return boundary{}, false
	}

	b := boundary{
		snapshotDate: captureDate.Format(time.DateOnly),
		gaps:         make(map[string]float64),
	}
	for _, row := range history {
		if !finance.Day(row.Date).Equal(captureDate) {
			continue
		}
		category := s.policy.Normalize(row.Category)
		if s.policy.IsExcluded(category) {
			continue
		}
		b.gaps[category] += row.Gap()
	}
	return b, true
}

// liveBoundary synthesizes an end boundary from the current budget table:
// forecast spend from the tracking estimate, budget from the annual
// figure, both as magnitudes.
func (s *Service) liveBoundary(ctx context.Context, userID string) (boundary, error) {
	targets, err := s.storage.Budgets().ListTargets(ctx, userID)
	if err != nil {
		return boundary{}, fmt.Errorf("failed to load budget targets: %w", err)
	}
	b := boundary{
		snapshotDate: currentSnapshotLabel,
		gaps:         make(map[string]float64),
	}
	for _, target := range targets {
		category := s.policy.Normalize(target.Category)
		if s.policy.IsExcluded(category) {
			continue
		}
		b.gaps[category] += math.Abs(target.AnnualBudgetGBP) - math.Abs(target.TrackingEstGBP)
	}
	return b, nil
}

package spending

import (
	"context"
	"fmt"
	"strings"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/finance"
	"github.com/bobmcallan/moneta/internal/interfaces"
	"github.com/bobmcallan/moneta/internal/models"
)

// trendWindowMonths is the breakdown length: the last fully completed
// month plus the twelve before it.
const trendWindowMonths = 13

// AnalyzeMonthlyCategoryTrends breaks one category's spending into a
// 13-month series ending at the last fully completed month, split between
// the window's dominant counterparty and the rest, with comparisons
// against recent and year-ago baselines.
func (s *Service) AnalyzeMonthlyCategoryTrends(ctx context.Context, opts interfaces.MonthlyTrendOptions) (*models.MonthlyCategoryTrends, error) {
	if strings.TrimSpace(opts.Category) == "" {
		return nil, fmt.Errorf("category is required")
	}
	currency := strings.ToUpper(opts.Currency)
	if currency == "" {
		currency = common.ResolveDisplayCurrency(ctx, s.defaultCurrency)
	}
	if !finance.ValidDisplayCurrency(currency) {
		return nil, fmt.Errorf("invalid currency: %q (valid: GBP, USD)", opts.Currency)
	}
	category := s.policy.Normalize(opts.Category)

	// The running month is never part of the series.
	latest := finance.MonthOf(s.now()).AddMonths(-1)
	months := finance.LastNMonths(trendWindowMonths, latest.Start())
	windowStart := months[0].Start()
	windowEnd := months[len(months)-1].End()

	userID := common.ResolveUserID(ctx)
	rates, err := s.rates(ctx, userID)
	if err != nil {
		return nil, err
	}
	rows, err := s.storage.Transactions().ListByDateRange(ctx, userID, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	// One pass collects the expense rows and the per-merchant spend that
	// decides the window's top counterparty.
	type trendRow struct {
		month     string
		key       string
		magnitude float64
	}
	matched := make([]trendRow, 0, len(rows))
	merchantSpend := make(map[string]float64)
	merchantVariants := make(map[string]map[string]int)
	for _, tx := range rows {
		if s.policy.Normalize(tx.Category) != category {
			continue
		}
		if s.policy.IsExcluded(tx.Category) {
			continue
		}
		amt := rates.At(tx.Date).Amount(tx, currency)
		if amt >= 0 {
			continue
		}
		key := finance.MerchantKey(tx.Counterparty)
		magnitude := finance.SpendingAmount(amt)
		matched = append(matched, trendRow{
			month:     finance.MonthOf(tx.Date).Key(),
			key:       key,
			magnitude: magnitude,
		})
		merchantSpend[key] += magnitude
		if merchantVariants[key] == nil {
			merchantVariants[key] = make(map[string]int)
		}
		merchantVariants[key][tx.Counterparty]++
	}

	topKey := ""
	for key, spend := range merchantSpend {
		if topKey == "" || spend > merchantSpend[topKey] || (spend == merchantSpend[topKey] && key < topKey) {
			topKey = key
		}
	}

	byMonth := make(map[string]*models.MonthBreakdown, trendWindowMonths)
	breakdown := make([]models.MonthBreakdown, trendWindowMonths)
	for i, m := range months {
		breakdown[i] = models.MonthBreakdown{Month: m.Key()}
		byMonth[m.Key()] = &breakdown[i]
	}
	for _, r := range matched {
		mb := byMonth[r.month]
		if mb == nil {
			continue
		}
		mb.Total += r.magnitude
		mb.Count++
		if r.key == topKey {
			mb.TopCounterpartyAmount += r.magnitude
		} else {
			mb.OtherAmount += r.magnitude
		}
	}

	result := &models.MonthlyCategoryTrends{
		Category:         category,
		Currency:         currency,
		MonthlyBreakdown: breakdown,
		LatestMonth:      latest.Key(),
		LatestTotal:      breakdown[len(breakdown)-1].Total,
	}
	if topKey != "" {
		result.TopCounterparty = finance.DisplayName(merchantVariants[topKey])
	}

	prior := breakdown[:len(breakdown)-1]
	result.VsL3M = compareToMean(result.LatestTotal, prior[len(prior)-3:])
	result.VsL12M = compareToMean(result.LatestTotal, prior)
	result.VsLastYear = compareToBaseline(result.LatestTotal, breakdown[0].Total)

	s.logger.Info().
		Str("category", category).
		Str("currency", currency).
		Str("latest_month", result.LatestMonth).
		Float64("latest_total", result.LatestTotal).
		Msg("Monthly category trends complete")

	return result, nil
}

// compareToMean compares the latest total against the mean of the given
// months, skipping zero-spend months so gaps in the ledger do not drag
// the baseline down.
func compareToMean(latest float64, months []models.MonthBreakdown) *models.TrendComparison {
	var sum float64
	var n int
	for _, m := range months {
		if m.Total == 0 {
			continue
		}
		sum += m.Total
		n++
	}
	baseline := 0.0
	if n > 0 {
		baseline = sum / float64(n)
	}
	return compareToBaseline(latest, baseline)
}

// compareToBaseline builds a comparison against a fixed baseline; the
// percentage is omitted when the baseline is zero.
func compareToBaseline(latest, baseline float64) *models.TrendComparison {
	c := &models.TrendComparison{
		Baseline: baseline,
		Delta:    latest - baseline,
	}
	if baseline != 0 {
		pct := c.Delta / baseline * 100
		c.Pct = &pct
	}
	return c
}

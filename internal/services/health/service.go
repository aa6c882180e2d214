// Package health composes the snapshot and budget analytics into one
// cross-cutting financial position report.
package health

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/finance"
	"github.com/bobmcallan/moneta/internal/interfaces"
	"github.com/bobmcallan/moneta/internal/models"
)

// Compile-time interface check
var _ interfaces.HealthService = (*Service)(nil)

// maxExpenseCategories bounds the forecast expense list.
const maxExpenseCategories = 5

// Service implements HealthService. Every figure comes from the snapshot
// service or the budget table; the only math here is summation and
// selection.
type Service struct {
	storage  interfaces.StorageManager
	netWorth interfaces.NetWorthService
	policy   finance.CategoryPolicy
	logger   *common.Logger

	fallbackRate    float64
	defaultCurrency string
}

// NewService creates a new health service on top of the snapshot reader.
func NewService(storage interfaces.StorageManager, netWorth interfaces.NetWorthService, config *common.Config, logger *common.Logger) *Service {
	return &Service{
		storage:         storage,
		netWorth:        netWorth,
		policy:          finance.NewCategoryPolicy(config.Finance.ExcludedCategories),
		logger:          logger,
		fallbackRate:    config.Finance.FallbackGBPUSD,
		defaultCurrency: config.Finance.DefaultCurrency,
	}
}

// Summarize builds the health report: net worth with the trust holdings
// split out, allocation by currency, the net-income budget gap, and the
// top forecast expense categories.
func (s *Service) Summarize(ctx context.Context, opts interfaces.HealthOptions) (*models.HealthSummary, error) {
	currency := strings.ToUpper(opts.Currency)
	if currency == "" {
		currency = common.ResolveDisplayCurrency(ctx, s.defaultCurrency)
	}
	if !finance.ValidDisplayCurrency(currency) {
		return nil, fmt.Errorf("invalid currency: %q (valid: GBP, USD)", opts.Currency)
	}

	userID := common.ResolveUserID(ctx)

	// The trust split needs per-label figures: current balances group by
	// account category, historical entries carry entity labels directly.
	splitGroupBy := "category"
	if opts.AsOfDate != "" {
		splitGroupBy = "entity"
	}

	var (
		wg      sync.WaitGroup
		alloc   *models.FinancialSnapshot
		split   *models.FinancialSnapshot
		targets []models.BudgetTarget
		rate    *models.FXRate

		allocErr, splitErr, targetsErr, rateErr error
	)
	wg.Add(4)
	go func() {
		defer wg.Done()
		alloc, allocErr = s.netWorth.GetSnapshot(ctx, interfaces.SnapshotOptions{
			AsOfDate: opts.AsOfDate,
			GroupBy:  "currency",
		})
	}()
	go func() {
		defer wg.Done()
		split, splitErr = s.netWorth.GetSnapshot(ctx, interfaces.SnapshotOptions{
			AsOfDate: opts.AsOfDate,
			GroupBy:  splitGroupBy,
		})
	}()
	go func() {
		defer wg.Done()
		targets, targetsErr = s.storage.Budgets().ListTargets(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		rate, rateErr = s.storage.FX().Latest(ctx, userID)
	}()
	wg.Wait()
	if allocErr != nil {
		return nil, allocErr
	}
	if splitErr != nil {
		return nil, splitErr
	}
	if targetsErr != nil {
		return nil, fmt.Errorf("failed to load budget targets: %w", targetsErr)
	}
	if rateErr != nil {
		return nil, fmt.Errorf("failed to load fx rate: %w", rateErr)
	}
	if rate != nil && !common.IsFresh(rate.Date, common.FreshnessFXCapture) {
		s.logger.Warn().
			Str("fx_date", rate.Date.Format("2006-01-02")).
			Msg("Latest FX capture is stale")
	}

	pick := func(gbp, usd float64) float64 {
		if currency == finance.CurrencyUSD {
			return usd
		}
		return gbp
	}

	var trustGBP, trustUSD float64
	for _, g := range split.Groups {
		if finance.IsTrustCategory(g.Key) {
			trustGBP += g.TotalGBP
			trustUSD += g.TotalUSD
		}
	}

	incTrust := pick(alloc.NetWorthGBP, alloc.NetWorthUSD)
	exTrust := incTrust - pick(trustGBP, trustUSD)

	result := &models.HealthSummary{
		Currency:             currency,
		AsOf:                 alloc.AsOf,
		NetWorthExTrust:      exTrust,
		AllocationByCurrency: alloc.Groups,
	}
	if incTrust != exTrust {
		result.NetWorthIncTrust = &incTrust
	}

	gap, items := s.netIncome(targets)
	if currency == finance.CurrencyUSD {
		conv := finance.NewConverter(rate, s.fallbackRate)
		gap = convertGap(conv, gap)
		for i := range items {
			items[i].Forecast = conv.ToUSD(items[i].Forecast)
		}
	}
	result.NetIncome = gap
	result.TopExpenseCategories = items

	s.logger.Info().
		Str("currency", currency).
		Str("as_of", opts.AsOfDate).
		Float64("net_worth_ex_trust", result.NetWorthExTrust).
		Float64("net_income_gap", result.NetIncome.Gap).
		Msg("Health summary complete")

	return result, nil
}

// netIncome splits the budget table into income and expense buckets and
// returns the net gap plus the top expense categories by forecast spend,
// all in GBP magnitudes.
func (s *Service) netIncome(targets []models.BudgetTarget) (models.NetIncomeGap, []models.ExpenseForecastItem) {
	var gap models.NetIncomeGap
	forecasts := make(map[string]float64)
	for _, target := range targets {
		category := s.policy.Normalize(target.Category)
		budget := math.Abs(target.AnnualBudgetGBP)
		forecast := math.Abs(target.TrackingEstGBP)
		switch {
		case finance.IsIncome(category):
			gap.IncomeBudget += budget
			gap.IncomeForecast += forecast
		case s.policy.IsExcluded(category):
			// Excluded non-income rows sit in neither bucket.
		default:
			gap.ExpenseBudget += budget
			gap.ExpenseForecast += forecast
			forecasts[category] += forecast
		}
	}
	gap.NetBudget = gap.IncomeBudget - gap.ExpenseBudget
	gap.NetForecast = gap.IncomeForecast - gap.ExpenseForecast
	gap.Gap = gap.NetBudget - gap.NetForecast

	items := make([]models.ExpenseForecastItem, 0, len(forecasts))
	for category, forecast := range forecasts {
		items = append(items, models.ExpenseForecastItem{Category: category, Forecast: forecast})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Forecast == items[j].Forecast {
			return items[i].Category < items[j].Category
		}
		return items[i].Forecast > items[j].Forecast
	})
	if len(items) > maxExpenseCategories {
		items = items[:maxExpenseCategories]
	}
	return gap, items
}

func convertGap(conv finance.Converter, g models.NetIncomeGap) models.NetIncomeGap {
	return models.NetIncomeGap{
		IncomeBudget:    conv.ToUSD(g.IncomeBudget),
		ExpenseBudget:   conv.ToUSD(g.ExpenseBudget),
		NetBudget:       conv.ToUSD(g.NetBudget),
		IncomeForecast:  conv.ToUSD(g.IncomeForecast),
		ExpenseForecast: conv.ToUSD(g.ExpenseForecast),
		NetForecast:     conv.ToUSD(g.NetForecast),
		Gap:             conv.ToUSD(g.Gap),
	}
}

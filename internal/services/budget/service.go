// Package budget compares spending against budget targets and tracks how
// the full-year forecast outlook moves between history captures.
package budget

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/finance"
	"github.com/bobmcallan/moneta/internal/interfaces"
	"github.com/bobmcallan/moneta/internal/models"
)

// Compile-time interface check
var _ interfaces.BudgetService = (*Service)(nil)

// Comparison periods accepted by CompareBudget.
const (
	PeriodYTD    = "ytd"
	PeriodAnnual = "annual"
)

// Service implements BudgetService.
type Service struct {
	storage interfaces.StorageManager
	policy  finance.CategoryPolicy
	logger  *common.Logger

	fallbackRate    float64
	defaultCurrency string
	now             func() time.Time
}

// NewService creates a new budget service.
func NewService(storage interfaces.StorageManager, config *common.Config, logger *common.Logger) *Service {
	return &Service{
		storage:         storage,
		policy:          finance.NewCategoryPolicy(config.Finance.ExcludedCategories),
		logger:          logger,
		fallbackRate:    config.Finance.FallbackGBPUSD,
		defaultCurrency: config.Finance.DefaultCurrency,
		now:             time.Now,
	}
}

// converter resolves the current GBPUSD rate for the USD mirror columns.
func (s *Service) converter(ctx context.Context, userID string) (finance.Converter, error) {
	rate, err := s.storage.FX().Latest(ctx, userID)
	if err != nil {
		return finance.Converter{}, fmt.Errorf("failed to load fx rate: %w", err)
	}
	return finance.NewConverter(rate, s.fallbackRate), nil
}

func validatePeriod(p string) (string, error) {
	switch p {
	case "":
		return PeriodYTD, nil
	case PeriodYTD, PeriodAnnual:
		return p, nil
	default:
		return "", fmt.Errorf("invalid period: %q (valid: ytd, annual)", p)
	}
}

// CompareBudget lines budget targets up against what actually happened
// (ytd) or against the externally tracked full-year forecast (annual).
// Variance keeps the glossary sign: positive means under budget.
func (s *Service) CompareBudget(ctx context.Context, opts interfaces.BudgetCompareOptions) (*models.BudgetComparison, error) {
	period, err := validatePeriod(opts.Period)
	if err != nil {
		return nil, err
	}
	year := opts.Year
	if year <= 0 {
		year = s.now().Year()
	}
	if year < 1970 || year > 2100 {
		return nil, fmt.Errorf("invalid year: %d", opts.Year)
	}
	wantCategory := ""
	if opts.Category != "" {
		wantCategory = s.policy.Normalize(opts.Category)
	}

	userID := common.ResolveUserID(ctx)
	conv, err := s.converter(ctx, userID)
	if err != nil {
		return nil, err
	}
	targets, err := s.storage.Budgets().ListTargets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load budget targets: %w", err)
	}

	budgets := make(map[string]float64)
	actuals := make(map[string]float64)
	for _, target := range targets {
		category := s.policy.Normalize(target.Category)
		if s.policy.IsExcluded(category) {
			continue
		}
		switch period {
		case PeriodYTD:
			budgets[category] += math.Abs(target.YTDGBP)
		case PeriodAnnual:
			budgets[category] += math.Abs(target.AnnualBudgetGBP)
			actuals[category] += math.Abs(target.TrackingEstGBP)
		}
	}

	if period == PeriodYTD {
		ytd, err := s.ytdActuals(ctx, userID, year)
		if err != nil {
			return nil, err
		}
		for category, spend := range ytd {
			actuals[category] += spend
		}
	}

	comparison := &models.BudgetComparison{
		Year:     year,
		Period:   period,
		Category: wantCategory,
	}
	for _, category := range unionKeys(budgets, actuals) {
		if wantCategory != "" && category != wantCategory {
			continue
		}
		row := models.BudgetComparisonRow{
			Category:    category,
			BudgetGBP:   budgets[category],
			ActualGBP:   actuals[category],
			VarianceGBP: budgets[category] - actuals[category],
		}
		row.BudgetUSD = conv.ToUSD(row.BudgetGBP)
		row.ActualUSD = conv.ToUSD(row.ActualGBP)
		row.VarianceUSD = conv.ToUSD(row.VarianceGBP)
		row.IsOverBudget = row.VarianceGBP < 0 || row.VarianceUSD < 0
		if row.BudgetGBP != 0 {
			pct := row.ActualGBP / row.BudgetGBP * 100
			row.PctUsed = &pct
		}
		comparison.Comparisons = append(comparison.Comparisons, row)

		comparison.Totals.TotalBudgetGBP += row.BudgetGBP
		comparison.Totals.TotalActualGBP += row.ActualGBP
		comparison.Totals.TotalGapGBP += row.VarianceGBP
		comparison.Totals.TotalBudgetUSD += row.BudgetUSD
		comparison.Totals.TotalActualUSD += row.ActualUSD
		comparison.Totals.TotalGapUSD += row.VarianceUSD
		if row.IsOverBudget {
			comparison.Totals.OverBudgetCount++
		}
	}

	// Worst overruns first: ascending by the more negative variance.
	sort.Slice(comparison.Comparisons, func(i, j int) bool {
		vi := math.Min(comparison.Comparisons[i].VarianceGBP, comparison.Comparisons[i].VarianceUSD)
		vj := math.Min(comparison.Comparisons[j].VarianceGBP, comparison.Comparisons[j].VarianceUSD)
		if vi == vj {
			return comparison.Comparisons[i].Category < comparison.Comparisons[j].Category
		}
		return vi < vj
	})

	s.logger.Info().
		Int("year", year).
		Str("period", period).
		Int("categories", len(comparison.Comparisons)).
		Float64("total_gap_gbp", comparison.Totals.TotalGapGBP).
		Msg("Budget comparison complete")

	return comparison, nil
}

// ytdActuals sums expense magnitudes per category from Jan 1 of the year
// through today (or through year end for past years). Exclusion and sign
// rules match the spending analyzer.
func (s *Service) ytdActuals(ctx context.Context, userID string, year int) (map[string]float64, error) {
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := finance.Day(s.now())
	if yearEnd := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC); end.After(yearEnd) {
		end = yearEnd
	}
	actuals := make(map[string]float64)
	if start.After(end) {
		// Future year: nothing has happened yet.
		return actuals, nil
	}

	fxRows, err := s.storage.FX().ListAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load fx rates: %w", err)
	}
	rates := finance.NewRateTable(fxRows, s.fallbackRate)

	rows, err := s.storage.Transactions().ListByDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	for _, tx := range rows {
		if s.policy.IsExcluded(tx.Category) {
			continue
		}
		gbp := rates.At(tx.Date).Amount(tx, finance.CurrencyGBP)
		if gbp >= 0 {
			continue
		}
		actuals[s.policy.Normalize(tx.Category)] += finance.SpendingAmount(gbp)
	}
	return actuals, nil
}

// unionKeys returns the sorted union of both maps' category keys.
func unionKeys(a, b map[string]float64) []string {
	seen := make(map[string]bool, len(a)+len(b))
	for k := range a {
		seen[k] = true
	}
	for k := range b {
		seen[k] = true
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

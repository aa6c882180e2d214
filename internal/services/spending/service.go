// Package spending aggregates ledger transactions: filtered spending
// analysis, 13-month category trends, and cash runway.
package spending

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/finance"
	"github.com/bobmcallan/moneta/internal/interfaces"
	"github.com/bobmcallan/moneta/internal/models"
)

// Compile-time interface check
var _ interfaces.SpendingService = (*Service)(nil)

// Transaction type filters accepted by AnalyzeSpending.
const (
	TypeExpenses = "expenses"
	TypeIncome   = "income"
	TypeAll      = "all"
)

// Grouping modes accepted by AnalyzeSpending.
const (
	GroupByCategory = "category"
	GroupByMerchant = "merchant"
	GroupByMonth    = "month"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Service implements SpendingService.
type Service struct {
	storage interfaces.StorageManager
	policy  finance.CategoryPolicy
	logger  *common.Logger

	fallbackRate    float64
	defaultCurrency string
	now             func() time.Time
}

// NewService creates a new spending service.
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

// rates loads the user's FX history into a per-date rate table.
func (s *Service) rates(ctx context.Context, userID string) (*finance.RateTable, error) {
	rows, err := s.storage.FX().ListAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load fx rates: %w", err)
	}
	return finance.NewRateTable(rows, s.fallbackRate), nil
}

// validateType checks the transaction type filter, defaulting to expenses.
func validateType(t string) (string, error) {
	switch t {
	case "":
		return TypeExpenses, nil
	case TypeExpenses, TypeIncome, TypeAll:
		return t, nil
	default:
		return "", fmt.Errorf("invalid transaction_type: %q (valid: expenses, income, all)", t)
	}
}

// validateGroupBy checks the grouping mode; empty means raw rows.
func validateGroupBy(g string) (string, error) {
	switch g {
	case "", GroupByCategory, GroupByMerchant, GroupByMonth:
		return g, nil
	default:
		return "", fmt.Errorf("invalid group_by: %q (valid: category, merchant, month)", g)
	}
}

// clampLimit applies the default and cap to a caller-supplied limit.
func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// matchedRow is one transaction that survived the filters, carrying its
// normalized category and both-currency amounts.
type matchedRow struct {
	tx       models.Transaction
	category string
	gbp      float64
	usd      float64
}

// AnalyzeSpending filters, converts, and totals the user's transactions
// over the resolved range, grouped or row-by-row. With no period and no
// custom dates the range defaults to start-of-year through today.
func (s *Service) AnalyzeSpending(ctx context.Context, opts interfaces.SpendingOptions) (*models.SpendingAnalysis, error) {
	txType, err := validateType(opts.TransactionType)
	if err != nil {
		return nil, err
	}
	groupBy, err := validateGroupBy(opts.GroupBy)
	if err != nil {
		return nil, err
	}
	limit := clampLimit(opts.Limit)

	period := opts.Period
	if period == "" && opts.StartDate == "" && opts.EndDate == "" {
		period = finance.PeriodThisYear
	}
	rng, err := finance.Resolve(period, opts.StartDate, opts.EndDate, s.now())
	if err != nil {
		return nil, err
	}

	userID := common.ResolveUserID(ctx)
	rates, err := s.rates(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.storage.Transactions().ListByDateRange(ctx, userID, rng.Start, rng.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	matched := s.filterRows(rows, rates, filterOptions{
		category:        opts.Category,
		merchant:        opts.Merchant,
		txType:          txType,
		includeExcluded: opts.IncludeExcluded,
	})

	analysis := &models.SpendingAnalysis{
		Period: models.PeriodInfo{
			Label:     rng.Label,
			StartDate: rng.Start.Format(time.DateOnly),
			EndDate:   rng.End.Format(time.DateOnly),
			Days:      rng.Days(),
		},
		TransactionType: txType,
		GroupBy:         groupBy,
	}
	for _, m := range matched {
		analysis.Totals.TotalGBP += m.gbp
		analysis.Totals.TotalUSD += m.usd
	}
	analysis.Totals.Count = len(matched)

	if groupBy != "" {
		analysis.Groups = buildGroups(matched, groupBy, limit)
	} else {
		analysis.Transactions = buildRows(matched, limit)
	}

	s.logger.Info().
		Str("period", rng.Label).
		Str("type", txType).
		Int("matched", len(matched)).
		Float64("total_gbp", analysis.Totals.TotalGBP).
		Msg("Spending analysis complete")

	return analysis, nil
}

type filterOptions struct {
	category        string
	merchant        string
	txType          string
	includeExcluded bool
}

// filterRows applies the category, merchant, exclusion, and sign filters,
// resolving both-currency amounts at each row's dated FX rate.
func (s *Service) filterRows(rows []models.Transaction, rates *finance.RateTable, opts filterOptions) []matchedRow {
	wantCategory := ""
	if opts.category != "" {
		wantCategory = s.policy.Normalize(opts.category)
	}
	needle := strings.ToLower(strings.TrimSpace(opts.merchant))

	matched := make([]matchedRow, 0, len(rows))
	for _, tx := range rows {
		category := s.policy.Normalize(tx.Category)
		if wantCategory != "" && category != wantCategory {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(tx.Counterparty), needle) {
			continue
		}
		if !opts.includeExcluded && s.policy.IsExcluded(tx.Category) {
			continue
		}

		gbp, usd := rates.At(tx.Date).Amounts(tx)
		switch opts.txType {
		case TypeExpenses:
			if gbp >= 0 {
				continue
			}
		case TypeIncome:
			if gbp <= 0 {
				continue
			}
		}
		matched = append(matched, matchedRow{tx: tx, category: category, gbp: gbp, usd: usd})
	}
	return matched
}

// buildGroups buckets matched rows by the grouping key, sorts descending
// by absolute GBP total, and truncates to limit. Merchant groups carry the
// longest observed counterparty variant as their display key and the
// Pareto marking over the full (pre-truncation) set.
func buildGroups(matched []matchedRow, groupBy string, limit int) []models.SpendingGroup {
	type bucket struct {
		gbp      float64
		usd      float64
		count    int
		variants map[string]int
	}
	buckets := make(map[string]*bucket)

	for _, m := range matched {
		var key string
		switch groupBy {
		case GroupByCategory:
			key = m.category
		case GroupByMerchant:
			key = finance.MerchantKey(m.tx.Counterparty)
		case GroupByMonth:
			key = finance.MonthOf(m.tx.Date).Key()
		}
		b := buckets[key]
		if b == nil {
			b = &bucket{variants: make(map[string]int)}
			buckets[key] = b
		}
		b.gbp += m.gbp
		b.usd += m.usd
		b.count++
		if groupBy == GroupByMerchant {
			b.variants[m.tx.Counterparty]++
		}
	}

	keys := make([]string, 0, len(buckets))
	var grandAbs float64
	for key, b := range buckets {
		keys = append(keys, key)
		grandAbs += abs(b.gbp)
	}
	sort.Slice(keys, func(i, j int) bool {
		bi, bj := buckets[keys[i]], buckets[keys[j]]
		if abs(bi.gbp) == abs(bj.gbp) {
			return keys[i] < keys[j]
		}
		return abs(bi.gbp) > abs(bj.gbp)
	})

	groups := make([]models.SpendingGroup, 0, len(keys))
	for _, key := range keys {
		b := buckets[key]
		display := key
		if groupBy == GroupByMerchant {
			display = finance.DisplayName(b.variants)
		}
		pct := 0.0
		if grandAbs > 0 {
			pct = abs(b.gbp) / grandAbs * 100
		}
		groups = append(groups, models.SpendingGroup{
			Key:        display,
			TotalGBP:   b.gbp,
			TotalUSD:   b.usd,
			Count:      b.count,
			PctOfTotal: pct,
		})
	}

	if groupBy == GroupByMerchant {
		finance.MarkPareto(groups)
	}
	if len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}

// buildRows renders matched rows for the ungrouped view, date ascending,
// truncated to limit. Native amount columns pass through; a nil column
// means the value was derived at query time.
func buildRows(matched []matchedRow, limit int) []models.TransactionRow {
	n := len(matched)
	if n > limit {
		n = limit
	}
	out := make([]models.TransactionRow, 0, n)
	for _, m := range matched[:n] {
		out = append(out, models.TransactionRow{
			Date:         m.tx.Date.Format(time.DateOnly),
			Counterparty: m.tx.Counterparty,
			Category:     m.tx.Category,
			AmountGBP:    m.tx.AmountGBP,
			AmountUSD:    m.tx.AmountUSD,
		})
	}
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

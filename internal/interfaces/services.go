// Package interfaces defines service contracts for Moneta
package interfaces

import (
	"context"

	"github.com/bobmcallan/moneta/internal/models"
)

// SpendingService aggregates ledger transactions into spending analytics.
type SpendingService interface {
	// AnalyzeSpending filters and totals transactions over a resolved
	// date range, grouped or row-by-row.
	AnalyzeSpending(ctx context.Context, opts SpendingOptions) (*models.SpendingAnalysis, error)

	// AnalyzeMonthlyCategoryTrends builds a 13-month breakdown for one
	// category ending at the last fully completed month.
	AnalyzeMonthlyCategoryTrends(ctx context.Context, opts MonthlyTrendOptions) (*models.MonthlyCategoryTrends, error)

	// CalculateRunway estimates how long cash covers burn, per currency.
	CalculateRunway(ctx context.Context) (*models.CashRunway, error)
}

// SpendingOptions configures a spending analysis. With neither Period nor
// custom dates the range defaults to start-of-year through today.
type SpendingOptions struct {
	Period          string // relative token; ignored when custom dates are set
	StartDate       string // YYYY-MM-DD, paired with EndDate
	EndDate         string // YYYY-MM-DD, paired with StartDate
	Category        string // optional exact-match filter
	Merchant        string // optional case-insensitive substring filter
	TransactionType string // expenses (default), income, or all
	IncludeExcluded bool   // keep excluded categories in the result
	GroupBy         string // category, merchant, or month; empty = raw rows
	Limit           int    // groups or rows to return (default 20, cap 100)
}

// MonthlyTrendOptions configures the 13-month category trend analysis.
type MonthlyTrendOptions struct {
	Category string // required
	Currency string // GBP (default) or USD
}

// NetWorthService reads balances and net-worth history into snapshots
// and trends.
type NetWorthService interface {
	// GetSnapshot reduces account history to current balances, or reads
	// the dated net-worth entries when an as-of date is given.
	GetSnapshot(ctx context.Context, opts SnapshotOptions) (*models.FinancialSnapshot, error)

	// AnalyzeTrend builds a dated net worth series from stored entries.
	AnalyzeTrend(ctx context.Context, opts TrendOptions) (*models.NetWorthTrend, error)
}

// SnapshotOptions configures a financial snapshot.
type SnapshotOptions struct {
	AsOfDate string // YYYY-MM-DD; empty = current balances
	GroupBy  string // currency (default), category, or entity
	Entity   string // optional: Personal, Family, or Trust
}

// TrendOptions configures the net worth trend analysis.
type TrendOptions struct {
	StartDate string // YYYY-MM-DD, required
	EndDate   string // YYYY-MM-DD, default today
	GroupBy   string // total (default) or entity
}

// BudgetService compares budgets against actuals and tracks how the
// forecast itself has moved.
type BudgetService interface {
	// CompareBudget lines up a year's spending against its budget rows,
	// year-to-date or full-year.
	CompareBudget(ctx context.Context, opts BudgetCompareOptions) (*models.BudgetComparison, error)

	// AnalyzeForecastEvolution compares the budget-gap picture at two
	// dates using the capture history. The start boundary must have a
	// capture at or before it; the end boundary may fall back to the
	// live budget table.
	AnalyzeForecastEvolution(ctx context.Context, opts EvolutionOptions) (*models.ForecastEvolution, error)
}

// BudgetCompareOptions configures a budget comparison.
type BudgetCompareOptions struct {
	Category string // optional exact-match filter
	Year     int    // default current year
	Period   string // ytd (default) or annual
}

// EvolutionOptions configures forecast evolution analysis.
type EvolutionOptions struct {
	StartDate string // YYYY-MM-DD, required
	EndDate   string // YYYY-MM-DD, default today
	Currency  string // GBP (default) or USD
}

// HealthService composes the other analytics into one summary.
type HealthService interface {
	// Summarize produces the cross-cutting financial health report:
	// net worth with and without Trust, currency allocation, the
	// net-income budget gap, and the top forecast expense categories.
	Summarize(ctx context.Context, opts HealthOptions) (*models.HealthSummary, error)
}

// HealthOptions configures the health summary.
type HealthOptions struct {
	AsOfDate string // YYYY-MM-DD; empty = current
	Currency string // GBP (default) or USD
}

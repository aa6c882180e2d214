package models

// PeriodInfo describes the resolved date range an analysis covers.
// Dates are rendered as YYYY-MM-DD; Days is the inclusive day count.
type PeriodInfo struct {
	Label     string `json:"label"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Days      int    `json:"days"`
}

// SpendingTotals carries both-currency signed sums for a spending query.
type SpendingTotals struct {
	TotalGBP float64 `json:"total_gbp"`
	TotalUSD float64 `json:"total_usd"`
	Count    int     `json:"count"`
}

// SpendingGroup is one bucket of a grouped spending analysis. Key is a
// category name, a merchant display name, or a YYYY-MM month depending on
// the grouping. Pareto marks merchant groups inside the top-80% cumulative
// spending set.
type SpendingGroup struct {
	Key        string  `json:"key"`
	TotalGBP   float64 `json:"total_gbp"`
	TotalUSD   float64 `json:"total_usd"`
	Count      int     `json:"count"`
	PctOfTotal float64 `json:"pct_of_total"`
	Pareto     bool    `json:"pareto,omitempty"`
}

// TransactionRow is one ledger row in an ungrouped spending analysis.
type TransactionRow struct {
	Date         string   `json:"date"`
	Counterparty string   `json:"counterparty"`
	Category     string   `json:"category,omitempty"`
	AmountGBP    *float64 `json:"amount_gbp,omitempty"`
	AmountUSD    *float64 `json:"amount_usd,omitempty"`
}

// SpendingAnalysis is the result of analyze_spending. Exactly one of
// Groups or Transactions is populated, depending on whether a grouping
// was requested.
type SpendingAnalysis struct {
	Summary         string           `json:"summary"`
	Period          PeriodInfo       `json:"period"`
	TransactionType string           `json:"transaction_type"`
	Totals          SpendingTotals   `json:"totals"`
	GroupBy         string           `json:"group_by,omitempty"`
	Groups          []SpendingGroup  `json:"groups,omitempty"`
	Transactions    []TransactionRow `json:"transactions,omitempty"`
}

// BalanceGroup is one bucket of a financial snapshot: a currency, an
// account category, or an entity label. Currency groups carry the native
// sum; converted sums are zero when the group currency has no GBP/USD
// bridge.
type BalanceGroup struct {
	Key         string  `json:"key"`
	NativeTotal float64 `json:"native_total,omitempty"`
	TotalGBP    float64 `json:"total_gbp"`
	TotalUSD    float64 `json:"total_usd"`
	Count       int     `json:"count"`
}

// FinancialSnapshot is the result of get_financial_snapshot. AsOf is set
// in historical mode only.
type FinancialSnapshot struct {
	Summary               string         `json:"summary"`
	AsOf                  string         `json:"as_of,omitempty"`
	Entity                string         `json:"entity,omitempty"`
	GroupBy               string         `json:"group_by"`
	NetWorthGBP           float64        `json:"net_worth_gbp"`
	NetWorthUSD           float64        `json:"net_worth_usd"`
	AccountCount          int            `json:"account_count"`
	Groups                []BalanceGroup `json:"groups"`
	UnconvertedCurrencies []string       `json:"unconverted_currencies,omitempty"`
}

// BudgetComparisonRow is one category's budget-vs-actual line. Variance is
// budget minus actual: positive means under budget. PctUsed is omitted on
// a zero budget.
type BudgetComparisonRow struct {
	Category     string   `json:"category"`
	BudgetGBP    float64  `json:"budget_gbp"`
	ActualGBP    float64  `json:"actual_gbp"`
	VarianceGBP  float64  `json:"variance_gbp"`
	BudgetUSD    float64  `json:"budget_usd"`
	ActualUSD    float64  `json:"actual_usd"`
	VarianceUSD  float64  `json:"variance_usd"`
	IsOverBudget bool     `json:"is_over_budget"`
	PctUsed      *float64 `json:"pct_used,omitempty"`
}

// BudgetComparisonTotals aggregates a budget comparison across categories.
type BudgetComparisonTotals struct {
	TotalBudgetGBP  float64 `json:"total_budget_gbp"`
	TotalActualGBP  float64 `json:"total_actual_gbp"`
	TotalGapGBP     float64 `json:"total_gap_gbp"`
	TotalBudgetUSD  float64 `json:"total_budget_usd"`
	TotalActualUSD  float64 `json:"total_actual_usd"`
	TotalGapUSD     float64 `json:"total_gap_usd"`
	OverBudgetCount int     `json:"over_budget_count"`
}

// BudgetComparison is the result of get_budget_vs_actual. Rows are sorted
// worst-first: ascending by the more negative of the two variances.
type BudgetComparison struct {
	Summary     string                 `json:"summary"`
	Year        int                    `json:"year"`
	Period      string                 `json:"period"`
	Category    string                 `json:"category,omitempty"`
	Comparisons []BudgetComparisonRow  `json:"comparisons"`
	Totals      BudgetComparisonTotals `json:"totals"`
}

// ForecastDriver is one category's contribution to forecast-gap movement
// between two snapshot boundaries. Delta is endGap minus startGap:
// positive means the outlook improved. Impact labels the sign.
type ForecastDriver struct {
	Category string  `json:"category"`
	StartGap float64 `json:"start_gap"`
	EndGap   float64 `json:"end_gap"`
	Delta    float64 `json:"delta"`
	Impact   string  `json:"impact"`
}

// ForecastEvolution is the result of analyze_forecast_evolution. Snapshot
// dates name the capture each boundary resolved to; EndSnapshotDate is
// "current" when the end boundary fell back to the live budget table.
type ForecastEvolution struct {
	Summary           string           `json:"summary"`
	Currency          string           `json:"currency"`
	StartDate         string           `json:"start_date"`
	EndDate           string           `json:"end_date"`
	StartSnapshotDate string           `json:"start_snapshot_date"`
	EndSnapshotDate   string           `json:"end_snapshot_date"`
	TotalGapStart     float64          `json:"total_gap_start"`
	TotalGapEnd       float64          `json:"total_gap_end"`
	TotalGapChange    float64          `json:"total_gap_change"`
	Drivers           []ForecastDriver `json:"drivers"`
}

// TrendPoint is one dated point of a net-worth trend. ByEntity carries
// per-label GBP sub-totals when entity grouping was requested.
type TrendPoint struct {
	Date     string             `json:"date"`
	TotalGBP float64            `json:"total_gbp"`
	TotalUSD float64            `json:"total_usd"`
	ByEntity map[string]float64 `json:"by_entity,omitempty"`
}

// NetWorthTrend is the result of get_net_worth_trend. Points cover the
// dates actually present in the range; ChangePctGBP is omitted on a zero
// base.
type NetWorthTrend struct {
	Summary      string       `json:"summary"`
	GroupBy      string       `json:"group_by"`
	FirstDate    string       `json:"first_date,omitempty"`
	LastDate     string       `json:"last_date,omitempty"`
	Points       []TrendPoint `json:"points"`
	ChangeGBP    float64      `json:"change_gbp"`
	ChangeUSD    float64      `json:"change_usd"`
	ChangePctGBP *float64     `json:"change_pct_gbp,omitempty"`
}

// MonthBreakdown is one month of a category trend, split between the
// window's top counterparty and everything else. Totals are spending
// magnitudes in the requested currency.
type MonthBreakdown struct {
	Month                 string  `json:"month"`
	Total                 float64 `json:"total"`
	TopCounterpartyAmount float64 `json:"top_counterparty_amount"`
	OtherAmount           float64 `json:"other_amount"`
	Count                 int     `json:"count"`
}

// TrendComparison compares the latest month against a baseline. Pct is
// omitted when the baseline is zero.
type TrendComparison struct {
	Baseline float64  `json:"baseline"`
	Delta    float64  `json:"delta"`
	Pct      *float64 `json:"pct,omitempty"`
}

// MonthlyCategoryTrends is the result of analyze_monthly_category_trends:
// a 13-month breakdown for one category ending at the last fully completed
// month.
type MonthlyCategoryTrends struct {
	Summary          string           `json:"summary"`
	Category         string           `json:"category"`
	Currency         string           `json:"currency"`
	TopCounterparty  string           `json:"top_counterparty,omitempty"`
	MonthlyBreakdown []MonthBreakdown `json:"monthly_breakdown"`
	LatestMonth      string           `json:"latest_month"`
	LatestTotal      float64          `json:"latest_total"`
	VsL3M            *TrendComparison `json:"vs_l3m,omitempty"`
	VsL12M           *TrendComparison `json:"vs_l12m,omitempty"`
	VsLastYear       *TrendComparison `json:"vs_last_year,omitempty"`
}

// RunwayCurrency is one currency leg of a cash-runway result. Months is
// omitted when burn is zero and cash remains (Unlimited); a non-positive
// cash position reports Depleted with zero months.
type RunwayCurrency struct {
	Cash        float64  `json:"cash"`
	MonthlyBurn float64  `json:"monthly_burn"`
	Months      *float64 `json:"months,omitempty"`
	Unlimited   bool     `json:"unlimited,omitempty"`
	Depleted    bool     `json:"depleted,omitempty"`
}

// CashRunway is the result of get_cash_runway. The GBP and USD legs are
// independent: native balances and native spending only, never converted.
type CashRunway struct {
	Summary string         `json:"summary"`
	GBP     RunwayCurrency `json:"gbp"`
	USD     RunwayCurrency `json:"usd"`
	Period  string         `json:"period"`
}

// NetIncomeGap compares budgeted net income against the forecast, both
// derived from the budget table. Gap is NetBudget minus NetForecast:
// positive means the forecast runs under budget.
type NetIncomeGap struct {
	IncomeBudget    float64 `json:"income_budget"`
	ExpenseBudget   float64 `json:"expense_budget"`
	NetBudget       float64 `json:"net_budget"`
	IncomeForecast  float64 `json:"income_forecast"`
	ExpenseForecast float64 `json:"expense_forecast"`
	NetForecast     float64 `json:"net_forecast"`
	Gap             float64 `json:"gap"`
}

// ExpenseForecastItem is one category's forecast full-year spend.
type ExpenseForecastItem struct {
	Category string  `json:"category"`
	Forecast float64 `json:"forecast"`
}

// HealthSummary is the result of get_financial_health_summary. The primary
// net-worth figure excludes Trust; NetWorthIncTrust is attached only when
// including Trust changes the number.
type HealthSummary struct {
	Summary              string                `json:"summary"`
	Currency             string                `json:"currency"`
	AsOf                 string                `json:"as_of,omitempty"`
	NetWorthExTrust      float64               `json:"net_worth_ex_trust"`
	NetWorthIncTrust     *float64              `json:"net_worth_inc_trust,omitempty"`
	AllocationByCurrency []BalanceGroup        `json:"allocation_by_currency"`
	NetIncome            NetIncomeGap          `json:"net_income"`
	TopExpenseCategories []ExpenseForecastItem `json:"top_expense_categories"`
}

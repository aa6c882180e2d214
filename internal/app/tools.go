package app

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createGetVersionTool returns the get_version tool definition
func createGetVersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the Moneta MCP server version and status. Use this to verify connectivity."),
	)
}

// createGetFinancialSnapshotTool returns the get_financial_snapshot tool definition
func createGetFinancialSnapshotTool() mcp.Tool {
	return mcp.NewTool("get_financial_snapshot",
		mcp.WithDescription("Get a point-in-time net worth snapshot: current account balances, or the recorded net worth history when a date is given. Reports GBP and USD totals with a configurable breakdown."),
		mcp.WithString("asOfDate",
			mcp.Description("Historical date in YYYY-MM-DD format (e.g., '2025-06-30'). Omit for current balances."),
		),
		mcp.WithString("groupBy",
			mcp.Description("Breakdown grouping: currency, category, or entity (default: currency)"),
		),
		mcp.WithString("entity",
			mcp.Description("Restrict to one entity view: Personal, Family, or Trust"),
		),
	)
}

// createAnalyzeSpendingTool returns the analyze_spending tool definition
func createAnalyzeSpendingTool() mcp.Tool {
	return mcp.NewTool("analyze_spending",
		mcp.WithDescription("Analyze ledger transactions over a period: totals plus grouped breakdowns or raw rows. Defaults to expenses for the year to date."),
		mcp.WithString("period",
			mcp.Description("Relative period: this_month, last_month, last_3_months, last_6_months, this_year, last_year, all_time. Ignored when startDate/endDate are set."),
		),
		mcp.WithString("startDate",
			mcp.Description("Custom range start in YYYY-MM-DD format (paired with endDate)"),
		),
		mcp.WithString("endDate",
			mcp.Description("Custom range end in YYYY-MM-DD format (paired with startDate)"),
		),
		mcp.WithString("category",
			mcp.Description("Filter to one category (e.g., 'Groceries')"),
		),
		mcp.WithString("merchant",
			mcp.Description("Case-insensitive substring filter on the counterparty name (e.g., 'amazon')"),
		),
		mcp.WithString("transactionType",
			mcp.Description("Which rows to include: expenses, income, or all (default: expenses)"),
		),
		mcp.WithBoolean("includeExcluded",
			mcp.Description("Include transfer/investment categories normally excluded from spending (default: false)"),
		),
		mcp.WithString("groupBy",
			mcp.Description("Group results by category, merchant, or month. Omit for individual transactions."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum groups or rows to return (default: 20, max: 100)"),
		),
	)
}

// createGetBudgetVsActualTool returns the get_budget_vs_actual tool definition
func createGetBudgetVsActualTool() mcp.Tool {
	return mcp.NewTool("get_budget_vs_actual",
		mcp.WithDescription("Compare spending against budget targets per category. YTD mode measures actual ledger spend against the year-to-date budget; annual mode measures the tracked full-year forecast against the annual budget."),
		mcp.WithString("category",
			mcp.Description("Filter to one category (e.g., 'Groceries')"),
		),
		mcp.WithNumber("year",
			mcp.Description("Calendar year to compare (default: current year)"),
		),
		mcp.WithString("period",
			mcp.Description("Comparison basis: ytd or annual (default: ytd)"),
		),
	)
}

// createGetFinancialHealthSummaryTool returns the get_financial_health_summary tool definition
func createGetFinancialHealthSummaryTool() mcp.Tool {
	return mcp.NewTool("get_financial_health_summary",
		mcp.WithDescription("Get a cross-cutting financial position report: net worth excluding Trust, allocation by currency, the net income budget gap, and the top forecast expense categories."),
		mcp.WithString("asOfDate",
			mcp.Description("Historical date in YYYY-MM-DD format (e.g., '2025-06-30'). Omit for the current position."),
		),
		mcp.WithString("currency",
			mcp.Description("Display currency: GBP or USD (default: GBP)"),
		),
	)
}

// createAnalyzeForecastEvolutionTool returns the analyze_forecast_evolution tool definition
func createAnalyzeForecastEvolutionTool() mcp.Tool {
	return mcp.NewTool("analyze_forecast_evolution",
		mcp.WithDescription("Track how the full-year budget outlook moved between two dates using the budget capture history. Reports the total gap change and the categories driving it."),
		mcp.WithString("startDate",
			mcp.Required(),
			mcp.Description("Range start in YYYY-MM-DD format; a budget capture must exist on or before it"),
		),
		mcp.WithString("endDate",
			mcp.Description("Range end in YYYY-MM-DD format (default: today)"),
		),
		mcp.WithString("currency",
			mcp.Description("Display currency: GBP or USD (default: GBP)"),
		),
	)
}

// createGetNetWorthTrendTool returns the get_net_worth_trend tool definition
func createGetNetWorthTrendTool() mcp.Tool {
	return mcp.NewTool("get_net_worth_trend",
		mcp.WithDescription("Get the recorded net worth series over a date range with the overall change. Optionally split each point by entity."),
		mcp.WithString("startDate",
			mcp.Required(),
			mcp.Description("Range start in YYYY-MM-DD format"),
		),
		mcp.WithString("endDate",
			mcp.Description("Range end in YYYY-MM-DD format (default: today)"),
		),
		mcp.WithString("groupBy",
			mcp.Description("Series shape: total or entity (default: total)"),
		),
	)
}

// createAnalyzeMonthlyCategoryTrendsTool returns the analyze_monthly_category_trends tool definition
func createAnalyzeMonthlyCategoryTrendsTool() mcp.Tool {
	return mcp.NewTool("analyze_monthly_category_trends",
		mcp.WithDescription("Break one category's spending into the last 13 completed months, split between the dominant counterparty and the rest, with comparisons against recent averages and the same month last year."),
		mcp.WithString("category",
			mcp.Required(),
			mcp.Description("Category to analyze (e.g., 'Groceries')"),
		),
		mcp.WithString("currency",
			mcp.Description("Display currency: GBP or USD (default: GBP)"),
		),
	)
}

// createGetCashRunwayTool returns the get_cash_runway tool definition
func createGetCashRunwayTool() mcp.Tool {
	return mcp.NewTool("get_cash_runway",
		mcp.WithDescription("Estimate how many months liquid cash covers spending at the recent burn rate, independently for GBP and USD."),
	)
}

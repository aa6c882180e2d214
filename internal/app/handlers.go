package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/interfaces"
)

// handleGetVersion implements the get_version tool
func handleGetVersion() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := fmt.Sprintf("Moneta MCP Server\nVersion: %s\nBuild: %s\nCommit: %s\nStatus: OK",
			common.GetVersion(), common.GetBuild(), common.GetGitCommit())
		return textResult(result), nil
	}
}

// handleGetFinancialSnapshot implements the get_financial_snapshot tool
func handleGetFinancialSnapshot(netWorthService interfaces.NetWorthService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		opts := interfaces.SnapshotOptions{
			AsOfDate: request.GetString("asOfDate", ""),
			GroupBy:  request.GetString("groupBy", ""),
			Entity:   request.GetString("entity", ""),
		}

		snapshot, err := netWorthService.GetSnapshot(ctx, opts)
		if err != nil {
			logger.Error().Err(err).Str("as_of", opts.AsOfDate).Str("entity", opts.Entity).Msg("Financial snapshot failed")
			return errorResult(err.Error()), nil
		}

		snapshot.Summary = summarizeSnapshot(snapshot)
		return jsonResult(snapshot), nil
	}
}

// handleAnalyzeSpending implements the analyze_spending tool
func handleAnalyzeSpending(spendingService interfaces.SpendingService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		opts := interfaces.SpendingOptions{
			Period:          request.GetString("period", ""),
			StartDate:       request.GetString("startDate", ""),
			EndDate:         request.GetString("endDate", ""),
			Category:        request.GetString("category", ""),
			Merchant:        request.GetString("merchant", ""),
			TransactionType: request.GetString("transactionType", ""),
			IncludeExcluded: request.GetBool("includeExcluded", false),
			GroupBy:         request.GetString("groupBy", ""),
			Limit:           request.GetInt("limit", 0),
		}

		analysis, err := spendingService.AnalyzeSpending(ctx, opts)
		if err != nil {
			logger.Error().Err(err).Str("period", opts.Period).Str("group_by", opts.GroupBy).Msg("Spending analysis failed")
			return errorResult(err.Error()), nil
		}

		analysis.Summary = summarizeSpending(analysis)
		return jsonResult(analysis), nil
	}
}

// handleGetBudgetVsActual implements the get_budget_vs_actual tool
func handleGetBudgetVsActual(budgetService interfaces.BudgetService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		opts := interfaces.BudgetCompareOptions{
			Category: request.GetString("category", ""),
			Year:     request.GetInt("year", 0),
			Period:   request.GetString("period", ""),
		}

		comparison, err := budgetService.CompareBudget(ctx, opts)
		if err != nil {
			logger.Error().Err(err).Int("year", opts.Year).Str("period", opts.Period).Msg("Budget comparison failed")
			return errorResult(err.Error()), nil
		}

		comparison.Summary = summarizeBudget(comparison)
		return jsonResult(comparison), nil
	}
}

// handleGetFinancialHealthSummary implements the get_financial_health_summary tool
func handleGetFinancialHealthSummary(healthService interfaces.HealthService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		opts := interfaces.HealthOptions{
			AsOfDate: request.GetString("asOfDate", ""),
			Currency: request.GetString("currency", ""),
		}

		summary, err := healthService.Summarize(ctx, opts)
		if err != nil {
			logger.Error().Err(err).Str("as_of", opts.AsOfDate).Msg("Health summary failed")
			return errorResult(err.Error()), nil
		}

		summary.Summary = summarizeHealth(summary)
		return jsonResult(summary), nil
	}
}

// handleAnalyzeForecastEvolution implements the analyze_forecast_evolution tool
func handleAnalyzeForecastEvolution(budgetService interfaces.BudgetService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		opts := interfaces.EvolutionOptions{
			StartDate: request.GetString("startDate", ""),
			EndDate:   request.GetString("endDate", ""),
			Currency:  request.GetString("currency", ""),
		}

		evolution, err := budgetService.AnalyzeForecastEvolution(ctx, opts)
		if err != nil {
			logger.Error().Err(err).Str("start", opts.StartDate).Str("end", opts.EndDate).Msg("Forecast evolution failed")
			return errorResult(err.Error()), nil
		}

		evolution.Summary = summarizeEvolution(evolution)
		return jsonResult(evolution), nil
	}
}

// handleGetNetWorthTrend implements the get_net_worth_trend tool
func handleGetNetWorthTrend(netWorthService interfaces.NetWorthService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		opts := interfaces.TrendOptions{
			StartDate: request.GetString("startDate", ""),
			EndDate:   request.GetString("endDate", ""),
			GroupBy:   request.GetString("groupBy", ""),
		}

		trend, err := netWorthService.AnalyzeTrend(ctx, opts)
		if err != nil {
			logger.Error().Err(err).Str("start", opts.StartDate).Str("end", opts.EndDate).Msg("Net worth trend failed")
			return errorResult(err.Error()), nil
		}

		trend.Summary = summarizeTrend(trend)
		return jsonResult(trend), nil
	}
}

// handleAnalyzeMonthlyCategoryTrends implements the analyze_monthly_category_trends tool
func handleAnalyzeMonthlyCategoryTrends(spendingService interfaces.SpendingService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		opts := interfaces.MonthlyTrendOptions{
			Category: request.GetString("category", ""),
			Currency: request.GetString("currency", ""),
		}

		trends, err := spendingService.AnalyzeMonthlyCategoryTrends(ctx, opts)
		if err != nil {
			logger.Error().Err(err).Str("category", opts.Category).Msg("Monthly category trends failed")
			return errorResult(err.Error()), nil
		}

		trends.Summary = summarizeMonthlyTrends(trends)
		return jsonResult(trends), nil
	}
}

// handleGetCashRunway implements the get_cash_runway tool
func handleGetCashRunway(spendingService interfaces.SpendingService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		runway, err := spendingService.CalculateRunway(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Cash runway failed")
			return errorResult(err.Error()), nil
		}

		runway.Summary = summarizeRunway(runway)
		return jsonResult(runway), nil
	}
}

// Helper functions

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

// errorResult wraps a failure as an IsError tool result whose content is
// the JSON object {"error": message}. Handlers never return a Go error for
// domain or validation failures.
func errorResult(message string) *mcp.CallToolResult {
	data, _ := json.Marshal(map[string]string{"error": message})
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(string(data)),
		},
		IsError: true,
	}
}

// jsonResult renders a result payload as indented JSON.
func jsonResult(v interface{}) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("failed to encode result: %v", err))
	}
	return textResult(string(data))
}

package app

import (
	"context"
	"fmt"

	"github.com/bobmcallan/moneta/internal/interfaces"
	"github.com/bobmcallan/moneta/internal/models"
)

// --- mockSpendingService ---

type mockSpendingService struct {
	analyzeFn func(ctx context.Context, opts interfaces.SpendingOptions) (*models.SpendingAnalysis, error)
	trendsFn  func(ctx context.Context, opts interfaces.MonthlyTrendOptions) (*models.MonthlyCategoryTrends, error)
	runwayFn  func(ctx context.Context) (*models.CashRunway, error)
}

func (m *mockSpendingService) AnalyzeSpending(ctx context.Context, opts interfaces.SpendingOptions) (*models.SpendingAnalysis, error) {
	if m.analyzeFn != nil {
		return m.analyzeFn(ctx, opts)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockSpendingService) AnalyzeMonthlyCategoryTrends(ctx context.Context, opts interfaces.MonthlyTrendOptions) (*models.MonthlyCategoryTrends, error) {
	if m.trendsFn != nil {
		return m.trendsFn(ctx, opts)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockSpendingService) CalculateRunway(ctx context.Context) (*models.CashRunway, error) {
	if m.runwayFn != nil {
		return m.runwayFn(ctx)
	}
	return nil, fmt.Errorf("not implemented")
}

// --- mockNetWorthService ---

type mockNetWorthService struct {
	snapshotFn func(ctx context.Context, opts interfaces.SnapshotOptions) (*models.FinancialSnapshot, error)
	trendFn    func(ctx context.Context, opts interfaces.TrendOptions) (*models.NetWorthTrend, error)
}

func (m *mockNetWorthService) GetSnapshot(ctx context.Context, opts interfaces.SnapshotOptions) (*models.FinancialSnapshot, error) {
	if m.snapshotFn != nil {
		return m.snapshotFn(ctx, opts)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockNetWorthService) AnalyzeTrend(ctx context.Context, opts interfaces.TrendOptions) (*models.NetWorthTrend, error) {
	if m.trendFn != nil {
		return m.trendFn(ctx, opts)
	}
	return nil, fmt.Errorf("not implemented")
}

// --- mockBudgetService ---

type mockBudgetService struct {
	compareFn   func(ctx context.Context, opts interfaces.BudgetCompareOptions) (*models.BudgetComparison, error)
	evolutionFn func(ctx context.Context, opts interfaces.EvolutionOptions) (*models.ForecastEvolution, error)
}

func (m *mockBudgetService) CompareBudget(ctx context.Context, opts interfaces.BudgetCompareOptions) (*models.BudgetComparison, error) {
	if m.compareFn != nil {
		return m.compareFn(ctx, opts)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockBudgetService) AnalyzeForecastEvolution(ctx context.Context, opts interfaces.EvolutionOptions) (*models.ForecastEvolution, error) {
	if m.evolutionFn != nil {
		return m.evolutionFn(ctx, opts)
	}
	return nil, fmt.Errorf("not implemented")
}

// --- mockHealthService ---

type mockHealthService struct {
	summarizeFn func(ctx context.Context, opts interfaces.HealthOptions) (*models.HealthSummary, error)
}

func (m *mockHealthService) Summarize(ctx context.Context, opts interfaces.HealthOptions) (*models.HealthSummary, error) {
	if m.summarizeFn != nil {
		return m.summarizeFn(ctx, opts)
	}
	return nil, fmt.Errorf("not implemented")
}

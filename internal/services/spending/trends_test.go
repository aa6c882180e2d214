package spending

import (
	"math"
	"strings"
	"testing"

	"github.com/bobmcallan/moneta/internal/interfaces"
	"github.com/bobmcallan/moneta/internal/models"
)

func TestMonthlyTrends_WindowEndsAtCompletedMonth(t *testing.T) {
	svc, storage := testService(day("2025-09-15"))
	storage.transactions.rows = []models.Transaction{
		tx("2025-08-10", "CAFFE NERO", "Eating Out", -40),
		tx("2025-09-05", "CAFFE NERO", "Eating Out", -99), // running month, never counted
	}

	result, err := svc.AnalyzeMonthlyCategoryTrends(testContext(), interfaces.MonthlyTrendOptions{
		Category: "Eating Out",
	})
	if err != nil {
		t.Fatalf("AnalyzeMonthlyCategoryTrends: %v", err)
	}

	if len(result.MonthlyBreakdown) != 13 {
		t.Fatalf("breakdown = %d months, want 13", len(result.MonthlyBreakdown))
	}
	if result.MonthlyBreakdown[0].Month != "2024-08" {
		t.Errorf("first month = %q, want 2024-08", result.MonthlyBreakdown[0].Month)
	}
	if result.LatestMonth != "2025-08" {
		t.Errorf("LatestMonth = %q, want 2025-08", result.LatestMonth)
	}
	if result.LatestTotal != 40 {
		t.Errorf("LatestTotal = %v, want 40 (spending magnitude)", result.LatestTotal)
	}
	for _, m := range result.MonthlyBreakdown {
		if m.Month == "2025-09" {
			t.Error("running month must not appear in the series")
		}
	}
	if result.Currency != "GBP" {
		t.Errorf("Currency = %q, want GBP default", result.Currency)
	}
}

func TestMonthlyTrends_ZeroMonthsStayInSeries(t *testing.T) {
	svc, storage := testService(day("2025-09-15"))
	storage.transactions.rows = []models.Transaction{
		tx("2025-03-10", "CAFFE NERO", "Eating Out", -25),
	}

	result, err := svc.AnalyzeMonthlyCategoryTrends(testContext(), interfaces.MonthlyTrendOptions{
		Category: "Eating Out",
	})
	if err != nil {
		t.Fatalf("AnalyzeMonthlyCategoryTrends: %v", err)
	}

	if len(result.MonthlyBreakdown) != 13 {
		t.Fatalf("breakdown = %d months, want 13", len(result.MonthlyBreakdown))
	}
	var nonZero int
	for _, m := range result.MonthlyBreakdown {
		if m.Total != 0 {
			nonZero++
			if m.Month != "2025-03" {
				t.Errorf("unexpected non-zero month %q", m.Month)
			}
		}
	}
	if nonZero != 1 {
		t.Errorf("non-zero months = %d, want 1", nonZero)
	}
}

func TestMonthlyTrends_TopCounterpartySplit(t *testing.T) {
	svc, storage := testService(day("2025-09-15"))
	storage.transactions.rows = []models.Transaction{
		tx("2025-06-03", "TESCO STORES 3281", "Groceries", -100),
		tx("2025-07-03", "TESCO STORES EXPRESS LONDON", "Groceries", -200),
		tx("2025-07-12", "SAINSBURYS LOCAL", "Groceries", -50),
	}

	result, err := svc.AnalyzeMonthlyCategoryTrends(testContext(), interfaces.MonthlyTrendOptions{
		Category: "Groceries",
	})
	if err != nil {
		t.Fatalf("AnalyzeMonthlyCategoryTrends: %v", err)
	}

	// Both TESCO variants share a merchant key; the longest variant is shown.
	if result.TopCounterparty != "TESCO STORES EXPRESS LONDON" {
		t.Errorf("TopCounterparty = %q, want the longest TESCO variant", result.TopCounterparty)
	}

	var july *models.MonthBreakdown
	for i := range result.MonthlyBreakdown {
		if result.MonthlyBreakdown[i].Month == "2025-07" {
			july = &result.MonthlyBreakdown[i]
		}
	}
	if july == nil {
		t.Fatal("2025-07 missing from series")
	}
	if july.Total != 250 || july.TopCounterpartyAmount != 200 || july.OtherAmount != 50 {
		t.Errorf("july split = %v/%v/%v, want 250/200/50",
			july.Total, july.TopCounterpartyAmount, july.OtherAmount)
	}
	if july.Count != 2 {
		t.Errorf("july count = %d, want 2", july.Count)
	}
}

func TestMonthlyTrends_Comparisons(t *testing.T) {
	svc, storage := testService(day("2025-09-15"))
	storage.transactions.rows = []models.Transaction{
		tx("2024-08-10", "CAFFE NERO", "Eating Out", -60), // window's first month
		tx("2025-05-10", "CAFFE NERO", "Eating Out", -100),
		tx("2025-07-10", "CAFFE NERO", "Eating Out", -140),
		tx("2025-08-05", "CAFFE NERO", "Eating Out", -150), // latest
	}

	result, err := svc.AnalyzeMonthlyCategoryTrends(testContext(), interfaces.MonthlyTrendOptions{
		Category: "Eating Out",
	})
	if err != nil {
		t.Fatalf("AnalyzeMonthlyCategoryTrends: %v", err)
	}

	// L3M: 2025-05, 2025-06 (zero, skipped), 2025-07 → mean 120.
	if result.VsL3M == nil {
		t.Fatal("VsL3M missing")
	}
	if result.VsL3M.Baseline != 120 || result.VsL3M.Delta != 30 {
		t.Errorf("VsL3M = %v/%v, want 120/30", result.VsL3M.Baseline, result.VsL3M.Delta)
	}
	if result.VsL3M.Pct == nil || math.Abs(*result.VsL3M.Pct-25) > 0.001 {
		t.Errorf("VsL3M.Pct = %v, want 25", result.VsL3M.Pct)
	}

	// L12M: non-zero prior months 60, 100, 140 → mean 100.
	if result.VsL12M == nil || result.VsL12M.Baseline != 100 || result.VsL12M.Delta != 50 {
		t.Errorf("VsL12M = %+v, want baseline 100 delta 50", result.VsL12M)
	}

	// Last year: the window's first month, exactly.
	if result.VsLastYear == nil || result.VsLastYear.Baseline != 60 || result.VsLastYear.Delta != 90 {
		t.Errorf("VsLastYear = %+v, want baseline 60 delta 90", result.VsLastYear)
	}
	if result.VsLastYear.Pct == nil || math.Abs(*result.VsLastYear.Pct-150) > 0.001 {
		t.Errorf("VsLastYear.Pct = %v, want 150", result.VsLastYear.Pct)
	}
}

func TestMonthlyTrends_ZeroBaselineOmitsPct(t *testing.T) {
	svc, storage := testService(day("2025-09-15"))
	storage.transactions.rows = []models.Transaction{
		tx("2025-08-05", "CAFFE NERO", "Eating Out", -150),
	}

	result, err := svc.AnalyzeMonthlyCategoryTrends(testContext(), interfaces.MonthlyTrendOptions{
		Category: "Eating Out",
	})
	if err != nil {
		t.Fatalf("AnalyzeMonthlyCategoryTrends: %v", err)
	}

	if result.VsLastYear == nil {
		t.Fatal("VsLastYear missing")
	}
	if result.VsLastYear.Baseline != 0 || result.VsLastYear.Delta != 150 {
		t.Errorf("VsLastYear = %v/%v, want 0/150", result.VsLastYear.Baseline, result.VsLastYear.Delta)
	}
	if result.VsLastYear.Pct != nil {
		t.Errorf("VsLastYear.Pct = %v, want omitted on zero baseline", *result.VsLastYear.Pct)
	}
}

func TestMonthlyTrends_RefundsIgnored(t *testing.T) {
	svc, storage := testService(day("2025-09-15"))
	storage.transactions.rows = []models.Transaction{
		tx("2025-08-05", "CAFFE NERO", "Eating Out", -100),
		tx("2025-08-06", "CAFFE NERO", "Eating Out", 30), // refund, not an expense row
	}

	result, err := svc.AnalyzeMonthlyCategoryTrends(testContext(), interfaces.MonthlyTrendOptions{
		Category: "Eating Out",
	})
	if err != nil {
		t.Fatalf("AnalyzeMonthlyCategoryTrends: %v", err)
	}
	if result.LatestTotal != 100 {
		t.Errorf("LatestTotal = %v, want 100 (refund excluded)", result.LatestTotal)
	}
}

func TestMonthlyTrends_USDCurrency(t *testing.T) {
	svc, storage := testService(day("2025-09-15"))
	storage.fx.rows = []models.FXRate{
		{UserID: testUser, Date: day("2024-01-01"), GBPUSD: 1.25},
	}
	storage.transactions.rows = []models.Transaction{
		tx("2025-08-05", "CAFFE NERO", "Eating Out", -100),
	}

	result, err := svc.AnalyzeMonthlyCategoryTrends(testContext(), interfaces.MonthlyTrendOptions{
		Category: "Eating Out",
		Currency: "usd",
	})
	if err != nil {
		t.Fatalf("AnalyzeMonthlyCategoryTrends: %v", err)
	}
	if result.Currency != "USD" {
		t.Errorf("Currency = %q, want USD", result.Currency)
	}
	if math.Abs(result.LatestTotal-125) > 0.001 {
		t.Errorf("LatestTotal = %v, want 125 at 1.25", result.LatestTotal)
	}
}

func TestMonthlyTrends_Validation(t *testing.T) {
	svc, _ := testService(day("2025-09-15"))
	ctx := testContext()

	_, err := svc.AnalyzeMonthlyCategoryTrends(ctx, interfaces.MonthlyTrendOptions{})
	if err == nil || !strings.Contains(err.Error(), "category is required") {
		t.Errorf("missing category error = %v, want 'category is required'", err)
	}

	_, err = svc.AnalyzeMonthlyCategoryTrends(ctx, interfaces.MonthlyTrendOptions{
		Category: "Groceries",
		Currency: "EUR",
	})
	if err == nil || !strings.Contains(err.Error(), "invalid currency") {
		t.Errorf("bad currency error = %v, want 'invalid currency'", err)
	}
}

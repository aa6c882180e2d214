package spending

import (
	"math"
	"testing"
	"time"

	"github.com/bobmcallan/moneta/internal/models"
)

func account(institution, name, category, currency string, balance float64, updated string) models.Account {
	return models.Account{
		UserID:       testUser,
		Institution:  institution,
		AccountName:  name,
		Category:     category,
		Currency:     currency,
		BalanceTotal: balance,
		DateUpdated:  day(updated),
	}
}

func txUSD(date, counterparty, category string, amountUSD float64) models.Transaction {
	d, _ := time.Parse(time.DateOnly, date)
	return models.Transaction{
		UserID:       testUser,
		Date:         d,
		Counterparty: counterparty,
		Category:     category,
		AmountUSD:    &amountUSD,
	}
}

func TestCalculateRunway(t *testing.T) {
	svc, storage := testService(day("2025-09-15"))
	storage.accounts.rows = []models.Account{
		account("HSBC", "Current", "Checking", "GBP", 9999, "2025-01-01"), // stale row
		account("HSBC", "Current", "Checking", "GBP", 3000, "2025-09-01"),
		account("Chase", "Checking", "Checking", "USD", 1300, "2025-09-01"),
		account("Vanguard", "ISA", "Investment", "GBP", 50000, "2025-09-01"),
	}
	storage.transactions.rows = []models.Transaction{
		tx("2025-06-10", "TESCO", "Groceries", -600),
		tx("2025-07-10", "TESCO", "Groceries", -600),
		tx("2025-08-10", "TESCO", "Groceries", -600),
		tx("2025-08-12", "TESCO", "Groceries", 300), // refund nets against burn
		// The running month sits outside the burn window; Income is excluded.
		tx("2025-09-05", "TESCO", "Groceries", -9999),
		tx("2025-06-15", "EMPLOYER LTD", "Income", 5000),
		txUSD("2025-06-20", "WHOLE FOODS", "Groceries", -390),
	}

	result, err := svc.CalculateRunway(testContext())
	if err != nil {
		t.Fatalf("CalculateRunway: %v", err)
	}

	if result.Period != "2025-06-01 to 2025-08-31" {
		t.Errorf("Period = %q, want 2025-06-01 to 2025-08-31", result.Period)
	}

	// GBP: cash 3000 (latest row wins, investment ignored); net -1500 → burn 500.
	if result.GBP.Cash != 3000 {
		t.Errorf("GBP.Cash = %v, want 3000", result.GBP.Cash)
	}
	if math.Abs(result.GBP.MonthlyBurn-500) > 0.001 {
		t.Errorf("GBP.MonthlyBurn = %v, want 500", result.GBP.MonthlyBurn)
	}
	if result.GBP.Months == nil || math.Abs(*result.GBP.Months-6) > 0.001 {
		t.Errorf("GBP.Months = %v, want 6", result.GBP.Months)
	}

	// USD: cash 1300, burn 390/3 = 130 → 10 months. The GBP rows never leak in.
	if result.USD.Cash != 1300 {
		t.Errorf("USD.Cash = %v, want 1300", result.USD.Cash)
	}
	if math.Abs(result.USD.MonthlyBurn-130) > 0.001 {
		t.Errorf("USD.MonthlyBurn = %v, want 130", result.USD.MonthlyBurn)
	}
	if result.USD.Months == nil || math.Abs(*result.USD.Months-10) > 0.001 {
		t.Errorf("USD.Months = %v, want 10", result.USD.Months)
	}
}

func TestCalculateRunway_UnlimitedWithoutBurn(t *testing.T) {
	svc, storage := testService(day("2025-09-15"))
	storage.accounts.rows = []models.Account{
		account("HSBC", "Savings", "Savings", "GBP", 5000, "2025-09-01"),
	}

	result, err := svc.CalculateRunway(testContext())
	if err != nil {
		t.Fatalf("CalculateRunway: %v", err)
	}

	if !result.GBP.Unlimited {
		t.Error("GBP leg should be unlimited with cash and zero burn")
	}
	if result.GBP.Months != nil {
		t.Errorf("GBP.Months = %v, want omitted when unlimited", *result.GBP.Months)
	}
	if result.GBP.MonthlyBurn != 0 {
		t.Errorf("GBP.MonthlyBurn = %v, want 0", result.GBP.MonthlyBurn)
	}
}

func TestCalculateRunway_NetInflowClampsBurn(t *testing.T) {
	svc, storage := testService(day("2025-09-15"))
	storage.accounts.rows = []models.Account{
		account("HSBC", "Current", "Checking", "GBP", 1000, "2025-09-01"),
	}
	storage.transactions.rows = []models.Transaction{
		tx("2025-07-10", "TESCO", "Groceries", -100),
		tx("2025-07-20", "TESCO", "Groceries", 400), // net inflow over the window
	}

	result, err := svc.CalculateRunway(testContext())
	if err != nil {
		t.Fatalf("CalculateRunway: %v", err)
	}
	if result.GBP.MonthlyBurn != 0 {
		t.Errorf("MonthlyBurn = %v, want 0 on net inflow", result.GBP.MonthlyBurn)
	}
	if !result.GBP.Unlimited {
		t.Error("GBP leg should be unlimited on net inflow")
	}
}

func TestCalculateRunway_Depleted(t *testing.T) {
	svc, storage := testService(day("2025-09-15"))
	storage.accounts.rows = []models.Account{
		account("HSBC", "Current", "Checking", "GBP", -250, "2025-09-01"), // overdrawn
	}
	storage.transactions.rows = []models.Transaction{
		tx("2025-07-10", "TESCO", "Groceries", -300),
	}

	result, err := svc.CalculateRunway(testContext())
	if err != nil {
		t.Fatalf("CalculateRunway: %v", err)
	}
	if !result.GBP.Depleted {
		t.Error("GBP leg should report depleted on negative cash")
	}
	if result.GBP.Months == nil || *result.GBP.Months != 0 {
		t.Errorf("GBP.Months = %v, want 0 when depleted", result.GBP.Months)
	}
}

func TestCalculateRunway_EmptyLedger(t *testing.T) {
	svc, _ := testService(day("2025-09-15"))

	result, err := svc.CalculateRunway(testContext())
	if err != nil {
		t.Fatalf("CalculateRunway: %v", err)
	}
	// Zero cash reads as depleted on both legs.
	if !result.GBP.Depleted || !result.USD.Depleted {
		t.Errorf("empty ledger legs = %+v / %+v, want depleted", result.GBP, result.USD)
	}
}

package models

import "time"

// Account is one point-in-time balance record for a financial account.
// Accounts are history rows: the same (institution, account_name) pair
// appears once per refresh, and the newest row wins when reading current
// state. Balances are split into total, personal, and family columns in
// the account's local currency; entity views read different columns.
type Account struct {
	ID              string    `json:"id" badgerhold:"key"`
	UserID          string    `json:"user_id" badgerhold:"index"`
	Institution     string    `json:"institution"`
	AccountName     string    `json:"account_name"`
	Category        string    `json:"category"`
	Currency        string    `json:"currency"`
	BalanceTotal    float64   `json:"balance_total_local"`
	BalancePersonal float64   `json:"balance_personal_local"`
	BalanceFamily   float64   `json:"balance_family_local"`
	DateUpdated     time.Time `json:"date_updated" badgerhold:"index"`
}

// Identity returns the logical account key used for latest-row selection.
func (a Account) Identity() string {
	return a.Institution + "|" + a.AccountName
}

// cashCategories are the account categories counted toward cash runway.
var cashCategories = map[string]bool{
	"Cash":     true,
	"Checking": true,
	"Savings":  true,
}

// IsCashCategory reports whether an account category counts as liquid cash.
func IsCashCategory(category string) bool {
	return cashCategories[category]
}

// Transaction is a single ledger row. Amounts are signed: negative for
// spending, positive for income and refunds. At least one of AmountGBP or
// AmountUSD is set; the missing side is derived via the GBPUSD rate valid
// at the transaction date.
type Transaction struct {
	ID           string    `json:"id" badgerhold:"key"`
	UserID       string    `json:"user_id" badgerhold:"index"`
	Date         time.Time `json:"date" badgerhold:"index"`
	Counterparty string    `json:"counterparty"`
	Category     string    `json:"category,omitempty"`
	AmountGBP    *float64  `json:"amount_gbp,omitempty"`
	AmountUSD    *float64  `json:"amount_usd,omitempty"`
}

// BudgetTarget is one category's current budget row, refreshed externally.
// AnnualBudgetGBP is stored negative for expense categories; TrackingEstGBP
// is the forecast full-year spend; YTDGBP is the budget-to-date figure.
type BudgetTarget struct {
	ID              string    `json:"id" badgerhold:"key"`
	UserID          string    `json:"user_id" badgerhold:"index"`
	Category        string    `json:"category"`
	AnnualBudgetGBP float64   `json:"annual_budget_gbp"`
	TrackingEstGBP  float64   `json:"tracking_est_gbp"`
	YTDGBP          float64   `json:"ytd_gbp"`
	DateUpdated     time.Time `json:"date_updated"`
}

// BudgetSnapshot is one category's forecast and budget captured on one
// date. The budget history table holds a row per category per capture
// date; forecast-evolution analysis compares two capture dates.
type BudgetSnapshot struct {
	ID            string    `json:"id" badgerhold:"key"`
	UserID        string    `json:"user_id" badgerhold:"index"`
	Date          time.Time `json:"date" badgerhold:"index"`
	Category      string    `json:"category"`
	ForecastSpend float64   `json:"forecast_spend"`
	AnnualBudget  float64   `json:"annual_budget"`
}

// Gap returns the snapshot's budget headroom: annual budget minus forecast
// spend. Larger is better.
func (s BudgetSnapshot) Gap() float64 {
	return s.AnnualBudget - s.ForecastSpend
}

// NetWorthEntry is one entity's net-worth value on one date. Category is
// the entity label (Personal, Family, Trust); total net worth on a date is
// the sum of that date's entries.
type NetWorthEntry struct {
	ID        string    `json:"id" badgerhold:"key"`
	UserID    string    `json:"user_id" badgerhold:"index"`
	Date      time.Time `json:"date" badgerhold:"index"`
	Category  string    `json:"category"`
	AmountGBP float64   `json:"amount_gbp"`
	AmountUSD float64   `json:"amount_usd"`
}

// FXRate is a stored GBPUSD exchange rate for one date. The engine never
// fetches rates; an external process writes them and analytics read the
// greatest-dated row as current.
type FXRate struct {
	ID     string    `json:"id" badgerhold:"key"`
	UserID string    `json:"user_id" badgerhold:"index"`
	Date   time.Time `json:"date" badgerhold:"index"`
	GBPUSD float64   `json:"gbpusd_rate"`
}

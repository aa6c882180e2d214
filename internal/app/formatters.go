package app

import (
	"fmt"
	"math"
	"strings"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/models"
)

// Summary strings ride alongside the structured payload so a narrating
// caller can quote the headline without re-deriving it.

// summarizeSnapshot renders the net worth headline for a snapshot.
func summarizeSnapshot(s *models.FinancialSnapshot) string {
	if s.AccountCount == 0 && len(s.Groups) == 0 {
		if s.AsOf != "" {
			return fmt.Sprintf("No net worth recorded for %s.", s.AsOf)
		}
		if s.Entity != "" {
			return fmt.Sprintf("No accounts recorded for %s.", s.Entity)
		}
		return "No accounts recorded."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Net worth %s (%s)",
		common.FormatMoney(s.NetWorthGBP, "GBP"), common.FormatMoney(s.NetWorthUSD, "USD")))
	if s.Entity != "" {
		sb.WriteString(" for " + s.Entity)
	}
	if s.AsOf != "" {
		sb.WriteString(" as of " + s.AsOf)
	} else {
		sb.WriteString(fmt.Sprintf(" across %d accounts", s.AccountCount))
	}
	sb.WriteString(fmt.Sprintf(", grouped by %s.", s.GroupBy))
	if len(s.UnconvertedCurrencies) > 0 {
		sb.WriteString(fmt.Sprintf(" Unconverted currencies: %s.", strings.Join(s.UnconvertedCurrencies, ", ")))
	}
	return sb.String()
}

// summarizeSpending renders the spending analysis headline. Expense totals
// arrive signed negative and are flipped to magnitudes for the narration.
func summarizeSpending(a *models.SpendingAnalysis) string {
	if a.Totals.Count == 0 {
		noun := "transactions"
		switch a.TransactionType {
		case "expenses":
			noun = "expense transactions"
		case "income":
			noun = "income transactions"
		}
		return fmt.Sprintf("No %s between %s and %s.", noun, a.Period.StartDate, a.Period.EndDate)
	}

	var sb strings.Builder
	switch a.TransactionType {
	case "expenses":
		sb.WriteString(fmt.Sprintf("Spent %s (%s)",
			common.FormatMoney(-a.Totals.TotalGBP, "GBP"), common.FormatMoney(-a.Totals.TotalUSD, "USD")))
	case "income":
		sb.WriteString(fmt.Sprintf("Received %s (%s)",
			common.FormatMoney(a.Totals.TotalGBP, "GBP"), common.FormatMoney(a.Totals.TotalUSD, "USD")))
	default:
		sb.WriteString(fmt.Sprintf("Net %s (%s)",
			common.FormatSignedMoney(a.Totals.TotalGBP, "GBP"), common.FormatSignedMoney(a.Totals.TotalUSD, "USD")))
	}
	sb.WriteString(fmt.Sprintf(" across %d transactions between %s and %s",
		a.Totals.Count, a.Period.StartDate, a.Period.EndDate))
	if len(a.Groups) > 0 {
		top := a.Groups[0]
		sb.WriteString(fmt.Sprintf("; top %s %s (%s of total)",
			a.GroupBy, top.Key, common.FormatPct(top.PctOfTotal)))
	}
	sb.WriteString(".")
	return sb.String()
}

// summarizeBudget renders the budget comparison headline.
func summarizeBudget(c *models.BudgetComparison) string {
	if len(c.Comparisons) == 0 {
		if c.Category != "" {
			return fmt.Sprintf("No budget rows matched %s for %d.", c.Category, c.Year)
		}
		return fmt.Sprintf("No budget rows recorded for %d.", c.Year)
	}

	label := "YTD"
	if c.Period == "annual" {
		label = "Annual"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %d: budget %s, actual %s, variance %s",
		label, c.Year,
		common.FormatMoney(c.Totals.TotalBudgetGBP, "GBP"),
		common.FormatMoney(c.Totals.TotalActualGBP, "GBP"),
		common.FormatSignedMoney(c.Totals.TotalGapGBP, "GBP")))
	if c.Totals.OverBudgetCount > 0 {
		sb.WriteString(fmt.Sprintf("; %d of %d categories over budget", c.Totals.OverBudgetCount, len(c.Comparisons)))
	} else {
		sb.WriteString(fmt.Sprintf("; all %d categories within budget", len(c.Comparisons)))
	}
	sb.WriteString(".")
	return sb.String()
}

// summarizeHealth renders the financial health headline.
func summarizeHealth(h *models.HealthSummary) string {
	cur := h.Currency
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Net worth %s excluding Trust", common.FormatMoney(h.NetWorthExTrust, cur)))
	if h.NetWorthIncTrust != nil {
		sb.WriteString(fmt.Sprintf(" (%s including Trust)", common.FormatMoney(*h.NetWorthIncTrust, cur)))
	}
	if h.AsOf != "" {
		sb.WriteString(" as of " + h.AsOf)
	}
	gap := h.NetIncome.Gap
	switch {
	case gap > 0:
		sb.WriteString(fmt.Sprintf("; forecast net income %s short of budget", common.FormatMoney(gap, cur)))
	case gap < 0:
		sb.WriteString(fmt.Sprintf("; forecast net income %s ahead of budget", common.FormatMoney(-gap, cur)))
	default:
		sb.WriteString("; forecast net income on budget")
	}
	if len(h.TopExpenseCategories) > 0 {
		top := h.TopExpenseCategories[0]
		sb.WriteString(fmt.Sprintf(". Largest forecast expense: %s (%s)", top.Category, common.FormatMoney(top.Forecast, cur)))
	}
	sb.WriteString(".")
	return sb.String()
}

// summarizeEvolution renders the forecast evolution headline. A positive
// gap change means the outlook improved.
func summarizeEvolution(e *models.ForecastEvolution) string {
	cur := e.Currency
	var sb strings.Builder
	if e.TotalGapChange == 0 {
		sb.WriteString(fmt.Sprintf("Budget outlook held steady between %s and %s (gap %s)",
			e.StartDate, e.EndDate, common.FormatMoney(e.TotalGapStart, cur)))
	} else {
		verb := "improved"
		if e.TotalGapChange < 0 {
			verb = "worsened"
		}
		sb.WriteString(fmt.Sprintf("Budget outlook %s by %s between %s and %s (gap %s to %s)",
			verb, common.FormatMoney(math.Abs(e.TotalGapChange), cur),
			e.StartDate, e.EndDate,
			common.FormatMoney(e.TotalGapStart, cur), common.FormatMoney(e.TotalGapEnd, cur)))
	}
	if len(e.Drivers) > 0 && e.Drivers[0].Delta != 0 {
		d := e.Drivers[0]
		sb.WriteString(fmt.Sprintf("; largest driver %s (%s)", d.Category, common.FormatSignedMoney(d.Delta, cur)))
	}
	sb.WriteString(".")
	return sb.String()
}

// summarizeTrend renders the net worth trend headline.
func summarizeTrend(tr *models.NetWorthTrend) string {
	if len(tr.Points) == 0 {
		return "No net worth entries recorded in the requested range."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Net worth moved %s", common.FormatSignedMoney(tr.ChangeGBP, "GBP")))
	if tr.ChangePctGBP != nil {
		sb.WriteString(fmt.Sprintf(" (%s)", common.FormatSignedPct(*tr.ChangePctGBP)))
	}
	sb.WriteString(fmt.Sprintf(" across %d captures between %s and %s.",
		len(tr.Points), tr.FirstDate, tr.LastDate))
	return sb.String()
}

// summarizeMonthlyTrends renders the 13-month category trend headline.
func summarizeMonthlyTrends(tr *models.MonthlyCategoryTrends) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s spend in %s: %s",
		tr.Category, tr.LatestMonth, common.FormatMoney(tr.LatestTotal, tr.Currency)))
	sb.WriteString(fmt.Sprintf("; vs L3M %s, vs L12M %s, vs last year %s.",
		compareClause(tr.VsL3M, tr.Currency),
		compareClause(tr.VsL12M, tr.Currency),
		compareClause(tr.VsLastYear, tr.Currency)))
	if tr.TopCounterparty != "" {
		sb.WriteString(fmt.Sprintf(" Top counterparty: %s.", tr.TopCounterparty))
	}
	return sb.String()
}

// compareClause renders one latest-month comparison. The percentage is N/A
// on a zero baseline.
func compareClause(c *models.TrendComparison, currency string) string {
	if c == nil {
		return "N/A"
	}
	if c.Pct == nil {
		return fmt.Sprintf("%s (N/A)", common.FormatSignedMoney(c.Delta, currency))
	}
	return fmt.Sprintf("%s (%s)", common.FormatSignedMoney(c.Delta, currency), common.FormatSignedPct(*c.Pct))
}

// summarizeRunway renders the cash runway headline.
func summarizeRunway(r *models.CashRunway) string {
	return fmt.Sprintf("Cash runway: GBP %s; USD %s. Burn measured over %s.",
		runwayClause(r.GBP, "GBP"), runwayClause(r.USD, "USD"), r.Period)
}

// runwayClause renders one currency leg.
func runwayClause(leg models.RunwayCurrency, currency string) string {
	switch {
	case leg.Depleted:
		return fmt.Sprintf("depleted (%s cash)", common.FormatMoney(leg.Cash, currency))
	case leg.Unlimited:
		return fmt.Sprintf("unlimited (%s cash, no net burn)", common.FormatMoney(leg.Cash, currency))
	default:
		months := 0.0
		if leg.Months != nil {
			months = *leg.Months
		}
		return fmt.Sprintf("%.1f months (%s cash at %s/month)",
			months, common.FormatMoney(leg.Cash, currency), common.FormatMoney(leg.MonthlyBurn, currency))
	}
}

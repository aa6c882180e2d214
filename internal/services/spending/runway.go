package spending

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/finance"
	"github.com/bobmcallan/moneta/internal/models"
)

// burnWindowMonths is the lookback for the monthly-burn average: the last
// fully completed calendar months before the current one.
const burnWindowMonths = 3

// CalculateRunway reports how long liquid cash lasts at the recent burn
// rate, per currency. The GBP and USD legs are fully independent: native
// balances divided by native spending, never converted, so a single-
// currency ledger reports a meaningful leg and an empty one rather than a
// blended figure.
func (s *Service) CalculateRunway(ctx context.Context) (*models.CashRunway, error) {
	userID := common.ResolveUserID(ctx)

	accounts, err := s.storage.Accounts().ListAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	var cashGBP, cashUSD float64
	for _, a := range finance.LatestPerAccount(accounts) {
		if !models.IsCashCategory(a.Category) {
			continue
		}
		switch strings.ToUpper(a.Currency) {
		case finance.CurrencyGBP:
			cashGBP += a.BalanceTotal
		case finance.CurrencyUSD:
			cashUSD += a.BalanceTotal
		}
	}

	current := finance.MonthOf(s.now())
	window := finance.Range{
		Start: current.AddMonths(-burnWindowMonths).Start(),
		End:   current.AddMonths(-1).End(),
	}
	rows, err := s.storage.Transactions().ListByDateRange(ctx, userID, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	// Native signed sums: refunds net against spending, a row missing a
	// currency column contributes nothing to that leg.
	var netGBP, netUSD float64
	for _, tx := range rows {
		if s.policy.IsExcluded(tx.Category) {
			continue
		}
		if tx.AmountGBP != nil {
			netGBP += *tx.AmountGBP
		}
		if tx.AmountUSD != nil {
			netUSD += *tx.AmountUSD
		}
	}

	result := &models.CashRunway{
		GBP: runwayLeg(cashGBP, netGBP),
		USD: runwayLeg(cashUSD, netUSD),
		Period: fmt.Sprintf("%s to %s",
			window.Start.Format(time.DateOnly), window.End.Format(time.DateOnly)),
	}

	s.logger.Info().
		Float64("cash_gbp", cashGBP).
		Float64("burn_gbp", result.GBP.MonthlyBurn).
		Float64("cash_usd", cashUSD).
		Float64("burn_usd", result.USD.MonthlyBurn).
		Msg("Cash runway complete")

	return result, nil
}

// runwayLeg derives one currency leg from its cash position and net spend
// over the burn window. Net inflow clamps burn to zero.
func runwayLeg(cash, netSpend float64) models.RunwayCurrency {
	burn := 0.0
	if netSpend < 0 {
		burn = -netSpend / burnWindowMonths
	}
	leg := models.RunwayCurrency{Cash: cash, MonthlyBurn: burn}

	switch {
	case cash <= 0:
		zero := 0.0
		leg.Months = &zero
		leg.Depleted = true
	case burn == 0:
		leg.Unlimited = true
	default:
		months := cash / burn
		leg.Months = &months
	}
	return leg
}

package finance

import (
	"sort"
	"strings"
	"time"

	"github.com/bobmcallan/moneta/internal/models"
)

// Display currencies the engine can aggregate into.
const (
	CurrencyGBP = "GBP"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
)

// ConverterSourceStore and ConverterSourceFallback identify where a
// converter's rate came from.
const (
	ConverterSourceStore    = "store"
	ConverterSourceFallback = "fallback"
)

// Converter converts between GBP and USD using a single GBPUSD rate.
// GBP to USD multiplies; USD to GBP divides. Other currencies are never
// converted and group under their native code instead.
type Converter struct {
	GBPUSD float64
	Source string
}

// NewConverter builds a Converter from the stored rate, falling back to
// the configured default when the store has no usable row.
func NewConverter(rate *models.FXRate, fallback float64) Converter {
	if rate == nil || rate.GBPUSD <= 0 {
		return Converter{GBPUSD: fallback, Source: ConverterSourceFallback}
	}
	return Converter{GBPUSD: rate.GBPUSD, Source: ConverterSourceStore}
}

// ValidDisplayCurrency reports whether c is an accepted display currency.
func ValidDisplayCurrency(c string) bool {
	u := strings.ToUpper(c)
	return u == CurrencyGBP || u == CurrencyUSD
}

// ToUSD converts a GBP amount to USD.
func (c Converter) ToUSD(gbp float64) float64 {
	return gbp * c.GBPUSD
}

// ToGBP converts a USD amount to GBP.
func (c Converter) ToGBP(usd float64) float64 {
	return usd / c.GBPUSD
}

// Amount returns a transaction's signed amount in the requested display
// currency, preferring the native column and deriving the other through
// the GBPUSD rate. A row with neither column set contributes 0.
func (c Converter) Amount(t models.Transaction, currency string) float64 {
	switch strings.ToUpper(currency) {
	case CurrencyUSD:
		if t.AmountUSD != nil {
			return *t.AmountUSD
		}
		if t.AmountGBP != nil {
			return c.ToUSD(*t.AmountGBP)
		}
	default:
		if t.AmountGBP != nil {
			return *t.AmountGBP
		}
		if t.AmountUSD != nil {
			return c.ToGBP(*t.AmountUSD)
		}
	}
	return 0
}

// Amounts returns a transaction's signed amount in both currencies: the
// native columns where present, the conversion for whichever side is
// missing. A row with neither column set contributes (0, 0).
func (c Converter) Amounts(t models.Transaction) (gbp, usd float64) {
	switch {
	case t.AmountGBP != nil && t.AmountUSD != nil:
		return *t.AmountGBP, *t.AmountUSD
	case t.AmountGBP != nil:
		return *t.AmountGBP, c.ToUSD(*t.AmountGBP)
	case t.AmountUSD != nil:
		return c.ToGBP(*t.AmountUSD), *t.AmountUSD
	}
	return 0, 0
}

// RateTable resolves the GBPUSD rate in effect on a given date from the
// stored rate history. Transactions dated before the earliest stored rate,
// and empty stores, use the current rate (or the configured fallback).
type RateTable struct {
	rows     []models.FXRate
	fallback float64
}

// NewRateTable builds a table from the user's rate rows. Rows are sorted
// by date; non-positive rates are dropped.
func NewRateTable(rows []models.FXRate, fallback float64) *RateTable {
	t := &RateTable{fallback: fallback}
	for _, r := range rows {
		if r.GBPUSD > 0 {
			t.rows = append(t.rows, r)
		}
	}
	sort.Slice(t.rows, func(i, j int) bool { return t.rows[i].Date.Before(t.rows[j].Date) })
	return t
}

// Current returns a converter on the greatest-dated stored rate, or the
// fallback when the table is empty.
func (t *RateTable) Current() Converter {
	if len(t.rows) == 0 {
		return Converter{GBPUSD: t.fallback, Source: ConverterSourceFallback}
	}
	return Converter{GBPUSD: t.rows[len(t.rows)-1].GBPUSD, Source: ConverterSourceStore}
}

// At returns a converter on the most recent rate dated on or before date,
// falling back to Current when no stored rate precedes it.
func (t *RateTable) At(date time.Time) Converter {
	idx := sort.Search(len(t.rows), func(i int) bool { return t.rows[i].Date.After(date) })
	if idx == 0 {
		return t.Current()
	}
	return Converter{GBPUSD: t.rows[idx-1].GBPUSD, Source: ConverterSourceStore}
}

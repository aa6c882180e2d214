// Package finance holds the pure analytics primitives: date-range
// resolution, currency conversion, category policy, and merchant grouping.
// Everything here is deterministic and storage-free; services compose these
// over ledger rows.
package finance

import (
	"fmt"
	"time"
)

// Range is an inclusive calendar-day window. Start and End are UTC
// midnights; Label is the canonical period token or "custom".
type Range struct {
	Start time.Time
	End   time.Time
	Label string
}

// Period tokens accepted by ResolvePeriod.
const (
	PeriodThisMonth   = "this_month"
	PeriodLastMonth   = "last_month"
	PeriodLast3Months = "last_3_months"
	PeriodLast6Months = "last_6_months"
	PeriodThisYear    = "this_year"
	PeriodLastYear    = "last_year"
	PeriodAllTime     = "all_time"
)

// allTimeStart bounds all_time queries. Nothing in a personal ledger
// predates it, and it keeps the range math away from zero times.
var allTimeStart = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// Day truncates a timestamp to its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ResolvePeriod resolves a relative period token against now.
// Relative windows are calendar-aligned and end at now's day:
// this_month covers the 1st through today, last_3_months covers the
// current month-to-date plus the two whole months before it.
func ResolvePeriod(token string, now time.Time) (Range, error) {
	today := Day(now)
	y, m, _ := today.Date()

	switch token {
	case PeriodThisMonth:
		return Range{Start: time.Date(y, m, 1, 0, 0, 0, 0, time.UTC), End: today, Label: token}, nil
	case PeriodLastMonth:
		start := time.Date(y, m-1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
		return Range{Start: start, End: end, Label: token}, nil
	case PeriodLast3Months:
		return Range{Start: time.Date(y, m-2, 1, 0, 0, 0, 0, time.UTC), End: today, Label: token}, nil
	case PeriodLast6Months:
		return Range{Start: time.Date(y, m-5, 1, 0, 0, 0, 0, time.UTC), End: today, Label: token}, nil
	case PeriodThisYear:
		return Range{Start: time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC), End: today, Label: token}, nil
	case PeriodLastYear:
		start := time.Date(y-1, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(y-1, 12, 31, 0, 0, 0, 0, time.UTC)
		return Range{Start: start, End: end, Label: token}, nil
	case PeriodAllTime:
		return Range{Start: allTimeStart, End: today, Label: token}, nil
	default:
		return Range{}, fmt.Errorf("invalid period: %q (valid: this_month, last_month, last_3_months, last_6_months, this_year, last_year, all_time)", token)
	}
}

// ResolveCustom resolves an explicit YYYY-MM-DD start/end pair.
// The end date is clamped to today when it lies in the future; a start
// date after the end date is an error.
func ResolveCustom(startStr, endStr string, now time.Time) (Range, error) {
	start, err := time.Parse(time.DateOnly, startStr)
	if err != nil {
		return Range{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", startStr)
	}
	end, err := time.Parse(time.DateOnly, endStr)
	if err != nil {
		return Range{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", endStr)
	}
	if start.After(end) {
		return Range{}, fmt.Errorf("start_date %s is after end_date %s", startStr, endStr)
	}

	today := Day(now)
	if end.After(today) {
		end = today
	}
	if start.After(end) {
		start = end
	}
	return Range{Start: Day(start), End: Day(end), Label: "custom"}, nil
}

// Resolve picks between a relative period token and explicit custom dates.
// Custom dates take precedence when both are present; supplying only one
// custom bound is an error. An empty period with no custom dates defaults
// to this_month.
func Resolve(period, startStr, endStr string, now time.Time) (Range, error) {
	hasStart := startStr != ""
	hasEnd := endStr != ""

	switch {
	case hasStart && hasEnd:
		return ResolveCustom(startStr, endStr, now)
	case hasStart != hasEnd:
		return Range{}, fmt.Errorf("start_date and end_date must be provided together")
	case period == "":
		return ResolvePeriod(PeriodThisMonth, now)
	default:
		return ResolvePeriod(period, now)
	}
}

// Days returns the inclusive day count of the range.
func (r Range) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Contains reports whether a timestamp falls inside the range at day
// granularity.
func (r Range) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Month identifies one calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) Month {
	y, m, _ := t.UTC().Date()
	return Month{Year: y, Month: m}
}

// Key renders the month as YYYY-MM. Keys sort lexicographically in
// chronological order.
func (m Month) Key() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Start returns the first day of the month at UTC midnight.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last day of the month at UTC midnight.
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, -1)
}

// AddMonths returns the month offset by n (negative moves backward).
func (m Month) AddMonths(n int) Month {
	return MonthOf(time.Date(m.Year, m.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC))
}

// LastNMonths returns the n calendar months ending with now's month,
// oldest first.
func LastNMonths(n int, now time.Time) []Month {
	months := make([]Month, 0, n)
	current := MonthOf(now)
	for i := n - 1; i >= 0; i-- {
		months = append(months, current.AddMonths(-i))
	}
	return months
}

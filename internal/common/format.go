package common

import (
	"fmt"
	"math"
	"strings"
)

// currencySymbol maps an ISO currency code to its display symbol.
// Unknown codes fall back to the code itself with a trailing space.
func currencySymbol(code string) string {
	switch strings.ToUpper(code) {
	case "GBP":
		return "£"
	case "USD":
		return "$"
	case "EUR":
		return "€"
	default:
		return strings.ToUpper(code) + " "
	}
}

// groupThousands inserts comma separators into a non-negative integer string.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var sb strings.Builder
	rem := n % 3
	if rem > 0 {
		sb.WriteString(s[:rem])
	}
	for i := rem; i < n; i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}

// FormatMoney renders an amount as a currency string with thousands
// separators, e.g. FormatMoney(1234.5, "GBP") == "£1,234.50".
// Negative amounts render with a leading minus: "-£12.00".
func FormatMoney(v float64, currency string) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := fmt.Sprintf("%.2f", v)
	parts := strings.SplitN(whole, ".", 2)
	return sign + currencySymbol(currency) + groupThousands(parts[0]) + "." + parts[1]
}

// FormatSignedMoney renders an amount with an explicit +/- prefix,
// e.g. "+£120.00". Zero renders as "+£0.00".
func FormatSignedMoney(v float64, currency string) string {
	if v < 0 {
		return FormatMoney(v, currency)
	}
	return "+" + FormatMoney(v, currency)
}

// FormatPct renders a percentage with one decimal, e.g. "26.2%".
func FormatPct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// FormatSignedPct renders a percentage with an explicit +/- prefix,
// e.g. "+3.2%", "-1.8%".
func FormatSignedPct(v float64) string {
	if math.Signbit(v) {
		return fmt.Sprintf("-%.1f%%", math.Abs(v))
	}
	return fmt.Sprintf("+%.1f%%", v)
}

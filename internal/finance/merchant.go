package finance

import (
	"math"
	"strings"
	"unicode"

	"github.com/bobmcallan/moneta/internal/models"
)

// merchantKeyLen is the prefix length merchant keys are truncated to.
// Card processors append varying reference suffixes to the same merchant
// ("AMAZON MKTPLACE*2E3J", "AMAZON MKTPLACE AMZN.CO.UK"); a fixed prefix
// groups the variants without a merchant dictionary.
const merchantKeyLen = 12

// ParetoShare is the cumulative spending share that bounds the marked
// merchant set. The merchant that crosses the boundary is included.
const ParetoShare = 0.80

// isReferenceToken reports whether a trailing description token is a
// payment reference rather than part of the merchant name: "*2E3J",
// "#1234", or a digit run of four or more.
func isReferenceToken(tok string) bool {
	if tok == "" {
		return false
	}
	if tok[0] == '*' || tok[0] == '#' {
		return len(tok) > 1
	}
	digits := 0
	for _, r := range tok {
		if !unicode.IsDigit(r) {
			return false
		}
		digits++
	}
	return digits >= 4
}

// MerchantKey canonicalizes a counterparty into a grouping key: uppercase,
// whitespace collapsed, trailing reference tokens stripped, then truncated
// to a fixed prefix.
func MerchantKey(counterparty string) string {
	fields := strings.Fields(strings.ToUpper(counterparty))
	for len(fields) > 1 && isReferenceToken(fields[len(fields)-1]) {
		fields = fields[:len(fields)-1]
	}
	key := strings.Join(fields, " ")
	if runes := []rune(key); len(runes) > merchantKeyLen {
		key = strings.TrimSpace(string(runes[:merchantKeyLen]))
	}
	return key
}

// DisplayName picks the raw variant shown for a merchant group: the
// longest observed variant, ties broken lexicographically so the choice
// is stable across map iteration order.
func DisplayName(variants map[string]int) string {
	var best string
	first := true
	for v := range variants {
		if first || len(v) > len(best) || (len(v) == len(best) && v < best) {
			best = v
			first = false
		}
	}
	return best
}

// MarkPareto flags the merchant groups that make up the top cumulative
// ParetoShare of spending, measured on absolute GBP totals. Groups must
// already be sorted by absolute total descending. The group whose
// inclusion crosses the boundary is flagged too. Returns the number of
// groups marked.
func MarkPareto(groups []models.SpendingGroup) int {
	var grand float64
	for _, g := range groups {
		grand += math.Abs(g.TotalGBP)
	}
	if grand <= 0 {
		return 0
	}

	marked := 0
	var cum float64
	for i := range groups {
		if cum/grand >= ParetoShare {
			break
		}
		groups[i].Pareto = true
		marked++
		cum += math.Abs(groups[i].TotalGBP)
	}
	return marked
}

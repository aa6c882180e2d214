package finance

import (
	"sort"
	"strings"
)

// Uncategorized is the bucket for transactions with no category tag.
const Uncategorized = "Uncategorized"

// DefaultExcludedCategories are removed from every spending-side
// aggregation: transfers and income are not spending. Matching is exact
// and case-sensitive against the stored category value.
var DefaultExcludedCategories = []string{
	"Excluded",
	"Income",
	"Gift Money",
	"Other Income",
}

// canonicalCategories collapses variant spellings seen in exports to one
// label so grouping and budget joins line up.
var canonicalCategories = map[string]string{
	"Alternative Investment":  "Alt Inv",
	"Alternative Investments": "Alt Inv",
	"Alt Investment":          "Alt Inv",
	"Alt Investments":         "Alt Inv",
}

// incomeCategories form the income bucket for net-income math. They sit
// inside the default exclusion set: income is not spending, but budget and
// health math still need it on its own side of the ledger.
var incomeCategories = map[string]bool{
	"Income":       true,
	"Gift Money":   true,
	"Other Income": true,
}

// IsIncome reports whether a category belongs to the income bucket.
func IsIncome(category string) bool {
	return incomeCategories[strings.TrimSpace(category)]
}

// CategoryPolicy decides which categories count as spending.
type CategoryPolicy struct {
	excluded map[string]bool
}

// NewCategoryPolicy builds a policy from an override list; an empty list
// means the default exclusion set.
func NewCategoryPolicy(overrides []string) CategoryPolicy {
	src := overrides
	if len(src) == 0 {
		src = DefaultExcludedCategories
	}
	excluded := make(map[string]bool, len(src))
	for _, c := range src {
		c = strings.TrimSpace(c)
		if c != "" {
			excluded[c] = true
		}
	}
	return CategoryPolicy{excluded: excluded}
}

// Normalize trims a raw category value, collapses known variant spellings,
// and maps empty to Uncategorized.
func (p CategoryPolicy) Normalize(category string) string {
	c := strings.TrimSpace(category)
	if c == "" {
		return Uncategorized
	}
	if canon, ok := canonicalCategories[c]; ok {
		return canon
	}
	return c
}

// IsExcluded reports whether a category is outside spending. The check is
// applied to the normalized value; Uncategorized is only excluded when
// explicitly listed.
func (p CategoryPolicy) IsExcluded(category string) bool {
	return p.excluded[p.Normalize(category)]
}

// Excluded returns the active exclusion set, sorted for stable output.
func (p CategoryPolicy) Excluded() []string {
	out := make([]string, 0, len(p.excluded))
	for c := range p.excluded {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// SpendingAmount converts a signed ledger amount into a spending
// magnitude: purchases (negative rows) count positive, refunds (positive
// rows) net against their category.
func SpendingAmount(signed float64) float64 {
	return -signed
}

package finance

import (
	"strings"

	"github.com/bobmcallan/moneta/internal/models"
)

// Entity labels. Account rows carry the split in balance columns; net
// worth entries carry the label directly.
const (
	EntityPersonal = "Personal"
	EntityFamily   = "Family"
	EntityTrust    = "Trust"
)

// ValidEntity reports whether s is a recognized entity label.
func ValidEntity(s string) bool {
	return s == EntityPersonal || s == EntityFamily || s == EntityTrust
}

// IsTrustCategory reports whether a category or entity label names the
// trust view.
func IsTrustCategory(category string) bool {
	return strings.Contains(strings.ToLower(category), "trust")
}

// IsTrustAccount reports whether an account belongs to the trust view by
// category name.
func IsTrustAccount(a models.Account) bool {
	return IsTrustCategory(a.Category)
}

// AccountMatchesEntity reports whether an account row appears in an
// entity's view. Personal and Family go by their balance column; Trust
// matches trust-categorized accounts or any account with a family
// balance, so the Family and Trust views can overlap. An empty entity
// matches everything.
func AccountMatchesEntity(a models.Account, entity string) bool {
	switch entity {
	case EntityPersonal:
		return a.BalancePersonal != 0
	case EntityFamily:
		return a.BalanceFamily != 0
	case EntityTrust:
		return IsTrustAccount(a) || a.BalanceFamily != 0
	}
	return true
}

// AccountEntityBalance returns the balance column an entity view reads
// from an account row: the personal or family split for those views, the
// total for Trust and for unfiltered reads.
func AccountEntityBalance(a models.Account, entity string) float64 {
	switch entity {
	case EntityPersonal:
		return a.BalancePersonal
	case EntityFamily:
		return a.BalanceFamily
	default:
		return a.BalanceTotal
	}
}

package finance

import (
	"sort"

	"github.com/bobmcallan/moneta/internal/models"
)

// LatestPerAccount reduces account history rows to the newest row per
// (institution, account_name) identity. Ties on DateUpdated break toward
// the greater ID so reruns stay deterministic. The result is sorted by
// identity.
func LatestPerAccount(rows []models.Account) []models.Account {
	latest := make(map[string]models.Account, len(rows))
	for _, row := range rows {
		cur, ok := latest[row.Identity()]
		if !ok || row.DateUpdated.After(cur.DateUpdated) ||
			(row.DateUpdated.Equal(cur.DateUpdated) && row.ID > cur.ID) {
			latest[row.Identity()] = row
		}
	}
	out := make([]models.Account, 0, len(latest))
	for _, a := range latest {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identity() < out[j].Identity() })
	return out
}

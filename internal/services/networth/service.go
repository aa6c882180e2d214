// Package networth reads balance state: point-in-time snapshots from
// account rows or dated entries, and the net-worth series over time.
package networth

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/finance"
	"github.com/bobmcallan/moneta/internal/interfaces"
	"github.com/bobmcallan/moneta/internal/models"
)

// Compile-time interface check
var _ interfaces.NetWorthService = (*Service)(nil)

// Grouping modes accepted by GetSnapshot.
const (
	GroupByCurrency = "currency"
	GroupByCategory = "category"
	GroupByEntity   = "entity"
)

// Service implements NetWorthService.
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger

	fallbackRate float64
	now          func() time.Time
}

// NewService creates a new net-worth service.
func NewService(storage interfaces.StorageManager, config *common.Config, logger *common.Logger) *Service {
	return &Service{
		storage:      storage,
		logger:       logger,
		fallbackRate: config.Finance.FallbackGBPUSD,
		now:          time.Now,
	}
}

// converter resolves the current GBPUSD rate for headline conversion.
func (s *Service) converter(ctx context.Context, userID string) (finance.Converter, error) {
	rate, err := s.storage.FX().Latest(ctx, userID)
	if err != nil {
		return finance.Converter{}, fmt.Errorf("failed to load fx rate: %w", err)
	}
	return finance.NewConverter(rate, s.fallbackRate), nil
}

func validateSnapshotGroupBy(g string) (string, error) {
	switch g {
	case "":
		return GroupByCurrency, nil
	case GroupByCurrency, GroupByCategory, GroupByEntity:
		return g, nil
	default:
		return "", fmt.Errorf("invalid group_by: %q (valid: currency, category, entity)", g)
	}
}

func validateEntity(e string) (string, error) {
	if e == "" || finance.ValidEntity(e) {
		return e, nil
	}
	return "", fmt.Errorf("invalid entity: %q (valid: Personal, Family, Trust)", e)
}

// GetSnapshot reports the user's balance position: current mode reduces
// account history to the newest row per account, historical mode reads
// the net-worth entries captured on exactly the requested date.
func (s *Service) GetSnapshot(ctx context.Context, opts interfaces.SnapshotOptions) (*models.FinancialSnapshot, error) {
	groupBy, err := validateSnapshotGroupBy(opts.GroupBy)
	if err != nil {
		return nil, err
	}
	entity, err := validateEntity(opts.Entity)
	if err != nil {
		return nil, err
	}

	if opts.AsOfDate != "" {
		asOf, err := time.Parse(time.DateOnly, opts.AsOfDate)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", opts.AsOfDate)
		}
		return s.historicalSnapshot(ctx, asOf, groupBy, entity)
	}
	return s.currentSnapshot(ctx, groupBy, entity)
}

// currentSnapshot builds the live position from latest-per-account rows.
func (s *Service) currentSnapshot(ctx context.Context, groupBy, entity string) (*models.FinancialSnapshot, error) {
	userID := common.ResolveUserID(ctx)

	conv, err := s.converter(ctx, userID)
	if err != nil {
		return nil, err
	}
	rows, err := s.storage.Accounts().ListAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	accounts := make([]models.Account, 0, len(rows))
	var newest time.Time
	for _, a := range finance.LatestPerAccount(rows) {
		if a.DateUpdated.After(newest) {
			newest = a.DateUpdated
		}
		if entity != "" && !finance.AccountMatchesEntity(a, entity) {
			continue
		}
		accounts = append(accounts, a)
	}
	if !newest.IsZero() && !common.IsFresh(newest, common.FreshnessBalanceCapture) {
		s.logger.Warn().
			Str("captured", newest.Format(time.DateOnly)).
			Msg("Newest balance capture is stale")
	}

	snapshot := &models.FinancialSnapshot{
		Entity:       entity,
		GroupBy:      groupBy,
		AccountCount: len(accounts),
	}

	// Headline totals keep each balance native and convert only across
	// the GBP/USD bridge; anything else is reported, not guessed.
	var gbpNative, usdNative float64
	unconverted := make(map[string]bool)
	for _, a := range accounts {
		bal := finance.AccountEntityBalance(a, entity)
		switch strings.ToUpper(a.Currency) {
		case finance.CurrencyGBP:
			gbpNative += bal
		case finance.CurrencyUSD:
			usdNative += bal
		default:
			unconverted[strings.ToUpper(a.Currency)] = true
		}
	}
	snapshot.NetWorthGBP = gbpNative + conv.ToGBP(usdNative)
	snapshot.NetWorthUSD = usdNative + conv.ToUSD(gbpNative)
	for c := range unconverted {
		snapshot.UnconvertedCurrencies = append(snapshot.UnconvertedCurrencies, c)
	}
	sort.Strings(snapshot.UnconvertedCurrencies)

	switch groupBy {
	case GroupByCurrency:
		snapshot.Groups = groupByCurrency(accounts, entity, conv)
	case GroupByCategory:
		snapshot.Groups = groupByCategory(accounts, entity, conv)
	case GroupByEntity:
		snapshot.Groups = groupByEntityLabels(accounts, conv)
	}

	s.logger.Info().
		Str("entity", entity).
		Str("group_by", groupBy).
		Int("accounts", len(accounts)).
		Float64("net_worth_gbp", snapshot.NetWorthGBP).
		Msg("Financial snapshot complete")

	return snapshot, nil
}

// historicalSnapshot reads the entries captured on the exact date. There
// is no nearest-date fallback: a date without a capture is a zero result.
func (s *Service) historicalSnapshot(ctx context.Context, asOf time.Time, groupBy, entity string) (*models.FinancialSnapshot, error) {
	userID := common.ResolveUserID(ctx)

	rows, err := s.storage.NetWorth().ListByDateRange(ctx, userID, asOf, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load net worth entries: %w", err)
	}

	entries := make([]models.NetWorthEntry, 0, len(rows))
	for _, e := range rows {
		if entity != "" && e.Category != entity {
			continue
		}
		entries = append(entries, e)
	}

	snapshot := &models.FinancialSnapshot{
		AsOf:         asOf.Format(time.DateOnly),
		Entity:       entity,
		GroupBy:      groupBy,
		AccountCount: len(entries),
	}
	for _, e := range entries {
		snapshot.NetWorthGBP += e.AmountGBP
		snapshot.NetWorthUSD += e.AmountUSD
	}

	switch groupBy {
	case GroupByCurrency:
		if len(entries) > 0 {
			snapshot.Groups = []models.BalanceGroup{
				{Key: finance.CurrencyGBP, NativeTotal: snapshot.NetWorthGBP, TotalGBP: snapshot.NetWorthGBP, Count: len(entries)},
				{Key: finance.CurrencyUSD, NativeTotal: snapshot.NetWorthUSD, TotalUSD: snapshot.NetWorthUSD, Count: len(entries)},
			}
		}
	case GroupByCategory, GroupByEntity:
		snapshot.Groups = groupEntriesByLabel(entries)
	}

	s.logger.Info().
		Str("as_of", snapshot.AsOf).
		Int("entries", len(entries)).
		Float64("net_worth_gbp", snapshot.NetWorthGBP).
		Msg("Historical snapshot complete")

	return snapshot, nil
}

// groupByCurrency buckets account balances by native currency. GBP and
// USD groups carry converted totals; other currencies stay native only.
func groupByCurrency(accounts []models.Account, entity string, conv finance.Converter) []models.BalanceGroup {
	type bucket struct {
		native float64
		count  int
	}
	buckets := make(map[string]*bucket)
	for _, a := range accounts {
		key := strings.ToUpper(a.Currency)
		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
		}
		b.native += finance.AccountEntityBalance(a, entity)
		b.count++
	}

	groups := make([]models.BalanceGroup, 0, len(buckets))
	for key, b := range buckets {
		g := models.BalanceGroup{Key: key, NativeTotal: b.native, Count: b.count}
		switch key {
		case finance.CurrencyGBP:
			g.TotalGBP = b.native
			g.TotalUSD = conv.ToUSD(b.native)
		case finance.CurrencyUSD:
			g.TotalGBP = conv.ToGBP(b.native)
			g.TotalUSD = b.native
		}
		groups = append(groups, g)
	}
	sortGroups(groups)
	return groups
}

// groupByCategory buckets account balances by the account category label.
// Only GBP/USD balances reach the converted totals.
func groupByCategory(accounts []models.Account, entity string, conv finance.Converter) []models.BalanceGroup {
	type bucket struct {
		gbp   float64
		usd   float64
		count int
	}
	buckets := make(map[string]*bucket)
	for _, a := range accounts {
		key := strings.TrimSpace(a.Category)
		if key == "" {
			key = finance.Uncategorized
		}
		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
		}
		addConverted(&b.gbp, &b.usd, a, finance.AccountEntityBalance(a, entity), conv)
		b.count++
	}

	groups := make([]models.BalanceGroup, 0, len(buckets))
	for key, b := range buckets {
		groups = append(groups, models.BalanceGroup{Key: key, TotalGBP: b.gbp, TotalUSD: b.usd, Count: b.count})
	}
	sortGroups(groups)
	return groups
}

// groupByEntityLabels reports the three entity views side by side, each
// reading its own balance column, so Family and Trust may overlap.
func groupByEntityLabels(accounts []models.Account, conv finance.Converter) []models.BalanceGroup {
	var groups []models.BalanceGroup
	for _, label := range []string{finance.EntityPersonal, finance.EntityFamily, finance.EntityTrust} {
		var g models.BalanceGroup
		g.Key = label
		for _, a := range accounts {
			if !finance.AccountMatchesEntity(a, label) {
				continue
			}
			addConverted(&g.TotalGBP, &g.TotalUSD, a, finance.AccountEntityBalance(a, label), conv)
			g.Count++
		}
		if g.Count > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}

// groupEntriesByLabel buckets historical entries by their entity label.
func groupEntriesByLabel(entries []models.NetWorthEntry) []models.BalanceGroup {
	type bucket struct {
		gbp   float64
		usd   float64
		count int
	}
	buckets := make(map[string]*bucket)
	for _, e := range entries {
		b := buckets[e.Category]
		if b == nil {
			b = &bucket{}
			buckets[e.Category] = b
		}
		b.gbp += e.AmountGBP
		b.usd += e.AmountUSD
		b.count++
	}

	groups := make([]models.BalanceGroup, 0, len(buckets))
	for key, b := range buckets {
		groups = append(groups, models.BalanceGroup{Key: key, TotalGBP: b.gbp, TotalUSD: b.usd, Count: b.count})
	}
	sortGroups(groups)
	return groups
}

// addConverted folds one native balance into GBP/USD accumulators where a
// conversion exists; other currencies are skipped (they surface through
// UnconvertedCurrencies instead).
func addConverted(gbp, usd *float64, a models.Account, bal float64, conv finance.Converter) {
	switch strings.ToUpper(a.Currency) {
	case finance.CurrencyGBP:
		*gbp += bal
		*usd += conv.ToUSD(bal)
	case finance.CurrencyUSD:
		*gbp += conv.ToGBP(bal)
		*usd += bal
	}
}

// sortGroups orders groups by absolute GBP total descending, ties by key,
// so the biggest balances lead regardless of sign.
func sortGroups(groups []models.BalanceGroup) {
	sort.Slice(groups, func(i, j int) bool {
		ai, aj := abs(groups[i].TotalGBP), abs(groups[j].TotalGBP)
		if ai == aj {
			return groups[i].Key < groups[j].Key
		}
		return ai > aj
	})
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

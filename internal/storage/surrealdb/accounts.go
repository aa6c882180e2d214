package surrealdb

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/models"
)

const accountSelectFields = `account_id AS id, user_id, institution, account_name,
	category, currency, balance_total_local, balance_personal_local,
	balance_family_local, date_updated`

// AccountStore implements interfaces.AccountStore using SurrealDB.
type AccountStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewAccountStore(db *surrealdb.DB, logger *common.Logger) *AccountStore {
	return &AccountStore{
		db:     db,
		logger: logger,
	}
}

func (s *AccountStore) ListAll(ctx context.Context, userID string) ([]models.Account, error) {
	sql := "SELECT " + accountSelectFields + " FROM accounts WHERE user_id = $user_id" +
		" ORDER BY date_updated ASC, account_id ASC LIMIT $limit START $start"

	out := make([]models.Account, 0)
	for start := 0; ; start += pageSize {
		vars := map[string]any{
			"user_id": userID,
			"limit":   pageSize,
			"start":   start,
		}
		results, err := surrealdb.Query[[]models.Account](ctx, s.db, sql, vars)
		if err != nil {
			return nil, fmt.Errorf("failed to list accounts: %w", err)
		}
		if results == nil || len(*results) == 0 {
			break
		}
		page := (*results)[0].Result
		out = append(out, page...)
		if len(page) < pageSize {
			break
		}
	}
	return out, nil
}

func (s *AccountStore) Put(ctx context.Context, account *models.Account) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}

	sql := `UPSERT $rid SET
		account_id = $account_id, user_id = $user_id, institution = $institution,
		account_name = $account_name, category = $category, currency = $currency,
		balance_total_local = $balance_total_local,
		balance_personal_local = $balance_personal_local,
		balance_family_local = $balance_family_local, date_updated = $date_updated`
	vars := map[string]any{
		"rid":                    surrealmodels.NewRecordID("accounts", account.ID),
		"account_id":             account.ID,
		"user_id":                account.UserID,
		"institution":            account.Institution,
		"account_name":           account.AccountName,
		"category":               account.Category,
		"currency":               account.Currency,
		"balance_total_local":    account.BalanceTotal,
		"balance_personal_local": account.BalancePersonal,
		"balance_family_local":   account.BalanceFamily,
		"date_updated":           account.DateUpdated,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[any](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save account after retries: %w", lastErr)
}

func (s *AccountStore) PutBatch(ctx context.Context, accounts []models.Account) error {
	for i := range accounts {
		if err := s.Put(ctx, &accounts[i]); err != nil {
			return err
		}
	}
	s.logger.Debug().Int("count", len(accounts)).Msg("Account batch saved")
	return nil
}

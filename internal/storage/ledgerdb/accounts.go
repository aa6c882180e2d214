package ledgerdb

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/models"
)

type accountStore struct {
	db     *badgerhold.Store
	logger *common.Logger
}

func (s *accountStore) ListAll(_ context.Context, userID string) ([]models.Account, error) {
	var rows []models.Account
	if err := s.db.Find(&rows, badgerhold.Where("UserID").Eq(userID)); err != nil {
		return nil, fmt.Errorf("failed to list accounts for user '%s': %w", userID, err)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].DateUpdated.Equal(rows[j].DateUpdated) {
			return rows[i].ID < rows[j].ID
		}
		return rows[i].DateUpdated.Before(rows[j].DateUpdated)
	})
	return rows, nil
}

func (s *accountStore) Put(_ context.Context, account *models.Account) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	if err := s.db.Upsert(account.ID, account); err != nil {
		return fmt.Errorf("failed to save account '%s': %w", account.ID, err)
	}
	return nil
}

func (s *accountStore) PutBatch(ctx context.Context, accounts []models.Account) error {
	for i := range accounts {
		if err := s.Put(ctx, &accounts[i]); err != nil {
			return err
		}
	}
	s.logger.Debug().Int("count", len(accounts)).Msg("Account batch saved")
	return nil
}

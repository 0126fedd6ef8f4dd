// Package services holds the application logic between the HTTP and AMQP
// surfaces and the storage layer: validation, ownership checks, the sync
// coordinator and the budget aggregator.
package services

import (
	"context"
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

type AccountService struct {
	repo *storage.SQLiteRepository
}

func NewAccountService(repo *storage.SQLiteRepository) *AccountService {
	return &AccountService{repo: repo}
}

func (s *AccountService) Create(ctx context.Context, a *core.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if err := s.repo.CreateAccount(ctx, a); err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (s *AccountService) Get(ctx context.Context, userID, accountID string) (core.Account, error) {
	return s.repo.GetAccount(ctx, userID, accountID)
}

func (s *AccountService) List(ctx context.Context, userID string) ([]core.Account, error) {
	return s.repo.ListAccounts(ctx, userID)
}

// Update rewrites the mutable fields of an account the owner already has.
// Balance and provider linkage are not updatable through this path.
func (s *AccountService) Update(ctx context.Context, a core.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	return s.repo.UpdateAccount(ctx, a)
}

func (s *AccountService) Delete(ctx context.Context, userID, accountID string) error {
	return s.repo.DeleteAccount(ctx, userID, accountID)
}

package services

import (
	"context"
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

type TransactionService struct {
	repo *storage.SQLiteRepository

	// reverseOnDelete enables the reversing balance delta when a
	// transaction is removed. Off by default: historically deletion left
	// the balance untouched and a provider sync fixes it up later.
	reverseOnDelete bool
}

func NewTransactionService(repo *storage.SQLiteRepository, reverseOnDelete bool) *TransactionService {
	return &TransactionService{repo: repo, reverseOnDelete: reverseOnDelete}
}

// Create records a manual entry: the transaction row and the signed
// balance delta land in one storage transaction.
func (s *TransactionService) Create(ctx context.Context, t *core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}

	// Ownership check; also rejects entries against foreign accounts.
	if _, err := s.repo.GetAccount(ctx, t.UserID, t.AccountID); err != nil {
		return err
	}

	if err := s.repo.CreateTransactionWithDelta(ctx, t); err != nil {
		return fmt.Errorf("record transaction: %w", err)
	}
	return nil
}

func (s *TransactionService) Get(ctx context.Context, userID, id string) (core.Transaction, error) {
	return s.repo.GetTransaction(ctx, userID, id)
}

func (s *TransactionService) List(ctx context.Context, userID string, f storage.TransactionFilter) ([]core.Transaction, error) {
	return s.repo.ListTransactions(ctx, userID, f)
}

func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.DeleteTransaction(ctx, userID, id, s.reverseOnDelete)
}

package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// BudgetService owns budget CRUD and the live spend aggregation. Spent
// figures are never stored; every read recomputes them from the ledger so
// imported and deleted transactions show up immediately.
type BudgetService struct {
	repo *storage.SQLiteRepository
	now  func() time.Time
}

func NewBudgetService(repo *storage.SQLiteRepository) *BudgetService {
	return &BudgetService{repo: repo, now: time.Now}
}

func (s *BudgetService) Create(ctx context.Context, b *core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := s.repo.CreateBudget(ctx, b); err != nil {
		return fmt.Errorf("create budget: %w", err)
	}
	return nil
}

func (s *BudgetService) Update(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	return s.repo.UpdateBudget(ctx, b)
}

func (s *BudgetService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.DeleteBudget(ctx, userID, id)
}

// ListWithSpent returns the owner's budgets with the current-window spend
// attached. Each budget's window starts at the period boundary as of now
// (most recent Sunday, first of month, or January 1) and the spend is the
// sum of expense transactions in that category dated on or after it. The
// per-budget sums run concurrently.
func (s *BudgetService) ListWithSpent(ctx context.Context, userID string) ([]core.BudgetWithSpent, error) {
	budgets, err := s.repo.ListBudgets(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]core.BudgetWithSpent, len(budgets))
	g, ctx := errgroup.WithContext(ctx)
	for i, b := range budgets {
		g.Go(func() error {
			since := core.PeriodStart(b.Period, now)
			cents, err := s.repo.SumExpensesSince(ctx, userID, b.Category, since)
			if err != nil {
				return fmt.Errorf("spend for budget %s: %w", b.ID, err)
			}
			out[i] = core.BudgetWithSpent{Budget: b, Spent: core.Money{Cents: cents}}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// trendMonths is how far back the monthly income/expense trend reaches,
// counting the current month.
const trendMonths = 6

type AnalyticsService struct {
	repo *storage.SQLiteRepository
	now  func() time.Time
}

func NewAnalyticsService(repo *storage.SQLiteRepository) *AnalyticsService {
	return &AnalyticsService{repo: repo, now: time.Now}
}

// Summary builds the owner-wide rollup: net worth from current balances
// (credit card balances count as debt), lifetime income/expense totals,
// the expense breakdown by category and the recent monthly trends. The
// independent queries run concurrently.
func (s *AnalyticsService) Summary(ctx context.Context, userID string) (core.AnalyticsSummary, error) {
	now := s.now()
	trendStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -(trendMonths - 1), 0)

	var (
		accounts         []core.Account
		income, expenses int64
		breakdown        []core.CategoryAmount
		trends           []core.MonthlyFlow
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.repo.ListAccounts(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		income, expenses, err = s.repo.TotalsByType(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		breakdown, err = s.repo.ExpenseBreakdown(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		trends, err = s.repo.MonthlyFlows(ctx, userID, trendStart)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.AnalyticsSummary{}, err
	}

	var netWorth int64
	summaries := make([]core.AccountSummary, 0, len(accounts))
	for _, a := range accounts {
		if a.Type == core.CreditCard {
			netWorth -= a.Balance.Cents
		} else {
			netWorth += a.Balance.Cents
		}
		summaries = append(summaries, core.AccountSummary{
			ID:      a.ID,
			Name:    a.Name,
			Type:    a.Type,
			Balance: a.Balance,
		})
	}

	return core.AnalyticsSummary{
		NetWorth:          core.Money{Cents: netWorth},
		TotalIncome:       core.Money{Cents: income},
		TotalExpenses:     core.Money{Cents: expenses},
		CategoryBreakdown: breakdown,
		MonthlyTrends:     trends,
		Accounts:          summaries,
	}, nil
}

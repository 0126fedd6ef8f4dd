package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func TestAnalyticsSummary(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewAnalyticsService(repo)
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	checking := seedAccount(t, repo, core.Account{
		UserID: "user-1", Name: "Checking", Type: core.Checking,
		Balance: core.Money{Cents: 50000},
	})
	seedAccount(t, repo, core.Account{
		UserID: "user-1", Name: "Savings", Type: core.Savings,
		Balance: core.Money{Cents: 200000},
	})
	seedAccount(t, repo, core.Account{
		UserID: "user-1", Name: "Card", Type: core.CreditCard,
		Balance: core.Money{Cents: 30000},
	})
	// Another user's account must not leak into the rollup.
	seedAccount(t, repo, core.Account{
		UserID: "user-2", Name: "Foreign", Type: core.Checking,
		Balance: core.Money{Cents: 999999},
	})

	seed := func(txnType core.TxnType, cents int64, category string, date core.Date) {
		txn := core.Transaction{
			UserID: "user-1", AccountID: checking.ID, Type: txnType,
			Amount: core.Money{Cents: cents}, Category: category,
			Description: "seed", Date: date,
		}
		require.NoError(t, repo.InsertTransaction(ctx, &txn))
	}
	seed(core.Income, 300000, "Salary", core.NewDate(2024, 3, 1))
	seed(core.Expense, 40000, "Food", core.NewDate(2024, 3, 5))
	seed(core.Expense, 60000, "Rent", core.NewDate(2024, 3, 1))
	seed(core.Expense, 10000, "Food", core.NewDate(2024, 2, 10))
	// Older than the six-month trend window but still in lifetime totals.
	seed(core.Expense, 5000, "Food", core.NewDate(2023, 6, 1))

	summary, err := svc.Summary(ctx, "user-1")
	require.NoError(t, err)

	// 500 + 2000 - 300 (credit card debt).
	assert.Equal(t, int64(220000), summary.NetWorth.Cents)
	assert.Equal(t, int64(300000), summary.TotalIncome.Cents)
	assert.Equal(t, int64(115000), summary.TotalExpenses.Cents)

	require.Len(t, summary.CategoryBreakdown, 2)
	// Largest category first.
	assert.Equal(t, "Rent", summary.CategoryBreakdown[0].Category)
	assert.Equal(t, int64(60000), summary.CategoryBreakdown[0].Amount.Cents)
	assert.Equal(t, "Food", summary.CategoryBreakdown[1].Category)
	assert.Equal(t, int64(55000), summary.CategoryBreakdown[1].Amount.Cents)

	require.Len(t, summary.MonthlyTrends, 2)
	assert.Equal(t, "2024-02", summary.MonthlyTrends[0].Month)
	assert.Equal(t, int64(10000), summary.MonthlyTrends[0].Expenses.Cents)
	assert.Equal(t, "2024-03", summary.MonthlyTrends[1].Month)
	assert.Equal(t, int64(300000), summary.MonthlyTrends[1].Income.Cents)
	assert.Equal(t, int64(100000), summary.MonthlyTrends[1].Expenses.Cents)

	require.Len(t, summary.Accounts, 3)
}

func TestAnalyticsSummaryEmpty(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewAnalyticsService(repo)

	summary, err := svc.Summary(context.Background(), "nobody")
	require.NoError(t, err)

	assert.Equal(t, int64(0), summary.NetWorth.Cents)
	assert.Equal(t, int64(0), summary.TotalIncome.Cents)
	assert.Empty(t, summary.CategoryBreakdown)
	assert.Empty(t, summary.MonthlyTrends)
	assert.Empty(t, summary.Accounts)
}

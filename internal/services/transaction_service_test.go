package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

func TestCreateTransactionAppliesBalanceDelta(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewTransactionService(repo, false)
	ctx := context.Background()

	acct := seedAccount(t, repo, core.Account{
		UserID: "user-1", Name: "Checking", Type: core.Checking,
		Balance: core.Money{Cents: 10000},
	})

	income := core.Transaction{
		UserID: "user-1", AccountID: acct.ID, Type: core.Income,
		Amount: core.Money{Cents: 5000}, Category: "Salary",
		Description: "Paycheck", Date: core.NewDate(2024, 3, 1),
	}
	require.NoError(t, svc.Create(ctx, &income))
	assert.Equal(t, int64(15000), balanceCents(t, repo, "user-1", acct.ID))

	expense := core.Transaction{
		UserID: "user-1", AccountID: acct.ID, Type: core.Expense,
		Amount: core.Money{Cents: 4000}, Category: "Food",
		Description: "Groceries", Date: core.NewDate(2024, 3, 2),
	}
	require.NoError(t, svc.Create(ctx, &expense))
	assert.Equal(t, int64(11000), balanceCents(t, repo, "user-1", acct.ID))
}

func TestCreateTransactionValidation(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewTransactionService(repo, false)
	ctx := context.Background()

	acct := seedAccount(t, repo, core.Account{
		UserID: "user-1", Name: "Checking", Type: core.Checking,
	})

	tests := []struct {
		name string
		txn  core.Transaction
	}{
		{"zero amount", core.Transaction{
			UserID: "user-1", AccountID: acct.ID, Type: core.Expense,
			Category: "Food", Description: "x", Date: core.NewDate(2024, 3, 1),
		}},
		{"empty description", core.Transaction{
			UserID: "user-1", AccountID: acct.ID, Type: core.Expense,
			Amount: core.Money{Cents: 100}, Category: "Food", Date: core.NewDate(2024, 3, 1),
		}},
		{"empty category", core.Transaction{
			UserID: "user-1", AccountID: acct.ID, Type: core.Expense,
			Amount: core.Money{Cents: 100}, Description: "x", Date: core.NewDate(2024, 3, 1),
		}},
		{"bad type", core.Transaction{
			UserID: "user-1", AccountID: acct.ID, Type: "transfer",
			Amount: core.Money{Cents: 100}, Category: "Food", Description: "x",
			Date: core.NewDate(2024, 3, 1),
		}},
		{"missing date", core.Transaction{
			UserID: "user-1", AccountID: acct.ID, Type: core.Expense,
			Amount: core.Money{Cents: 100}, Category: "Food", Description: "x",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Create(ctx, &tt.txn)
			assert.ErrorIs(t, err, core.ErrValidation)
		})
	}

	// Nothing should have changed the balance.
	assert.Equal(t, int64(0), balanceCents(t, repo, "user-1", acct.ID))
}

func TestCreateTransactionForeignAccount(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewTransactionService(repo, false)
	ctx := context.Background()

	acct := seedAccount(t, repo, core.Account{
		UserID: "owner", Name: "Checking", Type: core.Checking,
	})

	txn := core.Transaction{
		UserID: "intruder", AccountID: acct.ID, Type: core.Expense,
		Amount: core.Money{Cents: 100}, Category: "Food",
		Description: "Coffee", Date: core.NewDate(2024, 3, 1),
	}
	err := svc.Create(ctx, &txn)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestDeleteTransactionKeepsBalanceByDefault(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewTransactionService(repo, false)
	ctx := context.Background()

	acct := seedAccount(t, repo, core.Account{
		UserID: "user-1", Name: "Checking", Type: core.Checking,
		Balance: core.Money{Cents: 10000},
	})
	txn := core.Transaction{
		UserID: "user-1", AccountID: acct.ID, Type: core.Expense,
		Amount: core.Money{Cents: 2500}, Category: "Food",
		Description: "Lunch", Date: core.NewDate(2024, 3, 1),
	}
	require.NoError(t, svc.Create(ctx, &txn))
	require.Equal(t, int64(7500), balanceCents(t, repo, "user-1", acct.ID))

	require.NoError(t, svc.Delete(ctx, "user-1", txn.ID))

	// Deletion leaves the balance where it was.
	assert.Equal(t, int64(7500), balanceCents(t, repo, "user-1", acct.ID))

	_, err := svc.Get(ctx, "user-1", txn.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestDeleteTransactionReversesBalanceWhenEnabled(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewTransactionService(repo, true)
	ctx := context.Background()

	acct := seedAccount(t, repo, core.Account{
		UserID: "user-1", Name: "Checking", Type: core.Checking,
		Balance: core.Money{Cents: 10000},
	})
	txn := core.Transaction{
		UserID: "user-1", AccountID: acct.ID, Type: core.Expense,
		Amount: core.Money{Cents: 2500}, Category: "Food",
		Description: "Lunch", Date: core.NewDate(2024, 3, 1),
	}
	require.NoError(t, svc.Create(ctx, &txn))
	require.NoError(t, svc.Delete(ctx, "user-1", txn.ID))

	assert.Equal(t, int64(10000), balanceCents(t, repo, "user-1", acct.ID))
}

func TestListTransactionsFilters(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewTransactionService(repo, false)
	ctx := context.Background()

	a1 := seedAccount(t, repo, core.Account{UserID: "user-1", Name: "A", Type: core.Checking})
	a2 := seedAccount(t, repo, core.Account{UserID: "user-1", Name: "B", Type: core.Savings})

	mk := func(acctID, category, desc string, day int) {
		txn := core.Transaction{
			UserID: "user-1", AccountID: acctID, Type: core.Expense,
			Amount: core.Money{Cents: 1000}, Category: category,
			Description: desc, Date: core.NewDate(2024, 3, day),
		}
		require.NoError(t, svc.Create(ctx, &txn))
	}
	mk(a1.ID, "Food", "Lunch", 1)
	mk(a1.ID, "Travel", "Bus", 5)
	mk(a2.ID, "Food", "Dinner", 3)

	all, err := svc.List(ctx, "user-1", storage.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Newest day first.
	assert.Equal(t, "Bus", all[0].Description)

	byAccount, err := svc.List(ctx, "user-1", storage.TransactionFilter{AccountID: a2.ID})
	require.NoError(t, err)
	require.Len(t, byAccount, 1)
	assert.Equal(t, "Dinner", byAccount[0].Description)

	byCategory, err := svc.List(ctx, "user-1", storage.TransactionFilter{Category: "Food"})
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	limited, err := svc.List(ctx, "user-1", storage.TransactionFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	other, err := svc.List(ctx, "someone-else", storage.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, other)
}

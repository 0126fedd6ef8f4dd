package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/provider"
	"fintrack/internal/storage"
)

// fixedNow anchors the sync window so seeded dates stay inside it.
var fixedNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func newSyncFixture(t *testing.T) (*SyncService, *storage.SQLiteRepository, *provider.StubFeed, core.Account) {
	t.Helper()
	repo := newTestRepo(t)
	feed := provider.NewStubFeed()

	acct := seedAccount(t, repo, core.Account{
		UserID: "user-1", Name: "Linked Checking", Type: core.Checking,
		Balance:             core.Money{Cents: 10000},
		ProviderAccessToken: "access-1",
		ProviderAccountID:   "ext-1",
	})
	feed.SetBalance("access-1", "ext-1", decimal.NewFromFloat(123.45))

	svc := NewSyncService(repo, feed, nil, 30)
	svc.now = func() time.Time { return fixedNow }
	return svc, repo, feed, acct
}

func TestSyncAccountImportsAndOverwritesBalance(t *testing.T) {
	svc, repo, feed, acct := newSyncFixture(t)
	ctx := context.Background()

	feed.SeedTransactions("access-1",
		provider.ExternalTransaction{
			AccountID: "ext-1", Amount: decimal.NewFromFloat(25.50),
			Name: "Grocery Store", Categories: []string{"Food", "Groceries"},
			Date: core.NewDate(2024, 3, 10),
		},
		provider.ExternalTransaction{
			AccountID: "ext-1", Amount: decimal.NewFromFloat(-1500),
			Name: "Employer Payroll", Categories: nil,
			Date: core.NewDate(2024, 3, 1),
		},
		// Different external account behind the same token: ignored.
		provider.ExternalTransaction{
			AccountID: "ext-other", Amount: decimal.NewFromFloat(9.99),
			Name: "Subscription", Date: core.NewDate(2024, 3, 5),
		},
	)

	imported, err := svc.SyncAccount(ctx, "user-1", acct.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, imported)

	txns, err := repo.ListTransactions(ctx, "user-1", storage.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txns, 2)

	// Provider positive amount becomes an expense, negative an income.
	byDesc := map[string]core.Transaction{}
	for _, txn := range txns {
		byDesc[txn.Description] = txn
	}
	grocery := byDesc["Grocery Store"]
	assert.Equal(t, core.Expense, grocery.Type)
	assert.Equal(t, int64(2550), grocery.Amount.Cents)
	assert.Equal(t, "Food", grocery.Category)

	payroll := byDesc["Employer Payroll"]
	assert.Equal(t, core.Income, payroll.Type)
	assert.Equal(t, int64(150000), payroll.Amount.Cents)
	assert.Equal(t, "Other", payroll.Category)

	// Balance is overwritten with the provider figure, not patched with
	// per-transaction deltas.
	assert.Equal(t, int64(12345), balanceCents(t, repo, "user-1", acct.ID))
}

func TestSyncAccountIdempotent(t *testing.T) {
	svc, repo, feed, acct := newSyncFixture(t)
	ctx := context.Background()

	feed.SeedTransactions("access-1",
		provider.ExternalTransaction{
			AccountID: "ext-1", Amount: decimal.NewFromFloat(12.00),
			Name: "Coffee Shop", Categories: []string{"Food"},
			Date: core.NewDate(2024, 3, 12),
		},
	)

	imported, err := svc.SyncAccount(ctx, "user-1", acct.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, imported)

	imported, err = svc.SyncAccount(ctx, "user-1", acct.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, imported)

	txns, err := repo.ListTransactions(ctx, "user-1", storage.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, txns, 1)
}

func TestSyncAccountDedupAgainstManualEntry(t *testing.T) {
	svc, repo, feed, acct := newSyncFixture(t)
	ctx := context.Background()

	// The user already entered the purchase by hand. The stored row is an
	// expense with a positive amount; the provider sends the same
	// description, magnitude and day, so it must not import again.
	manual := core.Transaction{
		UserID: "user-1", AccountID: acct.ID, Type: core.Expense,
		Amount: core.Money{Cents: 450}, Category: "Food",
		Description: "Coffee Shop", Date: core.NewDate(2024, 3, 12),
	}
	require.NoError(t, repo.InsertTransaction(ctx, &manual))

	feed.SeedTransactions("access-1",
		provider.ExternalTransaction{
			AccountID: "ext-1", Amount: decimal.NewFromFloat(4.50),
			Name: "Coffee Shop", Categories: []string{"Food"},
			Date: core.NewDate(2024, 3, 12),
		},
	)

	imported, err := svc.SyncAccount(ctx, "user-1", acct.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, imported)
}

func TestSyncAccountWindowExcludesOldRecords(t *testing.T) {
	svc, repo, feed, acct := newSyncFixture(t)
	ctx := context.Background()

	feed.SeedTransactions("access-1",
		provider.ExternalTransaction{
			AccountID: "ext-1", Amount: decimal.NewFromFloat(10),
			Name: "Inside Window", Categories: []string{"Misc"},
			Date: core.NewDate(2024, 2, 14), // exactly 30 days back
		},
		provider.ExternalTransaction{
			AccountID: "ext-1", Amount: decimal.NewFromFloat(10),
			Name: "Outside Window", Categories: []string{"Misc"},
			Date: core.NewDate(2024, 2, 13),
		},
	)

	imported, err := svc.SyncAccount(ctx, "user-1", acct.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, imported)

	txns, err := repo.ListTransactions(ctx, "user-1", storage.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "Inside Window", txns[0].Description)
}

func TestSyncAccountSkipsMalformedRecords(t *testing.T) {
	svc, _, feed, acct := newSyncFixture(t)
	ctx := context.Background()

	feed.SeedTransactions("access-1",
		provider.ExternalTransaction{
			AccountID: "ext-1", Amount: decimal.Zero, // amountless
			Name: "Pending Hold", Categories: []string{"Misc"},
			Date: core.NewDate(2024, 3, 10),
		},
		provider.ExternalTransaction{
			AccountID: "ext-1", Amount: decimal.NewFromFloat(5), // nameless
			Name: "", Categories: []string{"Misc"},
			Date: core.NewDate(2024, 3, 10),
		},
		provider.ExternalTransaction{
			AccountID: "ext-1", Amount: decimal.NewFromFloat(5),
			Name: "Good Record", Categories: []string{"Misc"},
			Date: core.NewDate(2024, 3, 10),
		},
	)

	imported, err := svc.SyncAccount(ctx, "user-1", acct.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, imported)
}

func TestSyncAccountNotLinked(t *testing.T) {
	svc, repo, _, _ := newSyncFixture(t)
	ctx := context.Background()

	manual := seedAccount(t, repo, core.Account{
		UserID: "user-1", Name: "Cash", Type: core.Checking,
	})

	_, err := svc.SyncAccount(ctx, "user-1", manual.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestSyncAccountProviderFailureLeavesStateAlone(t *testing.T) {
	svc, repo, feed, acct := newSyncFixture(t)
	ctx := context.Background()

	feed.Fail = errors.New("provider down")

	_, err := svc.SyncAccount(ctx, "user-1", acct.ID)
	require.Error(t, err)

	txns, err := repo.ListTransactions(ctx, "user-1", storage.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, txns)
	assert.Equal(t, int64(10000), balanceCents(t, repo, "user-1", acct.ID))
}

func TestSyncAccountMissingBalanceKeepsStoredValue(t *testing.T) {
	repo := newTestRepo(t)
	feed := provider.NewStubFeed()

	// Linked account whose balance the provider never reports.
	acct := seedAccount(t, repo, core.Account{
		UserID: "user-1", Name: "Stale Link", Type: core.Checking,
		Balance:             core.Money{Cents: 7777},
		ProviderAccessToken: "access-1",
		ProviderAccountID:   "ext-gone",
	})
	feed.SeedTransactions("access-1",
		provider.ExternalTransaction{
			AccountID: "ext-gone", Amount: decimal.NewFromFloat(3),
			Name: "Tail Record", Categories: []string{"Misc"},
			Date: core.NewDate(2024, 3, 10),
		},
	)

	svc := NewSyncService(repo, feed, nil, 30)
	svc.now = func() time.Time { return fixedNow }

	imported, err := svc.SyncAccount(context.Background(), "user-1", acct.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, imported)

	// Imported rows land, the balance keeps its stored value.
	assert.Equal(t, int64(7777), balanceCents(t, repo, "user-1", acct.ID))
}

type recordingPublisher struct {
	userID, accountID string
	imported          int
	calls             int
}

func (p *recordingPublisher) PublishSyncCompleted(_ context.Context, userID, accountID string, imported int) error {
	p.userID, p.accountID, p.imported = userID, accountID, imported
	p.calls++
	return nil
}

func TestSyncAccountPublishesCompletionEvent(t *testing.T) {
	svc, _, feed, acct := newSyncFixture(t)
	pub := &recordingPublisher{}
	svc.events = pub

	feed.SeedTransactions("access-1",
		provider.ExternalTransaction{
			AccountID: "ext-1", Amount: decimal.NewFromFloat(8),
			Name: "Bakery", Categories: []string{"Food"},
			Date: core.NewDate(2024, 3, 14),
		},
	)

	imported, err := svc.SyncAccount(context.Background(), "user-1", acct.ID)
	require.NoError(t, err)
	require.Equal(t, 1, imported)

	assert.Equal(t, 1, pub.calls)
	assert.Equal(t, "user-1", pub.userID)
	assert.Equal(t, acct.ID, pub.accountID)
	assert.Equal(t, 1, pub.imported)
}

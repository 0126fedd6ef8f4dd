package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/provider"
	"fintrack/internal/storage"
)

// fallbackCategory is used when the provider sends no category list.
const fallbackCategory = "Other"

// SyncEventPublisher fans out a completed-sync notification. The AMQP
// client satisfies it; a nil publisher disables the fan-out.
type SyncEventPublisher interface {
	PublishSyncCompleted(ctx context.Context, userID, accountID string, imported int) error
}

// SyncService is the coordinator between the bank feed and the ledger: it
// pulls the trailing window of provider records, deduplicates them against
// stored rows, inserts the new ones with the sign convention flipped, and
// finally overwrites the account balance with the provider-reported figure.
type SyncService struct {
	repo       *storage.SQLiteRepository
	feed       provider.BankFeed
	events     SyncEventPublisher
	windowDays int

	// One mutex per account id serializes concurrent syncs of the same
	// account; the dedup check and insert are not atomic across two
	// uncoordinated runs.
	mu    sync.Mutex
	locks map[string]*sync.Mutex

	now func() time.Time
}

func NewSyncService(repo *storage.SQLiteRepository, feed provider.BankFeed, events SyncEventPublisher, windowDays int) *SyncService {
	return &SyncService{
		repo:       repo,
		feed:       feed,
		events:     events,
		windowDays: windowDays,
		locks:      make(map[string]*sync.Mutex),
		now:        time.Now,
	}
}

func (s *SyncService) accountLock(accountID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[accountID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[accountID] = lock
	}
	return lock
}

// SyncAccount runs one sync pass for a linked account and returns how many
// transactions it imported. Records already present (same description,
// amount and day on the account) are skipped, so rerunning is safe. When
// the provider fails partway the rows inserted so far stay in the ledger
// and the balance is left untouched; the next successful pass reconciles
// it.
func (s *SyncService) SyncAccount(ctx context.Context, userID, accountID string) (int, error) {
	account, err := s.repo.GetAccount(ctx, userID, accountID)
	if err != nil {
		return 0, err
	}
	if !account.Linked() {
		return 0, fmt.Errorf("account %s is not linked to a bank provider: %w", accountID, core.ErrNotFound)
	}

	lock := s.accountLock(account.ID)
	lock.Lock()
	defer lock.Unlock()

	now := s.now()
	end := core.DateOf(now)
	start := core.DateOf(now.AddDate(0, 0, -s.windowDays))

	records, err := s.feed.Transactions(ctx, account.ProviderAccessToken, start, end)
	if err != nil {
		return 0, fmt.Errorf("fetch provider transactions: %w", err)
	}

	imported := 0
	for _, rec := range records {
		if rec.AccountID != account.ProviderAccountID {
			continue
		}

		t, ok := s.toTransaction(ctx, account, rec)
		if !ok {
			continue
		}

		exists, err := s.repo.TransactionExists(ctx, userID, account.ID, t.Description, t.Amount.Cents, t.Date)
		if err != nil {
			return imported, err
		}
		if exists {
			continue
		}

		if err := s.repo.InsertTransaction(ctx, &t); err != nil {
			return imported, fmt.Errorf("import transaction: %w", err)
		}
		imported++
	}

	balance, ok, err := s.feed.Balance(ctx, account.ProviderAccessToken, account.ProviderAccountID)
	if err != nil {
		return imported, fmt.Errorf("fetch provider balance: %w", err)
	}
	if ok {
		cents := core.MoneyFromDecimal(balance).Cents
		if err := s.repo.OverwriteBalance(ctx, userID, account.ID, cents); err != nil {
			return imported, err
		}
	} else {
		slog.WarnContext(ctx, "Provider no longer reports account balance, keeping stored value",
			"account_id", account.ID)
	}

	slog.InfoContext(ctx, "Account sync completed",
		"account_id", account.ID,
		"imported", imported,
		"window_start", start.String(),
		"window_end", end.String())

	if s.events != nil {
		if err := s.events.PublishSyncCompleted(ctx, userID, account.ID, imported); err != nil {
			slog.WarnContext(ctx, "Failed to publish sync completed event", "error", err)
		}
	}
	return imported, nil
}

// toTransaction maps one provider record to a ledger transaction. The
// provider signs amounts from the bank's perspective: positive means money
// left the account, so positive becomes an expense and negative an income.
// Records that cannot form a valid transaction are skipped, not fatal.
func (s *SyncService) toTransaction(ctx context.Context, account core.Account, rec provider.ExternalTransaction) (core.Transaction, bool) {
	txnType := core.Expense
	amount := rec.Amount
	if rec.Amount.Sign() < 0 {
		txnType = core.Income
		amount = rec.Amount.Neg()
	}

	category := fallbackCategory
	if len(rec.Categories) > 0 && rec.Categories[0] != "" {
		category = rec.Categories[0]
	}

	t := core.Transaction{
		UserID:      account.UserID,
		AccountID:   account.ID,
		Type:        txnType,
		Amount:      core.MoneyFromDecimal(amount),
		Category:    category,
		Description: rec.Name,
		Date:        rec.Date,
	}
	if err := t.Validate(); err != nil {
		slog.WarnContext(ctx, "Skipping malformed provider record",
			"account_id", account.ID,
			"description", rec.Name,
			"error", err)
		return core.Transaction{}, false
	}
	return t, true
}

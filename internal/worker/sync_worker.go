// Package worker runs background account syncs: on-demand ones requested
// over AMQP and a periodic sweep over every linked account.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

type SyncWorker struct {
	repo        *storage.SQLiteRepository
	sync        *services.SyncService
	client      *amqp.Client
	interval    time.Duration
	concurrency int
}

func NewSyncWorker(repo *storage.SQLiteRepository, sync *services.SyncService, client *amqp.Client, interval time.Duration, concurrency int) *SyncWorker {
	return &SyncWorker{
		repo:        repo,
		sync:        sync,
		client:      client,
		interval:    interval,
		concurrency: concurrency,
	}
}

// Run blocks until the context is cancelled. The AMQP consumer and the
// periodic sweep run side by side; without an AMQP client only the sweep
// runs.
func (w *SyncWorker) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if w.client != nil {
		g.Go(func() error {
			err := w.client.ConsumeSyncRequests(ctx, w.handleSyncRequest)
			if err != nil && ctx.Err() == nil {
				return fmt.Errorf("consume sync requests: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		w.runPeriodicSweep(ctx)
		return nil
	})

	return g.Wait()
}

func (w *SyncWorker) handleSyncRequest(ctx context.Context, msg *amqp.SyncRequestMessage) error {
	imported, err := w.sync.SyncAccount(ctx, msg.UserID, msg.AccountID)
	if err != nil {
		return fmt.Errorf("sync account %s: %w", msg.AccountID, err)
	}
	slog.InfoContext(ctx, "Requested sync finished",
		"account_id", msg.AccountID,
		"imported", imported)
	return nil
}

func (w *SyncWorker) runPeriodicSweep(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Periodic sync sweep started", "interval", w.interval)

	// First sweep right away instead of waiting a full interval.
	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Periodic sync sweep stopped", "reason", ctx.Err())
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// sweep syncs every linked account, a bounded number at a time. One
// account failing does not stop the others: failures are logged and the
// sweep carries on.
func (w *SyncWorker) sweep(ctx context.Context) {
	accounts, err := w.repo.ListLinkedAccounts(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list linked accounts", "error", err)
		return
	}
	if len(accounts) == 0 {
		return
	}

	slog.InfoContext(ctx, "Sweeping linked accounts", "count", len(accounts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for _, account := range accounts {
		g.Go(func() error {
			if _, err := w.sync.SyncAccount(ctx, account.UserID, account.ID); err != nil {
				slog.ErrorContext(ctx, "Account sync failed during sweep",
					"account_id", account.ID,
					"error", err)
			}
			return nil
		})
	}
	g.Wait()
}

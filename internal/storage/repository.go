// Package storage persists the ledger in SQLite: accounts, transactions
// and budgets, all scoped by owner. It also carries the balance
// maintainer, which is the only code allowed to touch a stored balance.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const accountColumns = `id, user_id, name, type, balance_cents, institution, last_four,
	provider_access_token, provider_account_id, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (core.Account, error) {
	var a core.Account
	var balanceCents int64
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &balanceCents, &a.Institution,
		&a.LastFour, &a.ProviderAccessToken, &a.ProviderAccountID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return core.Account{}, err
	}
	a.Balance = core.Money{Cents: balanceCents}
	return a, nil
}

// CreateAccount inserts a new account and fills in its id and timestamps.
func (r *SQLiteRepository) CreateAccount(ctx context.Context, a *core.Account) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, user_id, name, type, balance_cents, institution, last_four,
			provider_access_token, provider_account_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.Name, a.Type, a.Balance.Cents, a.Institution, a.LastFour,
		a.ProviderAccessToken, a.ProviderAccountID, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}

	slog.InfoContext(ctx, "Account created",
		"account_id", a.ID,
		"user_id", a.UserID,
		"type", a.Type,
		"linked", a.Linked())
	return nil
}

// GetAccount resolves an account scoped to its owner.
func (r *SQLiteRepository) GetAccount(ctx context.Context, userID, accountID string) (core.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ? AND user_id = ?`,
		accountID, userID)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, fmt.Errorf("account %s: %w", accountID, core.ErrNotFound)
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context, userID string) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// ListLinkedAccounts returns every provider-linked account across all
// owners; the background worker iterates these for periodic syncs.
func (r *SQLiteRepository) ListLinkedAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts
		 WHERE provider_access_token != '' AND provider_account_id != ''
		 ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list linked accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// UpdateAccount rewrites the mutable account fields; the balance is not
// touched here, only the maintainer operations below may change it.
func (r *SQLiteRepository) UpdateAccount(ctx context.Context, a core.Account) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts SET name = ?, type = ?, institution = ?, last_four = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		a.Name, a.Type, a.Institution, a.LastFour, time.Now().UTC(), a.ID, a.UserID)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return requireRow(res, a.ID)
}

// DeleteAccount removes the account row. Transactions referencing it are
// left in place; see the design notes for the orphan question.
func (r *SQLiteRepository) DeleteAccount(ctx context.Context, userID, accountID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM accounts WHERE id = ? AND user_id = ?`, accountID, userID)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return requireRow(res, accountID)
}

// ApplyBalanceDelta adds a signed amount to the stored balance. This is
// the manual-entry path of the balance maintainer; the single UPDATE makes
// concurrent deltas on one account commute instead of losing writes.
func (r *SQLiteRepository) ApplyBalanceDelta(ctx context.Context, userID, accountID string, deltaCents int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts SET balance_cents = balance_cents + ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		deltaCents, time.Now().UTC(), accountID, userID)
	if err != nil {
		return fmt.Errorf("apply balance delta: %w", err)
	}
	return requireRow(res, accountID)
}

// OverwriteBalance replaces the stored balance with the provider-reported
// figure. Overwrite always wins against concurrent deltas; the provider
// value is authoritative after a sync.
func (r *SQLiteRepository) OverwriteBalance(ctx context.Context, userID, accountID string, cents int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts SET balance_cents = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		cents, time.Now().UTC(), accountID, userID)
	if err != nil {
		return fmt.Errorf("overwrite balance: %w", err)
	}
	return requireRow(res, accountID)
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("account %s: %w", id, core.ErrNotFound)
	}
	return nil
}

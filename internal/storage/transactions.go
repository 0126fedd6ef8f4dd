package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

const txnColumns = `id, user_id, account_id, type, amount_cents, category, description,
	txn_date, created_at, updated_at`

func scanTransaction(row interface{ Scan(...any) error }) (core.Transaction, error) {
	var t core.Transaction
	var amountCents int64
	var date string
	err := row.Scan(&t.ID, &t.UserID, &t.AccountID, &t.Type, &amountCents, &t.Category,
		&t.Description, &date, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return core.Transaction{}, err
	}
	t.Amount = core.Money{Cents: amountCents}
	t.Date, err = core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("stored date %q: %w", date, err)
	}
	return t, nil
}

func insertTransaction(ctx context.Context, execer interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
}, t *core.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now

	_, err := execer.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, account_id, type, amount_cents, category,
			description, txn_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.AccountID, t.Type, t.Amount.Cents, t.Category,
		t.Description, t.Date.String(), t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// InsertTransaction stores a transaction without touching the account
// balance. The sync path uses this: the balance is reconciled afterwards
// by a full overwrite from the provider.
func (r *SQLiteRepository) InsertTransaction(ctx context.Context, t *core.Transaction) error {
	return insertTransaction(ctx, r.db, t)
}

// CreateTransactionWithDelta inserts a transaction and applies its signed
// amount to the account balance as one unit of work: either both effects
// commit or neither does.
func (r *SQLiteRepository) CreateTransactionWithDelta(ctx context.Context, t *core.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertTransaction(ctx, tx, t); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE accounts SET balance_cents = balance_cents + ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		t.SignedCents(), time.Now().UTC(), t.AccountID, t.UserID)
	if err != nil {
		return fmt.Errorf("apply balance delta: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("account %s: %w", t.AccountID, core.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction recorded",
		"transaction_id", t.ID,
		"account_id", t.AccountID,
		"type", t.Type,
		"amount_cents", t.Amount.Cents)
	return nil
}

// TransactionExists is the dedup matcher: an incoming external record is a
// duplicate when description, unsigned amount and calendar day all match
// an existing row on the same account. Deliberately ignores any provider
// transaction id so the key survives provider id churn.
func (r *SQLiteRepository) TransactionExists(ctx context.Context, userID, accountID, description string, amountCents int64, date core.Date) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM transactions
			WHERE user_id = ? AND account_id = ? AND description = ?
			  AND amount_cents = ? AND txn_date = ?
		)`,
		userID, accountID, description, amountCents, date.String()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check transaction exists: %w", err)
	}
	return exists, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+txnColumns+` FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// TransactionFilter narrows ListTransactions; zero values mean no filter.
type TransactionFilter struct {
	AccountID string
	Category  string
	Limit     int
}

// ListTransactions returns the owner's transactions, newest day first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID string, f TransactionFilter) ([]core.Transaction, error) {
	query := `SELECT ` + txnColumns + ` FROM transactions WHERE user_id = ?`
	args := []any{userID}
	if f.AccountID != "" {
		query += ` AND account_id = ?`
		args = append(args, f.AccountID)
	}
	if f.Category != "" {
		query += ` AND category = ?`
		args = append(args, f.Category)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` ORDER BY txn_date DESC, created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// DeleteTransaction removes a transaction. When reverseBalance is set the
// account balance gets the opposite delta in the same unit of work;
// otherwise the balance is intentionally left as-is, matching the historic
// behavior the product has not yet decided to change.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id string, reverseBalance bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+txnColumns+` FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("get transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	if reverseBalance {
		if _, err := tx.ExecContext(ctx, `
			UPDATE accounts SET balance_cents = balance_cents + ?, updated_at = ?
			WHERE id = ? AND user_id = ?`,
			-t.SignedCents(), time.Now().UTC(), t.AccountID, userID); err != nil {
			return fmt.Errorf("reverse balance delta: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}

	slog.InfoContext(ctx, "Transaction deleted",
		"transaction_id", id,
		"account_id", t.AccountID,
		"balance_reversed", reverseBalance)
	return nil
}

package storage

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/core"
)

// TotalsByType returns lifetime income and expense totals for an owner.
func (r *SQLiteRepository) TotalsByType(ctx context.Context, userID string) (incomeCents, expenseCents int64, err error) {
	err = r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount_cents ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount_cents ELSE 0 END), 0)
		FROM transactions WHERE user_id = ?`, userID).Scan(&incomeCents, &expenseCents)
	if err != nil {
		return 0, 0, fmt.Errorf("totals by type: %w", err)
	}
	return incomeCents, expenseCents, nil
}

// ExpenseBreakdown returns expense totals grouped by category, largest first.
func (r *SQLiteRepository) ExpenseBreakdown(ctx context.Context, userID string) ([]core.CategoryAmount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category, SUM(amount_cents) FROM transactions
		WHERE user_id = ? AND type = 'expense'
		GROUP BY category ORDER BY SUM(amount_cents) DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("expense breakdown: %w", err)
	}
	defer rows.Close()

	var breakdown []core.CategoryAmount
	for rows.Next() {
		var ca core.CategoryAmount
		var cents int64
		if err := rows.Scan(&ca.Category, &cents); err != nil {
			return nil, fmt.Errorf("scan breakdown row: %w", err)
		}
		ca.Amount = core.Money{Cents: cents}
		breakdown = append(breakdown, ca)
	}
	return breakdown, rows.Err()
}

// MonthlyFlows buckets income and expenses by calendar month for
// transactions dated on or after the boundary.
func (r *SQLiteRepository) MonthlyFlows(ctx context.Context, userID string, since time.Time) ([]core.MonthlyFlow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT substr(txn_date, 1, 7) AS month,
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount_cents ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount_cents ELSE 0 END), 0)
		FROM transactions
		WHERE user_id = ? AND txn_date >= ?
		GROUP BY month ORDER BY month`, userID, since.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("monthly flows: %w", err)
	}
	defer rows.Close()

	var flows []core.MonthlyFlow
	for rows.Next() {
		var f core.MonthlyFlow
		var income, expenses int64
		if err := rows.Scan(&f.Month, &income, &expenses); err != nil {
			return nil, fmt.Errorf("scan monthly flow: %w", err)
		}
		f.Income = core.Money{Cents: income}
		f.Expenses = core.Money{Cents: expenses}
		flows = append(flows, f)
	}
	return flows, rows.Err()
}

package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

func newTestRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedAccount(t *testing.T, repo *storage.SQLiteRepository, a core.Account) core.Account {
	t.Helper()
	require.NoError(t, repo.CreateAccount(context.Background(), &a))
	return a
}

func balanceCents(t *testing.T, repo *storage.SQLiteRepository, userID, accountID string) int64 {
	t.Helper()
	a, err := repo.GetAccount(context.Background(), userID, accountID)
	require.NoError(t, err)
	return a.Balance.Cents
}

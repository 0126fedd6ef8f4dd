package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/provider"
)

func TestExchangeTokenCreatesLinkedAccounts(t *testing.T) {
	repo := newTestRepo(t)
	feed := provider.NewStubFeed()
	svc := NewLinkService(repo, feed)
	ctx := context.Background()

	feed.SeedToken("public-1", "access-1")
	feed.SeedAccount("access-1", provider.ExternalAccount{
		ID: "ext-chk", Name: "Everyday Checking", Mask: "1234",
		Type: "depository", Subtype: "checking",
		Balance: decimal.NewFromFloat(1500.25),
	})
	feed.SeedAccount("access-1", provider.ExternalAccount{
		ID: "ext-sav", Name: "Rainy Day", Mask: "5678",
		Type: "depository", Subtype: "savings",
		Balance: decimal.NewFromFloat(9000),
	})
	feed.SeedAccount("access-1", provider.ExternalAccount{
		ID: "ext-cc", Name: "Rewards Card", Mask: "9999",
		Type: "credit", Subtype: "credit card",
		Balance: decimal.NewFromFloat(420.42),
	})

	accounts, err := svc.ExchangeToken(ctx, "user-1", "public-1", "First Bank")
	require.NoError(t, err)
	require.Len(t, accounts, 3)

	byExt := map[string]core.Account{}
	for _, a := range accounts {
		byExt[a.ProviderAccountID] = a
	}

	chk := byExt["ext-chk"]
	assert.Equal(t, core.Checking, chk.Type)
	assert.Equal(t, int64(150025), chk.Balance.Cents)
	assert.Equal(t, "1234", chk.LastFour)
	assert.Equal(t, "First Bank", chk.Institution)
	assert.True(t, chk.Linked())

	assert.Equal(t, core.Savings, byExt["ext-sav"].Type)
	assert.Equal(t, core.CreditCard, byExt["ext-cc"].Type)

	// All three are visible to the background worker.
	linked, err := repo.ListLinkedAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, linked, 3)
}

func TestExchangeTokenUnknownToken(t *testing.T) {
	repo := newTestRepo(t)
	feed := provider.NewStubFeed()
	svc := NewLinkService(repo, feed)

	_, err := svc.ExchangeToken(context.Background(), "user-1", "bogus", "First Bank")
	assert.ErrorIs(t, err, core.ErrUpstream)
}

func TestMapAccountType(t *testing.T) {
	tests := []struct {
		extType, subtype string
		want             core.AccountType
	}{
		{"depository", "checking", core.Checking},
		{"depository", "savings", core.Savings},
		{"credit", "credit card", core.CreditCard},
		{"investment", "brokerage", core.Investment},
		{"loan", "mortgage", core.Checking},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, provider.MapAccountType(tt.extType, tt.subtype),
			"%s/%s", tt.extType, tt.subtype)
	}
}

package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
	"fintrack/internal/provider"
	"fintrack/internal/storage"
)

type LinkService struct {
	repo *storage.SQLiteRepository
	feed provider.BankFeed
}

func NewLinkService(repo *storage.SQLiteRepository, feed provider.BankFeed) *LinkService {
	return &LinkService{repo: repo, feed: feed}
}

// ExchangeToken completes the link flow: the public token from the
// client-side widget is traded for an access token, every account behind
// it is discovered and stored with provider linkage and the reported
// starting balance.
func (s *LinkService) ExchangeToken(ctx context.Context, userID, publicToken, institution string) ([]core.Account, error) {
	accessToken, err := s.feed.ExchangeToken(ctx, publicToken)
	if err != nil {
		return nil, fmt.Errorf("exchange public token: %w", err)
	}

	external, err := s.feed.Accounts(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("list provider accounts: %w", err)
	}

	accounts := make([]core.Account, 0, len(external))
	for _, ext := range external {
		a := core.Account{
			UserID:              userID,
			Name:                ext.Name,
			Type:                provider.MapAccountType(ext.Type, ext.Subtype),
			Balance:             core.MoneyFromDecimal(ext.Balance),
			Institution:         institution,
			LastFour:            ext.Mask,
			ProviderAccessToken: accessToken,
			ProviderAccountID:   ext.ID,
		}
		if err := s.repo.CreateAccount(ctx, &a); err != nil {
			return nil, fmt.Errorf("store linked account: %w", err)
		}
		accounts = append(accounts, a)
	}

	slog.InfoContext(ctx, "Linked provider accounts",
		"user_id", userID,
		"institution", institution,
		"count", len(accounts))
	return accounts, nil
}

package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// StubFeed is an in-memory BankFeed for local development and tests.
// Feed contents are keyed by access token, the way the real provider
// scopes everything to an item.
type StubFeed struct {
	mu       sync.Mutex
	accounts map[string][]ExternalAccount     // access token -> accounts
	txns     map[string][]ExternalTransaction // access token -> records
	balances map[string]decimal.Decimal       // access token + external id -> balance
	tokens   map[string]string                // public token -> access token

	// Fail, when set, makes every call return that error.
	Fail error
}

func NewStubFeed() *StubFeed {
	return &StubFeed{
		accounts: make(map[string][]ExternalAccount),
		txns:     make(map[string][]ExternalTransaction),
		balances: make(map[string]decimal.Decimal),
		tokens:   make(map[string]string),
	}
}

func balanceKey(accessToken, externalID string) string {
	return accessToken + "/" + externalID
}

// SeedToken registers a public token exchangeable for an access token.
func (s *StubFeed) SeedToken(publicToken, accessToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[publicToken] = accessToken
}

// SeedAccount registers an external account behind an access token.
func (s *StubFeed) SeedAccount(accessToken string, a ExternalAccount) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[accessToken] = append(s.accounts[accessToken], a)
	s.balances[balanceKey(accessToken, a.ID)] = a.Balance
}

// SeedTransactions replaces the feed window for an access token.
func (s *StubFeed) SeedTransactions(accessToken string, txns ...ExternalTransaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txns[accessToken] = txns
}

// SetBalance updates the reported balance for one external account.
func (s *StubFeed) SetBalance(accessToken, externalID string, balance decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[balanceKey(accessToken, externalID)] = balance
}

func (s *StubFeed) ExchangeToken(_ context.Context, publicToken string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return "", s.Fail
	}
	token, ok := s.tokens[publicToken]
	if !ok {
		return "", fmt.Errorf("%w: unknown public token", core.ErrUpstream)
	}
	return token, nil
}

func (s *StubFeed) Accounts(_ context.Context, accessToken string) ([]ExternalAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	return append([]ExternalAccount(nil), s.accounts[accessToken]...), nil
}

func (s *StubFeed) Transactions(_ context.Context, accessToken string, start, end core.Date) ([]ExternalTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	var out []ExternalTransaction
	for _, t := range s.txns[accessToken] {
		if t.Date.Before(start.Time) || t.Date.After(end.Time) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *StubFeed) Balance(_ context.Context, accessToken, externalAccountID string) (decimal.Decimal, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return decimal.Zero, false, s.Fail
	}
	balance, ok := s.balances[balanceKey(accessToken, externalAccountID)]
	return balance, ok, nil
}

// Package provider talks to the external bank-data aggregator. The feed
// is opaque upstream state: the engine only consumes its transaction and
// balance snapshots and never trusts it for dedup identity.
package provider

import (
	"context"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// ExternalAccount is one account discovered during the link flow.
type ExternalAccount struct {
	ID      string
	Name    string
	Mask    string
	Type    string
	Subtype string
	Balance decimal.Decimal
}

// ExternalTransaction is one record from the provider feed. Amount keeps
// the provider's sign convention: positive means money left the account.
type ExternalTransaction struct {
	AccountID  string
	Amount     decimal.Decimal
	Name       string
	Categories []string
	Date       core.Date
}

// BankFeed is the port the sync coordinator and link flow consume. It is
// always injected, never global, so tests can swap in the stub.
type BankFeed interface {
	// ExchangeToken trades a link-flow public token for an access token.
	ExchangeToken(ctx context.Context, publicToken string) (string, error)

	// Accounts lists the accounts reachable with an access token.
	Accounts(ctx context.Context, accessToken string) ([]ExternalAccount, error)

	// Transactions returns all records in [start, end] for every account
	// behind the token; callers filter by external account id.
	Transactions(ctx context.Context, accessToken string, start, end core.Date) ([]ExternalTransaction, error)

	// Balance reports the current balance of one external account. The
	// second return is false when the provider no longer reports it.
	Balance(ctx context.Context, accessToken, externalAccountID string) (decimal.Decimal, bool, error)
}

// MapAccountType translates provider account taxonomy to ours.
func MapAccountType(extType, subtype string) core.AccountType {
	switch extType {
	case "depository":
		if subtype == "savings" {
			return core.Savings
		}
		return core.Checking
	case "credit":
		return core.CreditCard
	case "investment":
		return core.Investment
	default:
		return core.Checking
	}
}

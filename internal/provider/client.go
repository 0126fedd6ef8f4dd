package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// Client is the HTTP implementation of BankFeed against a Plaid-style
// JSON API. Every call carries the configured timeout; transport faults,
// timeouts and non-2xx responses all surface as core.ErrUpstream so the
// sync coordinator can treat them uniformly as transient.
type Client struct {
	baseURL  string
	clientID string
	secret   string
	http     *http.Client
}

func NewClient(baseURL, clientID, secret string, timeout time.Duration) *Client {
	return &Client{
		baseURL:  baseURL,
		clientID: clientID,
		secret:   secret,
		http:     &http.Client{Timeout: timeout},
	}
}

func (c *Client) post(ctx context.Context, path string, reqBody map[string]any, out any) error {
	reqBody["client_id"] = c.clientID
	reqBody["secret"] = c.secret

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", core.ErrUpstream, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		slog.WarnContext(ctx, "Provider call failed",
			"path", path,
			"status", resp.StatusCode,
			"body", string(body))
		return fmt.Errorf("%w: %s returned %d", core.ErrUpstream, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", core.ErrUpstream, path, err)
	}
	return nil
}

func (c *Client) ExchangeToken(ctx context.Context, publicToken string) (string, error) {
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	err := c.post(ctx, "/item/public_token/exchange", map[string]any{
		"public_token": publicToken,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token in exchange response", core.ErrUpstream)
	}
	return resp.AccessToken, nil
}

type wireAccount struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Mask      string `json:"mask"`
	Type      string `json:"type"`
	Subtype   string `json:"subtype"`
	Balances  struct {
		Current decimal.Decimal `json:"current"`
	} `json:"balances"`
}

func (c *Client) Accounts(ctx context.Context, accessToken string) ([]ExternalAccount, error) {
	var resp struct {
		Accounts []wireAccount `json:"accounts"`
	}
	err := c.post(ctx, "/accounts/get", map[string]any{
		"access_token": accessToken,
	}, &resp)
	if err != nil {
		return nil, err
	}

	accounts := make([]ExternalAccount, len(resp.Accounts))
	for i, a := range resp.Accounts {
		accounts[i] = ExternalAccount{
			ID:      a.AccountID,
			Name:    a.Name,
			Mask:    a.Mask,
			Type:    a.Type,
			Subtype: a.Subtype,
			Balance: a.Balances.Current,
		}
	}
	return accounts, nil
}

func (c *Client) Transactions(ctx context.Context, accessToken string, start, end core.Date) ([]ExternalTransaction, error) {
	var resp struct {
		Transactions []struct {
			AccountID string          `json:"account_id"`
			Amount    decimal.Decimal `json:"amount"`
			Name      string          `json:"name"`
			Category  []string        `json:"category"`
			Date      string          `json:"date"`
		} `json:"transactions"`
	}
	err := c.post(ctx, "/transactions/get", map[string]any{
		"access_token": accessToken,
		"start_date":   start.String(),
		"end_date":     end.String(),
	}, &resp)
	if err != nil {
		return nil, err
	}

	txns := make([]ExternalTransaction, 0, len(resp.Transactions))
	for _, t := range resp.Transactions {
		date, err := core.ParseDate(t.Date)
		if err != nil {
			// One malformed record should not sink the whole window.
			slog.WarnContext(ctx, "Skipping provider record with bad date",
				"date", t.Date, "name", t.Name)
			continue
		}
		txns = append(txns, ExternalTransaction{
			AccountID:  t.AccountID,
			Amount:     t.Amount,
			Name:       t.Name,
			Categories: t.Category,
			Date:       date,
		})
	}
	return txns, nil
}

func (c *Client) Balance(ctx context.Context, accessToken, externalAccountID string) (decimal.Decimal, bool, error) {
	var resp struct {
		Accounts []wireAccount `json:"accounts"`
	}
	err := c.post(ctx, "/accounts/balance/get", map[string]any{
		"access_token": accessToken,
	}, &resp)
	if err != nil {
		return decimal.Zero, false, err
	}

	for _, a := range resp.Accounts {
		if a.AccountID == externalAccountID {
			return a.Balances.Current, true, nil
		}
	}
	return decimal.Zero, false, nil
}

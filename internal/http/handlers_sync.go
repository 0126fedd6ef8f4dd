package http

import (
	"fmt"
	"net/http"

	"fintrack/internal/core"
)

type exchangeTokenRequest struct {
	PublicToken string `json:"publicToken"`
	Institution string `json:"institution"`
}

// handleExchangeToken completes the provider link flow and returns the
// newly created accounts.
func (s *Server) handleExchangeToken(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req exchangeTokenRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	if req.PublicToken == "" {
		writeError(r.Context(), w, fmt.Errorf("%w: publicToken is required", core.ErrValidation))
		return
	}

	accounts, err := s.link.ExchangeToken(r.Context(), uid, req.PublicToken, req.Institution)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"accounts": accounts})
}

type syncRequest struct {
	AccountID string `json:"accountId"`
}

type syncResponse struct {
	Message     string `json:"message"`
	SyncedCount int    `json:"syncedCount"`
}

// handleSyncTransactions runs one synchronous sync pass for a linked
// account and reports how many transactions it imported.
func (s *Server) handleSyncTransactions(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req syncRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	if req.AccountID == "" {
		writeError(r.Context(), w, fmt.Errorf("%w: accountId is required", core.ErrValidation))
		return
	}

	imported, err := s.sync.SyncAccount(r.Context(), uid, req.AccountID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, syncResponse{
		Message:     fmt.Sprintf("synced %d transactions", imported),
		SyncedCount: imported,
	})
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	summary, err := s.analytics.Summary(r.Context(), uid)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

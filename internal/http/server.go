// Package http exposes the JSON API: accounts, transactions, budgets,
// the provider link and sync endpoints and the analytics rollup.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/services"
)

type Server struct {
	http.Server

	accounts     *services.AccountService
	transactions *services.TransactionService
	budgets      *services.BudgetService
	link         *services.LinkService
	sync         *services.SyncService
	analytics    *services.AnalyticsService

	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

func NewServer(
	addr string,
	accounts *services.AccountService,
	transactions *services.TransactionService,
	budgets *services.BudgetService,
	link *services.LinkService,
	syncSvc *services.SyncService,
	analytics *services.AnalyticsService,
) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		accounts:     accounts,
		transactions: transactions,
		budgets:      budgets,
		link:         link,
		sync:         syncSvc,
		analytics:    analytics,
		rateLimiter:  newRateLimiter(),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/accounts", s.with(s.handleCreateAccount))
	mux.HandleFunc("GET /api/accounts", s.with(s.handleListAccounts))
	mux.HandleFunc("GET /api/accounts/{id}", s.with(s.handleGetAccount))
	mux.HandleFunc("PUT /api/accounts/{id}", s.with(s.handleUpdateAccount))
	mux.HandleFunc("DELETE /api/accounts/{id}", s.with(s.handleDeleteAccount))

	mux.HandleFunc("POST /api/transactions", s.with(s.handleCreateTransaction))
	mux.HandleFunc("GET /api/transactions", s.with(s.handleListTransactions))
	mux.HandleFunc("GET /api/transactions/{id}", s.with(s.handleGetTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.with(s.handleDeleteTransaction))

	mux.HandleFunc("POST /api/budgets", s.with(s.handleCreateBudget))
	mux.HandleFunc("GET /api/budgets", s.with(s.handleListBudgets))
	mux.HandleFunc("PUT /api/budgets/{id}", s.with(s.handleUpdateBudget))
	mux.HandleFunc("DELETE /api/budgets/{id}", s.with(s.handleDeleteBudget))

	mux.HandleFunc("POST /api/plaid/exchange-token", s.with(s.handleExchangeToken))
	mux.HandleFunc("POST /api/plaid/sync-transactions", s.with(s.handleSyncTransactions))

	mux.HandleFunc("GET /api/analytics", s.with(s.handleAnalytics))

	return s
}

// with wraps a handler with security headers, request logging and, for
// mutating methods, the per-client rate limit.
func (s *Server) with(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := newRequestID()

		w.Header().Set("X-Request-ID", reqID)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Cache-Control", "no-store")

		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			ip := clientIP(r)
			if !s.rateLimiter.allow(ip) {
				slog.WarnContext(r.Context(), "Rate limit exceeded",
					"client_ip", ip,
					"path", r.URL.Path)
				writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
				return
			}
		}

		next(w, r)

		slog.InfoContext(r.Context(), "Request handled",
			"request_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

func newRequestID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(b[:])
}

// userID extracts the caller identity. Authentication proper lives in the
// gateway in front of this service; here the header is trusted.
func userID(r *http.Request) (string, error) {
	id := r.Header.Get("X-User-ID")
	if id == "" {
		return "", fmt.Errorf("missing X-User-ID header")
	}
	return id, nil
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

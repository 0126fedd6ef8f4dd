package http

import (
	"net/http"
	"strconv"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

type transactionRequest struct {
	AccountID   string       `json:"accountId"`
	Type        core.TxnType `json:"type"`
	Amount      core.Money   `json:"amount"`
	Category    string       `json:"category"`
	Description string       `json:"description"`
	Date        core.Date    `json:"date"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req transactionRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	txn := core.Transaction{
		UserID:      uid,
		AccountID:   req.AccountID,
		Type:        req.Type,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date,
	}
	if err := s.transactions.Create(r.Context(), &txn); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, txn)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := storage.TransactionFilter{
		AccountID: q.Get("accountId"),
		Category:  q.Get("category"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			writeError(r.Context(), w, core.ErrValidation)
			return
		}
		filter.Limit = limit
	}

	txns, err := s.transactions.List(r.Context(), uid, filter)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	if txns == nil {
		txns = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txns)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	txn, err := s.transactions.Get(r.Context(), uid, r.PathValue("id"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := s.transactions.Delete(r.Context(), uid, r.PathValue("id")); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package http

import (
	"net/http"

	"fintrack/internal/core"
)

// requireUser resolves the caller or writes a 401 and returns false.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := userID(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return "", false
	}
	return id, true
}

type accountRequest struct {
	Name        string           `json:"name"`
	Type        core.AccountType `json:"type"`
	Balance     core.Money       `json:"balance"`
	Institution string           `json:"institution"`
	LastFour    string           `json:"lastFour"`
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req accountRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	account := core.Account{
		UserID:      uid,
		Name:        req.Name,
		Type:        req.Type,
		Balance:     req.Balance,
		Institution: req.Institution,
		LastFour:    req.LastFour,
	}
	if err := s.accounts.Create(r.Context(), &account); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	accounts, err := s.accounts.List(r.Context(), uid)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	if accounts == nil {
		accounts = []core.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	account, err := s.accounts.Get(r.Context(), uid, r.PathValue("id"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req accountRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	account := core.Account{
		ID:          r.PathValue("id"),
		UserID:      uid,
		Name:        req.Name,
		Type:        req.Type,
		Institution: req.Institution,
		LastFour:    req.LastFour,
	}
	if err := s.accounts.Update(r.Context(), account); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	updated, err := s.accounts.Get(r.Context(), uid, account.ID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := s.accounts.Delete(r.Context(), uid, r.PathValue("id")); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

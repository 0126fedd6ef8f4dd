package http

import (
	"net/http"

	"fintrack/internal/core"
)

type budgetRequest struct {
	Category string            `json:"category"`
	Limit    core.Money        `json:"limit"`
	Period   core.BudgetPeriod `json:"period"`
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req budgetRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	budget := core.Budget{
		UserID:   uid,
		Category: req.Category,
		Limit:    req.Limit,
		Period:   req.Period,
	}
	if err := s.budgets.Create(r.Context(), &budget); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, budget)
}

// handleListBudgets returns the owner's budgets with the live spent figure
// for the current period window attached to each.
func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	budgets, err := s.budgets.ListWithSpent(r.Context(), uid)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	if budgets == nil {
		budgets = []core.BudgetWithSpent{}
	}
	writeJSON(w, http.StatusOK, budgets)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req budgetRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	budget := core.Budget{
		ID:       r.PathValue("id"),
		UserID:   uid,
		Category: req.Category,
		Limit:    req.Limit,
		Period:   req.Period,
	}
	if err := s.budgets.Update(r.Context(), budget); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, budget)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := s.budgets.Delete(r.Context(), uid, r.PathValue("id")); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handler

import (
	"net/http"

	"github.com/Dan9191/aurora/internal/middleware"
	"github.com/Dan9191/aurora/internal/models"
)

// ListBudgets handles GET /api/budgets
func (h *Handler) ListBudgets(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	budgets, err := h.svc.ListBudgets(r.Context(), uid)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"budgets": budgets})
}

// CreateBudget handles POST /api/budgets
func (h *Handler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var in models.BudgetInput
	if !decode(w, r, &in) {
		return
	}
	budget, err := h.svc.CreateBudget(r.Context(), uid, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, budget)
}

// UpdateBudget handles PUT /api/budgets/{id}
func (h *Handler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in models.BudgetUpdate
	if !decode(w, r, &in) {
		return
	}
	budget, err := h.svc.UpdateBudget(r.Context(), uid, id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, budget)
}

// DeleteBudget handles DELETE /api/budgets/{id}
func (h *Handler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteBudget(r.Context(), uid, id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

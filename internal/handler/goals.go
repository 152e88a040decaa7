package handler

import (
	"net/http"

	"github.com/Dan9191/aurora/internal/middleware"
	"github.com/Dan9191/aurora/internal/models"
)

// ListGoals handles GET /api/goals
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	goals, err := h.svc.ListGoals(r.Context(), uid)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"goals": goals})
}

// CreateGoal handles POST /api/goals
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var in models.GoalInput
	if !decode(w, r, &in) {
		return
	}
	goal, err := h.svc.CreateGoal(r.Context(), uid, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, goal)
}

// UpdateGoal handles PUT /api/goals/{id}
func (h *Handler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in models.GoalInput
	if !decode(w, r, &in) {
		return
	}
	goal, err := h.svc.UpdateGoal(r.Context(), uid, id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, goal)
}

// AddGoalFunds handles POST /api/goals/{id}/contributions
func (h *Handler) AddGoalFunds(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in models.GoalContribution
	if !decode(w, r, &in) {
		return
	}
	goal, err := h.svc.AddGoalFunds(r.Context(), uid, id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, goal)
}

// DeleteGoal handles DELETE /api/goals/{id}
func (h *Handler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteGoal(r.Context(), uid, id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

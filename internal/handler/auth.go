package handler

import (
	"net/http"

	"github.com/Dan9191/aurora/internal/middleware"
	"github.com/Dan9191/aurora/internal/models"
)

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterInput
	if !decode(w, r, &in) {
		return
	}
	res, err := h.svc.Register(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, res)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in models.LoginInput
	if !decode(w, r, &in) {
		return
	}
	res, err := h.svc.Login(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, res)
}

// Me handles GET /api/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	user, err := h.svc.Me(r.Context(), uid)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// UpdatePreferences handles PATCH /api/auth/me
func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var in models.PreferencesInput
	if !decode(w, r, &in) {
		return
	}
	user, err := h.svc.UpdatePreferences(r.Context(), uid, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

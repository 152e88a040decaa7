package handler

import (
	"net/http"

	"github.com/Dan9191/aurora/internal/middleware"
	"github.com/Dan9191/aurora/internal/models"
)

// ListSubscriptions handles GET /api/subscriptions
func (h *Handler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	subs, err := h.svc.ListSubscriptions(r.Context(), uid)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"subscriptions": subs})
}

// CreateSubscription handles POST /api/subscriptions
func (h *Handler) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var in models.SubscriptionInput
	if !decode(w, r, &in) {
		return
	}
	sub, err := h.svc.CreateSubscription(r.Context(), uid, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, map[string]interface{}{"subscription": sub})
}

// UpdateSubscription handles PUT /api/subscriptions/{id}
func (h *Handler) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in models.SubscriptionInput
	if !decode(w, r, &in) {
		return
	}
	sub, err := h.svc.UpdateSubscription(r.Context(), uid, id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"subscription": sub})
}

// DeleteSubscription handles DELETE /api/subscriptions/{id}
func (h *Handler) DeleteSubscription(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteSubscription(r.Context(), uid, id); err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"message": "Suscripción eliminada"})
}

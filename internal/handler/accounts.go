package handler

import (
	"net/http"

	"github.com/Dan9191/aurora/internal/middleware"
	"github.com/Dan9191/aurora/internal/models"
)

// ListAccounts handles GET /api/accounts
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	accounts, err := h.svc.ListAccounts(r.Context(), uid)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"accounts": accounts})
}

// GetAccount handles GET /api/accounts/{id}
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	account, err := h.svc.GetAccount(r.Context(), uid, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"account": account})
}

// CreateAccount handles account creation
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var in models.AccountInput
	if !decode(w, r, &in) {
		return
	}
	account, err := h.svc.CreateAccount(r.Context(), uid, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, map[string]interface{}{"account": account})
}

// UpdateAccount handles PUT /api/accounts/{id}. The balance is never
// writable here; it only moves through transactions.
func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in models.AccountUpdate
	if !decode(w, r, &in) {
		return
	}
	account, err := h.svc.UpdateAccount(r.Context(), uid, id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"account": account})
}

// DeleteAccount handles DELETE /api/accounts/{id}
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteAccount(r.Context(), uid, id); err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"message": "Cuenta eliminada"})
}

// NetWorth handles GET /api/accounts/net-worth
func (h *Handler) NetWorth(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	nw, err := h.svc.NetWorth(r.Context(), uid)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, nw)
}

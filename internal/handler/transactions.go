package handler

import (
	"net/http"
	"strings"

	"github.com/Dan9191/aurora/internal/middleware"
	"github.com/Dan9191/aurora/internal/models"
)

// ListCategories handles GET /api/transactions/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.ListCategories(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

// ListTransactions handles GET /api/transactions
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	f, err := transactionFilter(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page, err := h.svc.ListTransactions(r.Context(), uid, f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, page)
}

func transactionFilter(r *http.Request) (models.TransactionFilter, error) {
	q := r.URL.Query()
	f := models.TransactionFilter{
		Merchant: strings.TrimSpace(q.Get("merchant")),
		Type:     models.TransactionType(q.Get("type")),
	}

	var err error
	if f.StartDate, err = queryDate(r, "startDate", false); err != nil {
		return f, err
	}
	if f.EndDate, err = queryDate(r, "endDate", true); err != nil {
		return f, err
	}
	if f.Limit, err = queryInt(r, "limit"); err != nil {
		return f, err
	}
	if f.Offset, err = queryInt(r, "offset"); err != nil {
		return f, err
	}
	account, err := queryInt(r, "accountId")
	if err != nil {
		return f, err
	}
	category, err := queryInt(r, "categoryId")
	if err != nil {
		return f, err
	}
	f.AccountID, f.CategoryID = int64(account), int64(category)
	return f, nil
}

// PostTransaction handles POST /api/transactions
func (h *Handler) PostTransaction(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var in models.TransactionInput
	if !decode(w, r, &in) {
		return
	}
	tx, err := h.svc.PostTransaction(r.Context(), uid, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, map[string]interface{}{"transaction": tx})
}

// DeleteTransaction handles DELETE /api/transactions/{id}
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteTransaction(r.Context(), uid, id); err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"message": "Transacción eliminada"})
}

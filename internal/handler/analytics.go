package handler

import (
	"net/http"
	"time"

	"github.com/Dan9191/aurora/internal/middleware"
	"github.com/Dan9191/aurora/internal/service"
)

// Dashboard handles GET /api/analytics/dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	d, err := h.svc.Dashboard(r.Context(), uid)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, d)
}

// Spending handles GET /api/analytics/spending. A missing bound defaults to
// the current calendar month.
func (h *Handler) Spending(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	now := time.Now().UTC()
	from, to := service.MonthWindow(now.Year(), now.Month())
	start, err := queryDate(r, "startDate", false)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	end, err := queryDate(r, "endDate", true)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if start != nil {
		from = *start
	}
	if end != nil {
		to = *end
	}

	spending, err := h.svc.SpendingByCategory(r.Context(), uid, from, to)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"spending": spending})
}

// Monthly handles GET /api/analytics/monthly?year=&month=
func (h *Handler) Monthly(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	now := time.Now().UTC()
	year, err := queryInt(r, "year")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	month, err := queryInt(r, "month")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}

	summary, err := h.svc.MonthlySummary(r.Context(), uid, year, time.Month(month))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, summary)
}

package handler

import (
	"net/http"
	"strings"

	"github.com/Dan9191/aurora/internal/middleware"
)

// Chat handles POST /api/ai/chat
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req struct {
		Message string `json:"message"`
	}
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		middleware.WriteError(w, http.StatusBadRequest, "El mensaje no puede estar vacío")
		return
	}

	reply, err := h.assistant.Chat(r.Context(), uid, req.Message)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"response": reply})
}

// Rates handles GET /api/fx/rates
func (h *Handler) Rates(w http.ResponseWriter, r *http.Request) {
	if !h.rates.Enabled() {
		middleware.WriteError(w, http.StatusNotFound, "Exchange rates are not configured")
		return
	}
	rates, err := h.rates.Rates(r.Context())
	if err != nil {
		h.log.Errorf("Failed to get exchange rates: %v", err)
		middleware.WriteError(w, http.StatusBadGateway, "Failed to get exchange rates")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, rates)
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Dan9191/aurora/internal/ai"
	"github.com/Dan9191/aurora/internal/integrations/fx"
	"github.com/Dan9191/aurora/internal/middleware"
	"github.com/Dan9191/aurora/internal/models"
	"github.com/Dan9191/aurora/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Chatter answers assistant questions for a user.
type Chatter interface {
	Chat(ctx context.Context, userID int64, message string) (string, error)
}

// Handler serves the JSON API.
type Handler struct {
	svc       *service.Service
	assistant Chatter
	rates     *fx.Client
	log       *logrus.Logger
}

// NewHandler creates a handler. rates may be nil when no FX feed is configured.
func NewHandler(svc *service.Service, assistant Chatter, rates *fx.Client, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, assistant: assistant, rates: rates, log: log}
}

// Routes registers every endpoint under /api on r. auth guards everything
// except health, register and login.
func (h *Handler) Routes(r *mux.Router, auth func(http.Handler) http.Handler) {
	api := r.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/health", h.Health).Methods("GET")
	api.HandleFunc("/auth/register", h.Register).Methods("POST")
	api.HandleFunc("/auth/login", h.Login).Methods("POST")

	// Protected routes
	p := api.NewRoute().Subrouter()
	p.Use(auth)

	p.HandleFunc("/auth/me", h.Me).Methods("GET")
	p.HandleFunc("/auth/me", h.UpdatePreferences).Methods("PATCH")

	p.HandleFunc("/accounts", h.ListAccounts).Methods("GET")
	p.HandleFunc("/accounts", h.CreateAccount).Methods("POST")
	p.HandleFunc("/accounts/net-worth", h.NetWorth).Methods("GET")
	p.HandleFunc("/accounts/{id:[0-9]+}", h.GetAccount).Methods("GET")
	p.HandleFunc("/accounts/{id:[0-9]+}", h.UpdateAccount).Methods("PUT")
	p.HandleFunc("/accounts/{id:[0-9]+}", h.DeleteAccount).Methods("DELETE")

	p.HandleFunc("/transactions/categories", h.ListCategories).Methods("GET")
	p.HandleFunc("/transactions", h.ListTransactions).Methods("GET")
	p.HandleFunc("/transactions", h.PostTransaction).Methods("POST")
	p.HandleFunc("/transactions/{id:[0-9]+}", h.DeleteTransaction).Methods("DELETE")

	p.HandleFunc("/analytics/dashboard", h.Dashboard).Methods("GET")
	p.HandleFunc("/analytics/spending", h.Spending).Methods("GET")
	p.HandleFunc("/analytics/monthly", h.Monthly).Methods("GET")

	p.HandleFunc("/budgets", h.ListBudgets).Methods("GET")
	p.HandleFunc("/budgets", h.CreateBudget).Methods("POST")
	p.HandleFunc("/budgets/{id:[0-9]+}", h.UpdateBudget).Methods("PUT")
	p.HandleFunc("/budgets/{id:[0-9]+}", h.DeleteBudget).Methods("DELETE")

	p.HandleFunc("/goals", h.ListGoals).Methods("GET")
	p.HandleFunc("/goals", h.CreateGoal).Methods("POST")
	p.HandleFunc("/goals/{id:[0-9]+}", h.UpdateGoal).Methods("PUT")
	p.HandleFunc("/goals/{id:[0-9]+}", h.DeleteGoal).Methods("DELETE")
	p.HandleFunc("/goals/{id:[0-9]+}/contributions", h.AddGoalFunds).Methods("POST")

	p.HandleFunc("/subscriptions", h.ListSubscriptions).Methods("GET")
	p.HandleFunc("/subscriptions", h.CreateSubscription).Methods("POST")
	p.HandleFunc("/subscriptions/{id:[0-9]+}", h.UpdateSubscription).Methods("PUT")
	p.HandleFunc("/subscriptions/{id:[0-9]+}", h.DeleteSubscription).Methods("DELETE")

	p.HandleFunc("/ai/chat", h.Chat).Methods("POST")
	p.HandleFunc("/fx/rates", h.Rates).Methods("GET")
}

// Health handles GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// fail writes the status matching err. Unexpected errors are logged and
// answered with a generic message.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrUnauthorized):
		middleware.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, models.ErrNotFound):
		middleware.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrConflict):
		middleware.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ai.ErrProviderUnavailable):
		h.logError(r, err)
		middleware.WriteError(w, http.StatusBadGateway, "The assistant is unavailable right now")
	default:
		h.logError(r, err)
		middleware.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *Handler) logError(r *http.Request, err error) {
	h.log.WithFields(logrus.Fields{
		"method":     r.Method,
		"path":       r.URL.Path,
		"request_id": middleware.RequestIDFromContext(r.Context()),
	}).Errorf("Request failed: %v", err)
}

// decode reads a JSON body into v, answering 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// userID returns the authenticated caller. The auth middleware guarantees it
// on protected routes.
func userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Unauthorized")
	}
	return id, ok
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

// queryDate parses a date query parameter. A calendar date given as the upper
// bound of a range is moved to the start of the following day so that the
// whole day is covered.
func queryDate(r *http.Request, key string, upper bool) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	t, err := models.ParseDate(raw)
	if err != nil {
		return nil, validation(key + " must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
	}
	if upper && len(raw) == len("2006-01-02") {
		t = t.AddDate(0, 0, 1)
	}
	return &t, nil
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validation(key + " must be an integer")
	}
	return n, nil
}

func validation(msg string) error {
	return fmt.Errorf("%w: %s", models.ErrValidation, msg)
}

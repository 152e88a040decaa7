package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/Dan9191/aurora/internal/ai"
	"github.com/Dan9191/aurora/internal/config"
	"github.com/Dan9191/aurora/internal/ledger"
	"github.com/Dan9191/aurora/internal/middleware"
	"github.com/Dan9191/aurora/internal/models"
	"github.com/Dan9191/aurora/internal/repository"
	"github.com/Dan9191/aurora/internal/service"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatter struct {
	reply string
	err   error
}

func (f *fakeChatter) Chat(context.Context, int64, string) (string, error) { return f.reply, f.err }

type testEnv struct {
	t      *testing.T
	router http.Handler
	repo   *repository.Repository
	chat   *fakeChatter
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo, err := repository.Open(config.DriverSQLite, filepath.Join(t.TempDir(), "handler.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	require.NoError(t, repo.Migrate(context.Background()))

	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{JWTSecret: "handler-secret", TokenTTL: time.Hour, BaseCurrency: "COP", ReminderDays: 3}
	svc := service.NewService(repo, ledger.New(repo, log), nil, nil, log, cfg)

	chat := &fakeChatter{reply: "Vas bien este mes."}
	r := mux.NewRouter()
	NewHandler(svc, chat, nil, log).Routes(r, middleware.AuthMiddleware(cfg))
	return &testEnv{t: t, router: r, repo: repo, chat: chat}
}

func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func (e *testEnv) register(email string) string {
	e.t.Helper()
	rec := e.do("POST", "/api/auth/register", "", map[string]string{
		"email": email, "name": "Ana Gómez", "password": "secreto123",
	})
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())
	var res service.AuthResult
	decodeBody(e.t, rec, &res)
	require.NotEmpty(e.t, res.Token)
	return res.Token
}

func (e *testEnv) createAccount(token string, balance int) *models.Account {
	e.t.Helper()
	rec := e.do("POST", "/api/accounts", token, map[string]interface{}{
		"name": "Bancolombia", "type": "checking", "balance": balance, "currency": "COP",
	})
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())
	var res struct{ Account *models.Account }
	decodeBody(e.t, rec, &res)
	return res.Account
}

func (e *testEnv) createCategory(name string) *models.Category {
	e.t.Helper()
	c := &models.Category{Name: name, Icon: "fa-tag", Color: "#64748b"}
	require.NoError(e.t, e.repo.CreateCategory(context.Background(), c))
	return c
}

func idPath(prefix string, id int64) string {
	return prefix + "/" + strconv.FormatInt(id, 10)
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do("GET", "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestAuthFlow(t *testing.T) {
	e := newTestEnv(t)
	token := e.register("ana@aurora.app")

	rec := e.do("POST", "/api/auth/register", "", map[string]string{
		"email": "ANA@aurora.app", "name": "Otra", "password": "secreto123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = e.do("POST", "/api/auth/login", "", map[string]string{"email": "ana@aurora.app", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do("POST", "/api/auth/login", "", map[string]string{"email": "ana@aurora.app", "password": "secreto123"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do("GET", "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me struct{ User *models.User }
	decodeBody(t, rec, &me)
	assert.Equal(t, "ana@aurora.app", me.User.Email)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = e.do("PATCH", "/api/auth/me", token, map[string]string{"aiProvider": "ollama"})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &me)
	assert.Equal(t, "ollama", me.User.AIProvider)

	rec = e.do("PATCH", "/api/auth/me", token, map[string]string{"aiProvider": "skynet"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	e := newTestEnv(t)
	for _, path := range []string{"/api/accounts", "/api/transactions", "/api/analytics/dashboard", "/api/goals"} {
		rec := e.do("GET", path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
	rec := e.do("GET", "/api/accounts", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestInvalidBody(t *testing.T) {
	e := newTestEnv(t)
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid request body"}`, rec.Body.String())
}

func TestTransactionsThroughLedger(t *testing.T) {
	e := newTestEnv(t)
	token := e.register("ledger@aurora.app")
	account := e.createAccount(token, 1000)
	food := e.createCategory("Comida")
	today := time.Now().UTC().Format("2006-01-02")

	rec := e.do("POST", "/api/transactions", token, map[string]interface{}{
		"accountId": account.ID, "categoryId": food.ID, "amount": 250,
		"type": "expense", "merchant": "Exito Poblado", "date": today,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var posted struct{ Transaction *models.Transaction }
	decodeBody(t, rec, &posted)
	assert.True(t, posted.Transaction.Amount.Equal(decimal.NewFromInt(250)))

	rec = e.do("GET", idPath("/api/accounts", account.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct{ Account *models.Account }
	decodeBody(t, rec, &got)
	assert.True(t, got.Account.Balance.Equal(decimal.NewFromInt(750)), got.Account.Balance.String())

	rec = e.do("GET", "/api/transactions?startDate="+today+"&endDate="+today+"&merchant=exito", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page models.TransactionPage
	decodeBody(t, rec, &page)
	assert.Equal(t, 1, page.Total)

	rec = e.do("GET", "/api/analytics/spending?startDate="+today+"&endDate="+today, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var spending struct{ Spending []*models.CategorySpending }
	decodeBody(t, rec, &spending)
	require.Len(t, spending.Spending, 1)
	assert.Equal(t, "Comida", spending.Spending[0].Category.Name)

	rec = e.do("DELETE", idPath("/api/transactions", posted.Transaction.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Transacción eliminada"}`, rec.Body.String())

	rec = e.do("DELETE", idPath("/api/transactions", posted.Transaction.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = e.do("GET", idPath("/api/accounts", account.ID), token, nil)
	decodeBody(t, rec, &got)
	assert.True(t, got.Account.Balance.Equal(decimal.NewFromInt(1000)))
}

func TestTransactionErrors(t *testing.T) {
	e := newTestEnv(t)
	token := e.register("errors@aurora.app")
	other := e.register("other@aurora.app")
	account := e.createAccount(token, 0)
	cat := e.createCategory("Otros")

	tests := []struct {
		name   string
		token  string
		body   map[string]interface{}
		status int
	}{
		{"zero amount", token, map[string]interface{}{"accountId": account.ID, "categoryId": cat.ID, "amount": 0, "type": "expense", "date": "2026-10-01"}, http.StatusBadRequest},
		{"sub-cent amount", token, map[string]interface{}{"accountId": account.ID, "categoryId": cat.ID, "amount": 0.001, "type": "expense", "date": "2026-10-01"}, http.StatusBadRequest},
		{"amount too large", token, map[string]interface{}{"accountId": account.ID, "categoryId": cat.ID, "amount": 1e20, "type": "income", "date": "2026-10-01"}, http.StatusBadRequest},
		{"bad type", token, map[string]interface{}{"accountId": account.ID, "categoryId": cat.ID, "amount": 5, "type": "transfer", "date": "2026-10-01"}, http.StatusBadRequest},
		{"bad date", token, map[string]interface{}{"accountId": account.ID, "categoryId": cat.ID, "amount": 5, "type": "expense", "date": "yesterday"}, http.StatusBadRequest},
		{"foreign account", other, map[string]interface{}{"accountId": account.ID, "categoryId": cat.ID, "amount": 5, "type": "expense", "date": "2026-10-01"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do("POST", "/api/transactions", tt.token, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}

	for _, q := range []string{"type=transfer", "limit=abc", "startDate=soon"} {
		rec := e.do("GET", "/api/transactions?"+q, token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}

	rec := e.do("GET", idPath("/api/accounts", account.ID), other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccountsEndpoints(t *testing.T) {
	e := newTestEnv(t)
	token := e.register("accounts@aurora.app")
	account := e.createAccount(token, 500)

	rec := e.do("PUT", idPath("/api/accounts", account.ID), token, map[string]interface{}{"name": "Nómina", "balance": 999999})
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct{ Account *models.Account }
	decodeBody(t, rec, &got)
	assert.Equal(t, "Nómina", got.Account.Name)
	assert.True(t, got.Account.Balance.Equal(decimal.NewFromInt(500)))

	rec = e.do("GET", "/api/accounts/net-worth", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var nw models.NetWorth
	decodeBody(t, rec, &nw)
	assert.True(t, nw.NetWorth.Equal(decimal.NewFromInt(500)))

	rec = e.do("DELETE", idPath("/api/accounts", account.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do("GET", "/api/accounts", token, nil)
	var list struct{ Accounts []*models.Account }
	decodeBody(t, rec, &list)
	assert.Empty(t, list.Accounts)
}

func TestBudgetsGoalsSubscriptions(t *testing.T) {
	e := newTestEnv(t)
	token := e.register("plans@aurora.app")
	cat := e.createCategory("Mercado")

	rec := e.do("POST", "/api/budgets", token, map[string]interface{}{"categoryId": cat.ID, "amount": 800000})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var budget models.Budget
	decodeBody(t, rec, &budget)
	assert.Equal(t, models.PeriodMonthly, budget.Period)

	rec = e.do("DELETE", idPath("/api/budgets", budget.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = e.do("POST", "/api/goals", token, map[string]interface{}{"name": "Viaje", "targetAmount": 1000})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var goal models.Goal
	decodeBody(t, rec, &goal)

	rec = e.do("POST", idPath("/api/goals", goal.ID)+"/contributions", token, map[string]interface{}{"amount": 250})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeBody(t, rec, &goal)
	assert.Equal(t, 25.0, goal.Progress)

	rec = e.do("POST", idPath("/api/goals", goal.ID)+"/contributions", token, map[string]interface{}{"amount": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do("POST", "/api/subscriptions", token, map[string]interface{}{
		"name": "Spotify", "amount": 16900, "nextBillingDate": "2026-11-05",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct{ Subscription *models.Subscription }
	decodeBody(t, rec, &created)
	assert.Equal(t, "COP", created.Subscription.Currency)

	other := e.register("intruder@aurora.app")
	rec = e.do("DELETE", idPath("/api/subscriptions", created.Subscription.ID), other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = e.do("DELETE", idPath("/api/goals", goal.ID), other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalyticsEndpoints(t *testing.T) {
	e := newTestEnv(t)
	token := e.register("analytics@aurora.app")

	rec := e.do("GET", "/api/analytics/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var d models.Dashboard
	decodeBody(t, rec, &d)
	assert.Equal(t, "COP", d.NetWorth.Currency)

	rec = e.do("GET", "/api/analytics/monthly?year=2026&month=13", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do("GET", "/api/analytics/monthly?year=2026&month=9", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary models.MonthlySummary
	decodeBody(t, rec, &summary)
	assert.Equal(t, 0.0, summary.SavingsRate)

	rec = e.do("GET", "/api/analytics/spending?startDate=2026-10-10&endDate=2026-10-01", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat(t *testing.T) {
	e := newTestEnv(t)
	token := e.register("chat@aurora.app")

	rec := e.do("POST", "/api/ai/chat", token, map[string]string{"message": "¿Cómo voy?"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"response":"Vas bien este mes."}`, rec.Body.String())

	rec = e.do("POST", "/api/ai/chat", token, map[string]string{"message": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	e.chat.err = errors.Join(ai.ErrProviderUnavailable, errors.New("connection refused"))
	rec = e.do("POST", "/api/ai/chat", token, map[string]string{"message": "hola"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestRatesNotConfigured(t *testing.T) {
	e := newTestEnv(t)
	token := e.register("fx@aurora.app")
	rec := e.do("GET", "/api/fx/rates", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

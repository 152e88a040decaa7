package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/Dan9191/aurora/internal/config"
	"github.com/Dan9191/aurora/internal/integrations/fx"
	"github.com/Dan9191/aurora/internal/ledger"
	"github.com/Dan9191/aurora/internal/models"
	"github.com/Dan9191/aurora/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

type fakeRates struct {
	rates *fx.Rates
	err   error
}

func (f *fakeRates) Enabled() bool { return true }

func (f *fakeRates) Rates(context.Context) (*fx.Rates, error) { return f.rates, f.err }

type fakeMailer struct {
	mu   sync.Mutex
	sent []*models.SubscriptionReminder
	fail map[string]bool
}

func (f *fakeMailer) SendSubscriptionReminder(r *models.SubscriptionReminder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[r.Name] {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, r)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:    "test-secret",
		TokenTTL:     time.Hour,
		BaseCurrency: "COP",
		ReminderDays: 3,
	}
}

func createTestService(t *testing.T) *Service {
	t.Helper()
	repo, err := repository.Open(config.DriverSQLite, filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	require.NoError(t, repo.Migrate(context.Background()))

	log := logrus.New()
	log.SetOutput(io.Discard)
	s := NewService(repo, ledger.New(repo, log), nil, nil, log, testConfig())
	s.now = func() time.Time { return fixedNow }
	return s
}

// seedUser inserts a user directly, skipping bcrypt.
func seedUser(t *testing.T, s *Service, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Name: "Test User", PasswordHash: "x"}
	require.NoError(t, s.repo.CreateUser(context.Background(), u))
	return u
}

func seedCategory(t *testing.T, s *Service, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name, Icon: "fa-tag", Color: "#888888"}
	require.NoError(t, s.repo.CreateCategory(context.Background(), c))
	return c
}

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func strPtr(v string) *string { return &v }

func mustAccount(t *testing.T, s *Service, userID int64, typ models.AccountType, currency string, balance int64) *models.Account {
	t.Helper()
	a, err := s.CreateAccount(context.Background(), userID, models.AccountInput{
		Name:     string(typ) + " " + currency,
		Type:     typ,
		Currency: currency,
		Balance:  dec(balance),
	})
	require.NoError(t, err)
	return a
}

func mustPost(t *testing.T, s *Service, userID int64, a *models.Account, c *models.Category, amount int64, typ models.TransactionType, date time.Time) *models.Transaction {
	t.Helper()
	tr, err := s.PostTransaction(context.Background(), userID, models.TransactionInput{
		AccountID:  a.ID,
		CategoryID: c.ID,
		Amount:     decimal.NewFromInt(amount),
		Type:       typ,
		Merchant:   "Merchant",
		Date:       models.Date{Time: date},
	})
	require.NoError(t, err)
	return tr
}

func assertDecimal(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, got.Equal(decimal.NewFromInt(want)), "got %s, want %d", got, want)
}

func TestRegisterAndLogin(t *testing.T) {
	s := createTestService(t)
	ctx := context.Background()

	res, err := s.Register(ctx, models.RegisterInput{Email: " Ana@Aurora.app ", Name: "Ana", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "ana@aurora.app", res.User.Email)
	assert.NotEmpty(t, res.Token)

	claims := &tokenClaims{}
	_, err = jwt.ParseWithClaims(res.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithTimeFunc(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatInt(res.User.ID, 10), claims.Subject)
	assert.Equal(t, "ana@aurora.app", claims.Email)

	_, err = s.Register(ctx, models.RegisterInput{Email: "ana@aurora.app", Name: "Ana", Password: "secret123"})
	assert.ErrorIs(t, err, models.ErrConflict)

	login, err := s.Login(ctx, models.LoginInput{Email: "ANA@aurora.app", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	_, wrongPassword := s.Login(ctx, models.LoginInput{Email: "ana@aurora.app", Password: "nope"})
	_, unknownEmail := s.Login(ctx, models.LoginInput{Email: "bob@aurora.app", Password: "secret123"})
	assert.ErrorIs(t, wrongPassword, models.ErrUnauthorized)
	assert.ErrorIs(t, unknownEmail, models.ErrUnauthorized)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestRegister_Validation(t *testing.T) {
	s := createTestService(t)
	tests := []struct {
		name string
		in   models.RegisterInput
	}{
		{"bad email", models.RegisterInput{Email: "not-an-email", Name: "Ana", Password: "secret123"}},
		{"short name", models.RegisterInput{Email: "a@b.co", Name: "A", Password: "secret123"}},
		{"short password", models.RegisterInput{Email: "a@b.co", Name: "Ana", Password: "123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(context.Background(), tt.in)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestUpdatePreferences(t *testing.T) {
	s := createTestService(t)
	ctx := context.Background()
	u := seedUser(t, s, "pref@aurora.app")

	got, err := s.UpdatePreferences(ctx, u.ID, models.PreferencesInput{AIProvider: strPtr("Ollama")})
	require.NoError(t, err)
	assert.Equal(t, config.ProviderOllama, got.AIProvider)

	_, err = s.UpdatePreferences(ctx, u.ID, models.PreferencesInput{AIProvider: strPtr("skynet")})
	assert.ErrorIs(t, err, models.ErrValidation)

	got, err = s.UpdatePreferences(ctx, u.ID, models.PreferencesInput{AIProvider: strPtr("")})
	require.NoError(t, err)
	assert.Empty(t, got.AIProvider)
}

func TestAccounts_Lifecycle(t *testing.T) {
	s := createTestService(t)
	ctx := context.Background()
	u := seedUser(t, s, "acc@aurora.app")
	other := seedUser(t, s, "other@aurora.app")

	a, err := s.CreateAccount(ctx, u.ID, models.AccountInput{
		Name:    "Nómina",
		Type:    models.AccountTypeSavings,
		Balance: dec(250_000),
	})
	require.NoError(t, err)
	assert.Equal(t, "COP", a.Currency)
	assert.Equal(t, defaultAccountIcon, a.Icon)
	assertDecimal(t, 250_000, a.Balance)
	assertDecimal(t, 250_000, a.OpeningBalance)

	_, err = s.CreateAccount(ctx, u.ID, models.AccountInput{Name: "X", Type: "loan"})
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = s.CreateAccount(ctx, u.ID, models.AccountInput{Name: "X", Type: models.AccountTypeChecking, Currency: "DOLLARS"})
	assert.ErrorIs(t, err, models.ErrValidation)

	updated, err := s.UpdateAccount(ctx, u.ID, a.ID, models.AccountUpdate{Name: strPtr("Ahorros"), Currency: strPtr("usd")})
	require.NoError(t, err)
	assert.Equal(t, "Ahorros", updated.Name)
	assert.Equal(t, "USD", updated.Currency)
	assertDecimal(t, 250_000, updated.Balance)

	_, err = s.GetAccount(ctx, other.ID, a.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = s.UpdateAccount(ctx, other.ID, a.ID, models.AccountUpdate{Name: strPtr("Mine")})
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, s.DeleteAccount(ctx, other.ID, a.ID), models.ErrNotFound)

	require.NoError(t, s.DeleteAccount(ctx, u.ID, a.ID))
	list, err := s.ListAccounts(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNetWorth(t *testing.T) {
	s := createTestService(t)
	ctx := context.Background()
	u := seedUser(t, s, "nw@aurora.app")
	mustAccount(t, s, u.ID, models.AccountTypeChecking, "COP", 1000)
	mustAccount(t, s, u.ID, models.AccountTypeCredit, "COP", -300)
	mustAccount(t, s, u.ID, models.AccountTypeBrokerage, "USD", 100)

	t.Run("face value without rates", func(t *testing.T) {
		nw, err := s.NetWorth(ctx, u.ID)
		require.NoError(t, err)
		assertDecimal(t, 1100, nw.Assets)
		assertDecimal(t, 300, nw.Liabilities)
		assertDecimal(t, 800, nw.NetWorth)
		assert.Equal(t, "COP", nw.Currency)
	})

	t.Run("converted with rates", func(t *testing.T) {
		s.rates = &fakeRates{rates: &fx.Rates{Base: "EUR", Rates: map[string]decimal.Decimal{
			"USD": decimal.RequireFromString("1.1"),
			"COP": decimal.NewFromInt(4400),
		}}}
		defer func() { s.rates = nil }()

		nw, err := s.NetWorth(ctx, u.ID)
		require.NoError(t, err)
		assertDecimal(t, 401_000, nw.Assets)
		assertDecimal(t, 400_700, nw.NetWorth)
	})

	t.Run("feed failure falls back to face value", func(t *testing.T) {
		s.rates = &fakeRates{err: errors.New("feed down")}
		defer func() { s.rates = nil }()

		nw, err := s.NetWorth(ctx, u.ID)
		require.NoError(t, err)
		assertDecimal(t, 800, nw.NetWorth)
	})
}

func TestTransactions_ThroughLedger(t *testing.T) {
	s := createTestService(t)
	ctx := context.Background()
	u := seedUser(t, s, "tx@aurora.app")
	a := mustAccount(t, s, u.ID, models.AccountTypeChecking, "COP", 1_000_000)
	c := seedCategory(t, s, "Ingreso")

	income := mustPost(t, s, u.ID, a, c, 500_000, models.TransactionIncome, fixedNow)
	expense := mustPost(t, s, u.ID, a, c, 200_000, models.TransactionExpense, fixedNow)
	got, err := s.GetAccount(ctx, u.ID, a.ID)
	require.NoError(t, err)
	assertDecimal(t, 1_300_000, got.Balance)

	page, err := s.ListTransactions(ctx, u.ID, models.TransactionFilter{Limit: 5000})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	_, err = s.ListTransactions(ctx, u.ID, models.TransactionFilter{Type: "refund"})
	assert.ErrorIs(t, err, models.ErrValidation)

	require.NoError(t, s.DeleteTransaction(ctx, u.ID, expense.ID))
	require.NoError(t, s.DeleteTransaction(ctx, u.ID, income.ID))
	got, err = s.GetAccount(ctx, u.ID, a.ID)
	require.NoError(t, err)
	assertDecimal(t, 1_000_000, got.Balance)
}

func TestBudgets_SpentForCurrentPeriod(t *testing.T) {
	s := createTestService(t)
	ctx := context.Background()
	u := seedUser(t, s, "budget@aurora.app")
	a := mustAccount(t, s, u.ID, models.AccountTypeChecking, "COP", 0)
	food := seedCategory(t, s, "Comida")
	fun := seedCategory(t, s, "Ocio")

	mustPost(t, s, u.ID, a, food, 120, models.TransactionExpense, time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC))
	mustPost(t, s, u.ID, a, food, 80, models.TransactionExpense, time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC))
	mustPost(t, s, u.ID, a, food, 999, models.TransactionIncome, time.Date(2026, 10, 6, 0, 0, 0, 0, time.UTC))
	mustPost(t, s, u.ID, a, fun, 40, models.TransactionExpense, time.Date(2026, 10, 7, 0, 0, 0, 0, time.UTC))

	monthly, err := s.CreateBudget(ctx, u.ID, models.BudgetInput{CategoryID: food.ID, Amount: decimal.NewFromInt(500)})
	require.NoError(t, err)
	assert.Equal(t, models.PeriodMonthly, monthly.Period)
	assertDecimal(t, 120, monthly.Spent)
	assert.Equal(t, "Comida", monthly.Category.Name)

	yearly, err := s.UpdateBudget(ctx, u.ID, monthly.ID, models.BudgetUpdate{Period: periodPtr(models.PeriodYearly)})
	require.NoError(t, err)
	assertDecimal(t, 200, yearly.Spent)

	_, err = s.CreateBudget(ctx, u.ID, models.BudgetInput{CategoryID: 9999, Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = s.CreateBudget(ctx, u.ID, models.BudgetInput{CategoryID: food.ID, Amount: decimal.Zero})
	assert.ErrorIs(t, err, models.ErrValidation)

	other := seedUser(t, s, "other@aurora.app")
	_, err = s.UpdateBudget(ctx, other.ID, monthly.ID, models.BudgetUpdate{Amount: dec(1)})
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, s.DeleteBudget(ctx, other.ID, monthly.ID), models.ErrNotFound)

	list, err := s.ListBudgets(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assertDecimal(t, 200, list[0].Spent)
	require.NoError(t, s.DeleteBudget(ctx, u.ID, monthly.ID))
}

func periodPtr(p models.Period) *models.Period { return &p }

func TestGoals(t *testing.T) {
	s := createTestService(t)
	ctx := context.Background()
	u := seedUser(t, s, "goal@aurora.app")

	deadline := models.Date{Time: time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)}
	g, err := s.CreateGoal(ctx, u.ID, models.GoalInput{
		Name:         strPtr("Viaje"),
		TargetAmount: dec(1000),
		Deadline:     &deadline,
	})
	require.NoError(t, err)
	assert.Equal(t, defaultGoalColor, g.Color)
	require.NotNil(t, g.Deadline)
	assert.Zero(t, g.Progress)

	g, err = s.AddGoalFunds(ctx, u.ID, g.ID, models.GoalContribution{Amount: decimal.NewFromInt(255)})
	require.NoError(t, err)
	assertDecimal(t, 255, g.CurrentAmount)
	assert.InDelta(t, 25.5, g.Progress, 0.001)

	_, err = s.AddGoalFunds(ctx, u.ID, g.ID, models.GoalContribution{Amount: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, models.ErrValidation)

	g, err = s.UpdateGoal(ctx, u.ID, g.ID, models.GoalInput{ClearDeadline: true, CurrentAmount: dec(2000)})
	require.NoError(t, err)
	assert.Nil(t, g.Deadline)
	assert.Equal(t, 100.0, g.Progress)

	_, err = s.CreateGoal(ctx, u.ID, models.GoalInput{Name: strPtr("Casa")})
	assert.ErrorIs(t, err, models.ErrValidation)

	other := seedUser(t, s, "other@aurora.app")
	_, err = s.AddGoalFunds(ctx, other.ID, g.ID, models.GoalContribution{Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, s.DeleteGoal(ctx, other.ID, g.ID), models.ErrNotFound)
	require.NoError(t, s.DeleteGoal(ctx, u.ID, g.ID))
}

func TestSubscriptions(t *testing.T) {
	s := createTestService(t)
	ctx := context.Background()
	u := seedUser(t, s, "subs@aurora.app")
	next := models.Date{Time: time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)}

	sub, err := s.CreateSubscription(ctx, u.ID, models.SubscriptionInput{
		Name:            strPtr("Netflix"),
		Amount:          dec(38_900),
		NextBillingDate: &next,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PeriodMonthly, sub.Period)
	assert.Equal(t, "COP", sub.Currency)
	assert.True(t, sub.IsActive)

	_, err = s.CreateSubscription(ctx, u.ID, models.SubscriptionInput{Name: strPtr("Spotify"), Amount: dec(16_900)})
	assert.ErrorIs(t, err, models.ErrValidation)

	inactive := false
	yearly := models.PeriodYearly
	sub, err = s.UpdateSubscription(ctx, u.ID, sub.ID, models.SubscriptionInput{IsActive: &inactive, Period: &yearly})
	require.NoError(t, err)
	assert.False(t, sub.IsActive)
	assert.Equal(t, models.PeriodYearly, sub.Period)
	assert.Equal(t, "Netflix", sub.Name)

	other := seedUser(t, s, "other@aurora.app")
	assert.ErrorIs(t, s.DeleteSubscription(ctx, other.ID, sub.ID), models.ErrNotFound)
	require.NoError(t, s.DeleteSubscription(ctx, u.ID, sub.ID))
	list, err := s.ListSubscriptions(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAmounts_ScaleAndRange(t *testing.T) {
	s := createTestService(t)
	ctx := context.Background()
	u := seedUser(t, s, "cents@aurora.app")
	food := seedCategory(t, s, "Alimentación")
	next := models.Date{Time: time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)}
	amt := func(v string) *decimal.Decimal {
		d := decimal.RequireFromString(v)
		return &d
	}

	goal, err := s.CreateGoal(ctx, u.ID, models.GoalInput{Name: strPtr("Bici"), TargetAmount: amt("1200.50")})
	require.NoError(t, err)
	goal, err = s.AddGoalFunds(ctx, u.ID, goal.ID, models.GoalContribution{Amount: *amt("0.35")})
	require.NoError(t, err)
	assert.True(t, goal.CurrentAmount.Equal(*amt("0.35")), goal.CurrentAmount.String())

	budget, err := s.CreateBudget(ctx, u.ID, models.BudgetInput{CategoryID: food.ID, Amount: *amt("12.34")})
	require.NoError(t, err)
	budgets, err := s.ListBudgets(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.True(t, budgets[0].Amount.Equal(*amt("12.34")), budgets[0].Amount.String())

	tests := []struct {
		name string
		call func() error
	}{
		{"account balance sub-cent", func() error {
			_, err := s.CreateAccount(ctx, u.ID, models.AccountInput{
				Name: "Ahorros", Type: models.AccountTypeSavings, Balance: amt("10.001"),
			})
			return err
		}},
		{"account balance too large", func() error {
			_, err := s.CreateAccount(ctx, u.ID, models.AccountInput{
				Name: "Ahorros", Type: models.AccountTypeSavings, Balance: amt("-1e16"),
			})
			return err
		}},
		{"budget sub-cent", func() error {
			_, err := s.CreateBudget(ctx, u.ID, models.BudgetInput{CategoryID: food.ID, Amount: *amt("99.999")})
			return err
		}},
		{"budget update sub-cent", func() error {
			_, err := s.UpdateBudget(ctx, u.ID, budget.ID, models.BudgetUpdate{Amount: amt("0.005")})
			return err
		}},
		{"goal funds sub-cent", func() error {
			_, err := s.AddGoalFunds(ctx, u.ID, goal.ID, models.GoalContribution{Amount: *amt("0.001")})
			return err
		}},
		{"goal target too large", func() error {
			_, err := s.UpdateGoal(ctx, u.ID, goal.ID, models.GoalInput{TargetAmount: amt("1e20")})
			return err
		}},
		{"subscription sub-cent", func() error {
			_, err := s.CreateSubscription(ctx, u.ID, models.SubscriptionInput{
				Name: strPtr("iCloud"), Amount: amt("12.909"), NextBillingDate: &next,
			})
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), models.ErrValidation)
		})
	}

	accounts, err := s.ListAccounts(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, accounts)
	goal, err = s.repo.FindGoal(ctx, goal.ID, u.ID)
	require.NoError(t, err)
	assert.True(t, goal.CurrentAmount.Equal(*amt("0.35")))
}

func TestMonthlySummary(t *testing.T) {
	s := createTestService(t)
	ctx := context.Background()
	u := seedUser(t, s, "month@aurora.app")
	a := mustAccount(t, s, u.ID, models.AccountTypeChecking, "COP", 0)
	c := seedCategory(t, s, "General")

	empty, err := s.MonthlySummary(ctx, u.ID, 2026, time.October)
	require.NoError(t, err)
	assert.Zero(t, empty.SavingsRate)

	mustPost(t, s, u.ID, a, c, 3000, models.TransactionIncome, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
	mustPost(t, s, u.ID, a, c, 1000, models.TransactionExpense, time.Date(2026, 10, 31, 23, 0, 0, 0, time.UTC))
	mustPost(t, s, u.ID, a, c, 5000, models.TransactionExpense, time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC))

	got, err := s.MonthlySummary(ctx, u.ID, 2026, time.October)
	require.NoError(t, err)
	assertDecimal(t, 3000, got.TotalIncome)
	assertDecimal(t, 1000, got.TotalExpenses)
	assertDecimal(t, 2000, got.Savings)
	assert.Equal(t, 66.7, got.SavingsRate)

	_, err = s.MonthlySummary(ctx, u.ID, 2026, 13)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestDashboard(t *testing.T) {
	s := createTestService(t)
	ctx := context.Background()
	u := seedUser(t, s, "dash@aurora.app")
	a := mustAccount(t, s, u.ID, models.AccountTypeChecking, "COP", 10_000)
	food := seedCategory(t, s, "Comida")
	transport := seedCategory(t, s, "Transporte")

	for i := 0; i < 12; i++ {
		mustPost(t, s, u.ID, a, food, 100, models.TransactionExpense, time.Date(2026, 10, 1+i, 0, 0, 0, 0, time.UTC))
	}
	mustPost(t, s, u.ID, a, transport, 5000, models.TransactionExpense, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC))
	_, err := s.CreateGoal(ctx, u.ID, models.GoalInput{Name: strPtr("Fondo"), TargetAmount: dec(100)})
	require.NoError(t, err)

	d, err := s.Dashboard(ctx, u.ID)
	require.NoError(t, err)
	assertDecimal(t, 3800, d.NetWorth.NetWorth)
	assertDecimal(t, 6200, d.Monthly.TotalExpenses)
	require.Len(t, d.SpendingByCategory, 2)
	assert.Equal(t, "Transporte", d.SpendingByCategory[0].Category.Name)
	assert.Len(t, d.RecentTransactions, recentTransactions)
	assert.Len(t, d.Goals, 1)
	assert.Equal(t, fixedNow, d.GeneratedAt)
}

func TestRunBillingSweep(t *testing.T) {
	s := createTestService(t)
	ctx := context.Background()
	mailer := &fakeMailer{fail: map[string]bool{"Broken": true}}
	s.mailer = mailer
	u := seedUser(t, s, "bill@aurora.app")

	create := func(name string, period models.Period, next time.Time, active bool) *models.Subscription {
		d := models.Date{Time: next}
		sub, err := s.CreateSubscription(ctx, u.ID, models.SubscriptionInput{
			Name:            strPtr(name),
			Amount:          dec(10),
			Period:          &period,
			NextBillingDate: &d,
			IsActive:        &active,
		})
		require.NoError(t, err)
		return sub
	}
	monthly := create("Gym", models.PeriodMonthly, time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC), true)
	yearly := create("Domain", models.PeriodYearly, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), true)
	paused := create("Paused", models.PeriodMonthly, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), false)
	create("Spotify", models.PeriodMonthly, time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), true)
	create("Broken", models.PeriodMonthly, time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), true)
	create("Later", models.PeriodMonthly, time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC), true)

	report, err := s.RunBillingSweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, &BillingReport{Advanced: 2, Reminded: 1, Failures: 1}, report)

	got, err := s.repo.FindSubscription(ctx, monthly.ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-11-10", got.NextBillingDate.Format("2006-01-02"))
	got, err = s.repo.FindSubscription(ctx, yearly.ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "2027-10-01", got.NextBillingDate.Format("2006-01-02"))
	got, err = s.repo.FindSubscription(ctx, paused.ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01", got.NextBillingDate.Format("2006-01-02"))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Spotify", mailer.sent[0].Name)
	assert.Equal(t, "bill@aurora.app", mailer.sent[0].Email)

	again, err := s.RunBillingSweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.Advanced)
}

func TestSendBillingReminders_NoMailer(t *testing.T) {
	s := createTestService(t)
	sent, failed, err := s.SendBillingReminders(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Zero(t, failed)
}

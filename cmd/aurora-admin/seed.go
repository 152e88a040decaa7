package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/aurora/internal/models"
	"github.com/shopspring/decimal"
)

type seedSummary struct {
	Email         string `json:"email"`
	Categories    int    `json:"categories"`
	Accounts      int    `json:"accounts"`
	Transactions  int    `json:"transactions"`
	Goals         int    `json:"goals"`
	Budgets       int    `json:"budgets"`
	Subscriptions int    `json:"subscriptions"`
}

func (s seedSummary) String() string {
	return fmt.Sprintf("Seeded %s: %d categories, %d accounts, %d transactions, %d goals, %d budgets, %d subscriptions",
		s.Email, s.Categories, s.Accounts, s.Transactions, s.Goals, s.Budgets, s.Subscriptions)
}

var seedCategories = []models.Category{
	{Name: "Vivienda", Icon: "fa-home", Color: "#06d6a0"},
	{Name: "Alimentación", Icon: "fa-utensils", Color: "#00b4d8"},
	{Name: "Transporte", Icon: "fa-car", Color: "#7c3aed"},
	{Name: "Suscripciones", Icon: "fa-tv", Color: "#f59e0b"},
	{Name: "Entretenimiento", Icon: "fa-film", Color: "#ef4444"},
	{Name: "Salud", Icon: "fa-heart-pulse", Color: "#ec4899"},
	{Name: "Compras", Icon: "fa-shopping-bag", Color: "#14b8a6"},
	{Name: "Educación", Icon: "fa-graduation-cap", Color: "#8b5cf6"},
	{Name: "Ingreso", Icon: "fa-money-bill", Color: "#22c55e"},
	{Name: "Otros", Icon: "fa-ellipsis", Color: "#64748b"},
}

type seedAccount struct {
	name, institution, color, icon string
	typ                            models.AccountType
	balance                        int64
}

var seedAccounts = []seedAccount{
	{"Fondo Pensión Obligatoria", "Porvenir", "#06d6a0", "fa-shield-alt", models.AccountTypeRetirementTaxDeferred, 45_000_000},
	{"Pensión Voluntaria", "Skandia", "#7c3aed", "fa-gem", models.AccountTypeRetirementVoluntary, 18_500_000},
	{"CDT Inversión", "Bancolombia", "#00b4d8", "fa-chart-line", models.AccountTypeBrokerage, 25_000_000},
	{"Crypto", "Binance", "#f59e0b", "fa-bitcoin", models.AccountTypeCrypto, 3_200_000},
	{"Cuenta Corriente", "Bancolombia", "#3b82f6", "fa-money-check", models.AccountTypeChecking, 5_800_000},
	{"Cuenta Ahorros", "Davivienda", "#10b981", "fa-piggy-bank", models.AccountTypeSavings, 22_000_000},
	{"Tarjeta Visa", "Bancolombia", "#ef4444", "fa-credit-card", models.AccountTypeCredit, -2_350_000},
}

// seedExpense is an expense on a given day of a month offset from the current one.
type seedExpense struct {
	merchant, category string
	amount             int64
	monthOffset, day   int
}

var seedExpenses = []seedExpense{
	{"Arriendo Apartamento", "Vivienda", 2_200_000, 0, 1},
	{"Admin Edificio", "Vivienda", 380_000, 0, 1},
	{"Starbucks", "Alimentación", 18_500, 0, 2},
	{"Starbucks", "Alimentación", 22_000, 0, 5},
	{"Starbucks", "Alimentación", 25_000, 0, 12},
	{"Rappi", "Alimentación", 45_000, 0, 3},
	{"Crepes & Waffles", "Alimentación", 65_000, 0, 7},
	{"Éxito Supermercado", "Alimentación", 320_000, 0, 6},
	{"Amazon Colombia", "Compras", 189_000, 0, 4},
	{"Netflix", "Suscripciones", 33_900, 0, 1},
	{"Spotify", "Suscripciones", 16_900, 0, 1},
	{"Terpel Gasolina", "Transporte", 120_000, 0, 5},
	{"Uber", "Transporte", 28_500, 0, 9},
	{"Cine Colombia", "Entretenimiento", 52_000, 0, 8},
	{"Farmacia Pasteur", "Salud", 85_000, 0, 6},
	{"Platzi", "Educación", 99_000, 0, 3},
	{"Arriendo Apartamento", "Vivienda", 2_200_000, -1, 1},
	{"Admin Edificio", "Vivienda", 380_000, -1, 1},
	{"Starbucks", "Alimentación", 18_500, -1, 3},
	{"Starbucks", "Alimentación", 22_000, -1, 11},
	{"Éxito Supermercado", "Alimentación", 385_000, -1, 8},
	{"Netflix", "Suscripciones", 33_900, -1, 1},
	{"Spotify", "Suscripciones", 16_900, -1, 1},
	{"Terpel Gasolina", "Transporte", 115_000, -1, 4},
	{"Amazon Colombia", "Compras", 345_000, -1, 10},
	{"Bodytech Gym", "Salud", 165_000, -1, 1},
}

type seedGoal struct {
	name            string
	target, current int64
	color           string
}

var seedGoals = []seedGoal{
	{"Fondo de Emergencia", 30_000_000, 15_000_000, "#06d6a0"},
	{"Vacaciones Europa", 12_000_000, 5_800_000, "#00b4d8"},
	{"Cuota Inicial Apto", 80_000_000, 22_000_000, "#7c3aed"},
	{"MacBook Pro", 10_000_000, 7_200_000, "#f59e0b"},
}

var seedBudgets = map[string]int64{
	"Alimentación":    1_200_000,
	"Transporte":      400_000,
	"Entretenimiento": 350_000,
	"Suscripciones":   200_000,
	"Compras":         500_000,
}

var seedSubscriptions = map[string]int64{
	"Netflix":      33_900,
	"Spotify":      16_900,
	"ChatGPT Plus": 85_000,
	"iCloud":       12_900,
}

// seedDemo creates a demo user and their data. Every transaction is posted
// through the ledger. Transactions dated after today are skipped.
func seedDemo(ctx context.Context, a *app, email, password string) (*seedSummary, error) {
	res, err := a.svc.Register(ctx, models.RegisterInput{Email: email, Name: "Nicolás G.", Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to create demo user: %w", err)
	}
	uid := res.User.ID
	summary := &seedSummary{Email: res.User.Email}

	categories, err := ensureCategories(ctx, a)
	if err != nil {
		return nil, err
	}
	summary.Categories = len(categories)

	accounts := make(map[string]int64, len(seedAccounts))
	for _, sa := range seedAccounts {
		balance := decimal.NewFromInt(sa.balance)
		acc, err := a.svc.CreateAccount(ctx, uid, models.AccountInput{
			Name: sa.name, Type: sa.typ, Institution: sa.institution,
			Balance: &balance, Color: sa.color, Icon: sa.icon,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create account %s: %w", sa.name, err)
		}
		accounts[sa.name] = acc.ID
		summary.Accounts++
	}

	now := time.Now().UTC()
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	checking := accounts["Cuenta Corriente"]
	post := func(in models.TransactionInput) error {
		if in.Date.After(now) {
			return nil
		}
		if _, err := a.svc.PostTransaction(ctx, uid, in); err != nil {
			return fmt.Errorf("failed to post %s: %w", in.Merchant, err)
		}
		summary.Transactions++
		return nil
	}

	for m := 0; m < 3; m++ {
		payday := month.AddDate(0, -m, 14)
		incomes := []models.TransactionInput{
			{Merchant: "Nómina Empresa", Amount: decimal.NewFromInt(7_500_000), Date: models.Date{Time: payday}},
			{Merchant: "Freelance", Amount: decimal.NewFromInt(2_500_000), Date: models.Date{Time: payday.AddDate(0, 0, 10)}},
		}
		for _, in := range incomes {
			in.AccountID, in.CategoryID, in.Type = checking, categories["Ingreso"], models.TransactionIncome
			if err := post(in); err != nil {
				return nil, err
			}
		}
	}
	for _, e := range seedExpenses {
		err := post(models.TransactionInput{
			AccountID:  checking,
			CategoryID: categories[e.category],
			Amount:     decimal.NewFromInt(e.amount),
			Type:       models.TransactionExpense,
			Merchant:   e.merchant,
			Date:       models.Date{Time: month.AddDate(0, e.monthOffset, e.day-1)},
		})
		if err != nil {
			return nil, err
		}
	}

	for _, g := range seedGoals {
		name, color := g.name, g.color
		target, current := decimal.NewFromInt(g.target), decimal.NewFromInt(g.current)
		_, err := a.svc.CreateGoal(ctx, uid, models.GoalInput{
			Name: &name, TargetAmount: &target, CurrentAmount: &current, Color: &color,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create goal %s: %w", g.name, err)
		}
		summary.Goals++
	}

	for category, amount := range seedBudgets {
		_, err := a.svc.CreateBudget(ctx, uid, models.BudgetInput{
			CategoryID: categories[category],
			Amount:     decimal.NewFromInt(amount),
			Period:     models.PeriodMonthly,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create budget for %s: %w", category, err)
		}
		summary.Budgets++
	}

	nextBilling := models.Date{Time: month.AddDate(0, 1, 0)}
	for name, amount := range seedSubscriptions {
		name, price := name, decimal.NewFromInt(amount)
		_, err := a.svc.CreateSubscription(ctx, uid, models.SubscriptionInput{
			Name: &name, Amount: &price, NextBillingDate: &nextBilling,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create subscription %s: %w", name, err)
		}
		summary.Subscriptions++
	}

	return summary, nil
}

// ensureCategories creates the reference categories that do not exist yet
// and returns every seed category's id by name.
func ensureCategories(ctx context.Context, a *app) (map[string]int64, error) {
	existing, err := a.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]int64, len(seedCategories))
	for _, c := range existing {
		ids[c.Name] = c.ID
	}
	for _, c := range seedCategories {
		if _, ok := ids[c.Name]; ok {
			continue
		}
		c := c
		if err := a.repo.CreateCategory(ctx, &c); err != nil {
			return nil, fmt.Errorf("failed to create category %s: %w", c.Name, err)
		}
		ids[c.Name] = c.ID
	}
	return ids, nil
}

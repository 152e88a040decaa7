package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// NetWorth splits a user's active balances into assets and liabilities
type NetWorth struct {
	Assets      decimal.Decimal `json:"assets"`
	Liabilities decimal.Decimal `json:"liabilities"`
	NetWorth    decimal.Decimal `json:"netWorth"`
	Currency    string          `json:"currency"`
}

// MonthlySummary represents monthly income and expense statistics
type MonthlySummary struct {
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	Savings       decimal.Decimal `json:"savings"`
	SavingsRate   float64         `json:"savingsRate"` // percent of income, one decimal
}

// CategorySpending is the expense total for one category in a window
type CategorySpending struct {
	Category *Category       `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// Dashboard bundles everything the overview page and the assistant need
type Dashboard struct {
	NetWorth           NetWorth            `json:"netWorth"`
	Monthly            MonthlySummary      `json:"monthly"`
	SpendingByCategory []*CategorySpending `json:"spendingByCategory"`
	RecentTransactions []*Transaction      `json:"recentTransactions"`
	Goals              []*Goal             `json:"goals"`
	GeneratedAt        time.Time           `json:"generatedAt"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period is the recurrence of a budget or subscription.
type Period string

const (
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// Valid reports whether p is monthly or yearly.
func (p Period) Valid() bool {
	return p == PeriodMonthly || p == PeriodYearly
}

// Next returns t advanced by one period.
func (p Period) Next(t time.Time) time.Time {
	if p == PeriodYearly {
		return t.AddDate(1, 0, 0)
	}
	return t.AddDate(0, 1, 0)
}

// Bounds returns the half-open [start, end) window of the period containing t.
func (p Period) Bounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	if p == PeriodYearly {
		start := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0)
	}
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// Budget is a spending ceiling for one category. Spent is derived on read.
type Budget struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"userId"`
	CategoryID int64           `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
	Period     Period          `json:"period"`
	Spent      decimal.Decimal `json:"spent"`
	CreatedAt  time.Time       `json:"createdAt"`
	Category   *Category       `json:"category,omitempty"`
}

// BudgetInput is the body accepted when creating a budget.
type BudgetInput struct {
	CategoryID int64           `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
	Period     Period          `json:"period"`
}

// BudgetUpdate carries the mutable budget fields. Nil fields are left untouched.
type BudgetUpdate struct {
	Amount *decimal.Decimal `json:"amount"`
	Period *Period          `json:"period"`
}

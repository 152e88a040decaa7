package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Subscription is a recurring charge reminder. It has no effect on any balance.
type Subscription struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"userId"`
	Name            string          `json:"name"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Period          Period          `json:"period"`
	NextBillingDate time.Time       `json:"nextBillingDate"`
	IsActive        bool            `json:"isActive"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// SubscriptionInput is the body accepted by subscription create and update.
type SubscriptionInput struct {
	Name            *string          `json:"name"`
	Amount          *decimal.Decimal `json:"amount"`
	Currency        *string          `json:"currency"`
	Period          *Period          `json:"period"`
	NextBillingDate *Date            `json:"nextBillingDate"`
	IsActive        *bool            `json:"isActive"`
}

// SubscriptionReminder is an upcoming charge joined with its owner's contact details.
type SubscriptionReminder struct {
	Subscription
	Email    string
	UserName string
}

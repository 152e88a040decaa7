package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a transaction.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Valid reports whether t is income or expense.
func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Transaction represents a financial transaction. Amount is always positive;
// the sign of its effect on the account comes from Type.
type Transaction struct {
	ID          int64           `json:"id"`
	AccountID   int64           `json:"accountId"`
	CategoryID  int64           `json:"categoryId"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Merchant    string          `json:"merchant"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
	Category    *Category       `json:"category,omitempty"`
	AccountName string          `json:"accountName,omitempty"`
	AccountType AccountType     `json:"accountType,omitempty"`
}

// Delta returns the signed change this transaction applies to its account.
func (t *Transaction) Delta() decimal.Decimal {
	if t.Type == TransactionIncome {
		return t.Amount
	}
	return t.Amount.Neg()
}

// TransactionInput is the body accepted by POST /transactions.
type TransactionInput struct {
	AccountID  int64           `json:"accountId"`
	CategoryID int64           `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
	Type       TransactionType `json:"type"`
	Merchant   string          `json:"merchant"`
	Date       Date            `json:"date"`
}

// TransactionFilter narrows a transaction listing. Dates select the
// half-open range [StartDate, EndDate).
type TransactionFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	AccountID  int64
	CategoryID int64
	Merchant   string
	Type       TransactionType
	Limit      int
	Offset     int
}

// TransactionPage is one page of a transaction listing.
type TransactionPage struct {
	Transactions []*Transaction `json:"transactions"`
	Total        int            `json:"total"`
}

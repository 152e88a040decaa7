package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType enumerates the kinds of accounts a user can hold.
type AccountType string

const (
	AccountTypeChecking  AccountType = "checking"
	AccountTypeSavings   AccountType = "savings"
	AccountTypeCredit    AccountType = "credit"
	AccountTypeBrokerage AccountType = "brokerage"
	AccountTypeCrypto    AccountType = "crypto"
	// AccountTypeRetirementTaxDeferred is a mandatory pension fund.
	AccountTypeRetirementTaxDeferred AccountType = "401k"
	// AccountTypeRetirementVoluntary is a voluntary pension fund.
	AccountTypeRetirementVoluntary AccountType = "ira"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeCredit, AccountTypeBrokerage,
		AccountTypeCrypto, AccountTypeRetirementTaxDeferred, AccountTypeRetirementVoluntary:
		return true
	}
	return false
}

// IsLiability reports whether balances of this type count against net worth.
func (t AccountType) IsLiability() bool {
	return t == AccountTypeCredit
}

// Account holds a user's balance in one currency.
// Balance is maintained by the ledger and always equals OpeningBalance plus
// the signed sum of the account's transactions.
type Account struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"userId"`
	Name           string          `json:"name"`
	Type           AccountType     `json:"type"`
	Institution    string          `json:"institution"`
	Balance        decimal.Decimal `json:"balance"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Currency       string          `json:"currency"`
	Color          string          `json:"color"`
	Icon           string          `json:"icon"`
	IsActive       bool            `json:"isActive"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// AccountInput is the body accepted when creating an account.
type AccountInput struct {
	Name        string           `json:"name"`
	Type        AccountType      `json:"type"`
	Institution string           `json:"institution"`
	Balance     *decimal.Decimal `json:"balance"`
	Currency    string           `json:"currency"`
	Color       string           `json:"color"`
	Icon        string           `json:"icon"`
}

// AccountUpdate carries the mutable account fields. Nil fields are left untouched.
type AccountUpdate struct {
	Name        *string      `json:"name"`
	Type        *AccountType `json:"type"`
	Institution *string      `json:"institution"`
	Currency    *string      `json:"currency"`
	Color       *string      `json:"color"`
	Icon        *string      `json:"icon"`
}

// AccountTotals pairs an account's stored balance with the totals derived from its ledger.
type AccountTotals struct {
	AccountID      int64
	UserID         int64
	Name           string
	Balance        decimal.Decimal
	OpeningBalance decimal.Decimal
	LedgerNet      decimal.Decimal
}

// Package ledger keeps every account's stored balance equal to its opening
// balance plus the signed sum of its transactions.
//
// Each mutation runs inside a single store transaction and adjusts the
// balance with a relative increment, so concurrent posts and deletes on the
// same account never lose an update. Ownership of a transaction is resolved
// through its account; a transaction or account that belongs to someone else
// is reported exactly like one that does not exist.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dan9191/aurora/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Tx is the unit of work the ledger mutates through. Implementations must
// apply IncrementBalance as a relative update evaluated by the store.
type Tx interface {
	FindAccount(ctx context.Context, accountID int64) (*models.Account, error)
	FindCategory(ctx context.Context, categoryID int64) (*models.Category, error)
	FindTransaction(ctx context.Context, transactionID int64) (*models.Transaction, error)
	InsertTransaction(ctx context.Context, t *models.Transaction) error
	DeleteTransaction(ctx context.Context, transactionID int64) error
	IncrementBalance(ctx context.Context, accountID int64, delta decimal.Decimal) error
}

// Store opens units of work. WithinTx commits when fn returns nil and rolls
// back otherwise.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
	AccountTotals(ctx context.Context) ([]models.AccountTotals, error)
}

// Ledger is the only writer of Account.Balance.
type Ledger struct {
	store Store
	log   *logrus.Logger
}

// New creates a ledger over store.
func New(store Store, log *logrus.Logger) *Ledger {
	return &Ledger{store: store, log: log}
}

// Post records a transaction against one of userID's active accounts and
// moves the account balance by the transaction's signed amount.
func (l *Ledger) Post(ctx context.Context, userID int64, in models.TransactionInput) (*models.Transaction, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	t := &models.Transaction{
		AccountID:  in.AccountID,
		CategoryID: in.CategoryID,
		Amount:     in.Amount,
		Type:       in.Type,
		Merchant:   strings.TrimSpace(in.Merchant),
		Date:       in.Date.Time,
	}

	err := l.store.WithinTx(ctx, func(tx Tx) error {
		account, err := tx.FindAccount(ctx, in.AccountID)
		if err != nil {
			return err
		}
		if account.UserID != userID || !account.IsActive {
			return fmt.Errorf("account %d: %w", in.AccountID, models.ErrNotFound)
		}

		_, err = tx.FindCategory(ctx, in.CategoryID)
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("%w: unknown category %d", models.ErrValidation, in.CategoryID)
		}
		if err != nil {
			return err
		}

		if err := tx.InsertTransaction(ctx, t); err != nil {
			return err
		}
		if err := tx.IncrementBalance(ctx, account.ID, t.Delta()); err != nil {
			return err
		}

		// Reload so the result carries the stored amount and date with the
		// joined category and account.
		t, err = tx.FindTransaction(ctx, t.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	l.log.WithFields(logrus.Fields{
		"transaction_id": t.ID,
		"account_id":     t.AccountID,
		"delta":          t.Delta().String(),
	}).Info("Transaction posted")
	return t, nil
}

// Delete removes one of userID's transactions and reverses its effect on
// the account balance.
func (l *Ledger) Delete(ctx context.Context, userID, transactionID int64) error {
	var reversed decimal.Decimal
	var accountID int64

	err := l.store.WithinTx(ctx, func(tx Tx) error {
		t, err := tx.FindTransaction(ctx, transactionID)
		if err != nil {
			return err
		}
		account, err := tx.FindAccount(ctx, t.AccountID)
		if errors.Is(err, models.ErrNotFound) || (err == nil && account.UserID != userID) {
			return fmt.Errorf("transaction %d: %w", transactionID, models.ErrNotFound)
		}
		if err != nil {
			return err
		}

		reversed = t.Delta().Neg()
		accountID = account.ID
		if err := tx.IncrementBalance(ctx, account.ID, reversed); err != nil {
			return err
		}
		return tx.DeleteTransaction(ctx, transactionID)
	})
	if err != nil {
		return err
	}

	l.log.WithFields(logrus.Fields{
		"transaction_id": transactionID,
		"account_id":     accountID,
		"delta":          reversed.String(),
	}).Info("Transaction deleted")
	return nil
}

// Drift describes an account whose stored balance disagrees with its ledger.
type Drift struct {
	AccountID int64
	UserID    int64
	Name      string
	Stored    decimal.Decimal
	Expected  decimal.Decimal
}

// Difference is Stored minus Expected.
func (d Drift) Difference() decimal.Decimal {
	return d.Stored.Sub(d.Expected)
}

// Verify recomputes every account balance from its ledger and returns the
// accounts that do not match.
func (l *Ledger) Verify(ctx context.Context) ([]Drift, error) {
	totals, err := l.store.AccountTotals(ctx)
	if err != nil {
		return nil, err
	}
	var drifts []Drift
	for _, t := range totals {
		expected := t.OpeningBalance.Add(t.LedgerNet)
		if !t.Balance.Equal(expected) {
			drifts = append(drifts, Drift{
				AccountID: t.AccountID,
				UserID:    t.UserID,
				Name:      t.Name,
				Stored:    t.Balance,
				Expected:  expected,
			})
		}
	}
	return drifts, nil
}

func validate(in models.TransactionInput) error {
	if !in.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", models.ErrValidation)
	}
	if err := models.CheckAmount("amount", in.Amount); err != nil {
		return err
	}
	if !in.Type.Valid() {
		return fmt.Errorf("%w: type must be income or expense", models.ErrValidation)
	}
	if in.AccountID <= 0 {
		return fmt.Errorf("%w: accountId is required", models.ErrValidation)
	}
	if in.CategoryID <= 0 {
		return fmt.Errorf("%w: categoryId is required", models.ErrValidation)
	}
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date is required", models.ErrValidation)
	}
	return nil
}

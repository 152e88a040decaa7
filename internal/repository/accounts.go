package repository

import (
	"context"

	"github.com/Dan9191/aurora/internal/models"
)

const accountColumns = `id, user_id, name, type, institution, balance, opening_balance, currency, color, icon, is_active, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(s scanner) (*models.Account, error) {
	a := &models.Account{}
	err := s.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.Institution, major(&a.Balance), major(&a.OpeningBalance),
		&a.Currency, &a.Color, &a.Icon, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// CreateAccount creates a new account in the database. The opening balance
// seeds the stored balance.
func (r *Repository) CreateAccount(ctx context.Context, account *models.Account) error {
	account.CreatedAt = now()
	account.UpdatedAt = account.CreatedAt
	account.Balance = account.OpeningBalance
	account.IsActive = true
	query := `
		INSERT INTO accounts (user_id, name, type, institution, balance, opening_balance, currency, color, icon, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5, $6, $7, $8, $9, $10, $10)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query, account.UserID, account.Name, account.Type, account.Institution,
		minor(account.OpeningBalance), account.Currency, account.Color, account.Icon, account.IsActive, account.CreatedAt).
		Scan(&account.ID)
	return wrapErr(err, "create account")
}

// ListAccounts returns the user's active accounts ordered by type
func (r *Repository) ListAccounts(ctx context.Context, userID int64) ([]*models.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 AND is_active = $2 ORDER BY type, id`,
		userID, true)
	if err != nil {
		return nil, wrapErr(err, "list accounts")
	}
	defer rows.Close()

	accounts := []*models.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, wrapErr(err, "scan account")
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// FindAccount retrieves an account by id and owner
func (r *Repository) FindAccount(ctx context.Context, id, userID int64) (*models.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		return nil, wrapErr(err, "account %d", id)
	}
	return a, nil
}

// UpdateAccount writes the descriptive fields of an account. Balance is not
// touched here; only the ledger moves it.
func (r *Repository) UpdateAccount(ctx context.Context, a *models.Account) error {
	a.UpdatedAt = now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET name = $1, type = $2, institution = $3, currency = $4, color = $5, icon = $6, updated_at = $7
		WHERE id = $8 AND user_id = $9`,
		a.Name, a.Type, a.Institution, a.Currency, a.Color, a.Icon, a.UpdatedAt, a.ID, a.UserID)
	if err != nil {
		return wrapErr(err, "update account %d", a.ID)
	}
	return expectOne(res, "account %d", a.ID)
}

// DeactivateAccount marks an account inactive; accounts are never hard-deleted
func (r *Repository) DeactivateAccount(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET is_active = $1, updated_at = $2 WHERE id = $3 AND user_id = $4`,
		false, now(), id, userID)
	if err != nil {
		return wrapErr(err, "deactivate account %d", id)
	}
	return expectOne(res, "account %d", id)
}

// AccountTotals returns every account's stored balance next to the signed
// sum of its transactions.
func (r *Repository) AccountTotals(ctx context.Context) ([]models.AccountTotals, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, a.user_id, a.name, a.balance, a.opening_balance,
			COALESCE(SUM(CASE WHEN t.type = $1 THEN t.amount ELSE -t.amount END), 0)
		FROM accounts a
		LEFT JOIN transactions t ON t.account_id = a.id
		GROUP BY a.id, a.user_id, a.name, a.balance, a.opening_balance
		ORDER BY a.id`, models.TransactionIncome)
	if err != nil {
		return nil, wrapErr(err, "compute account totals")
	}
	defer rows.Close()

	var totals []models.AccountTotals
	for rows.Next() {
		var t models.AccountTotals
		if err := rows.Scan(&t.AccountID, &t.UserID, &t.Name, major(&t.Balance), major(&t.OpeningBalance), major(&t.LedgerNet)); err != nil {
			return nil, wrapErr(err, "scan account totals")
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func findAccountForUpdate(ctx context.Context, q querier, id int64, lock string) (*models.Account, error) {
	a, err := scanAccount(q.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`+lock, id))
	if err != nil {
		return nil, wrapErr(err, "account %d", id)
	}
	return a, nil
}

package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Dan9191/aurora/internal/ledger"
	"github.com/Dan9191/aurora/internal/models"
	"github.com/shopspring/decimal"
)

const transactionSelect = `
	SELECT t.id, t.account_id, t.category_id, t.amount, t.type, t.merchant, t.date, t.created_at,
		c.id, c.name, c.icon, c.color, a.name, a.type
	FROM transactions t
	JOIN accounts a ON a.id = t.account_id
	JOIN categories c ON c.id = t.category_id`

func scanTransaction(s scanner) (*models.Transaction, error) {
	t := &models.Transaction{Category: &models.Category{}}
	err := s.Scan(&t.ID, &t.AccountID, &t.CategoryID, major(&t.Amount), &t.Type, &t.Merchant, &t.Date, &t.CreatedAt,
		&t.Category.ID, &t.Category.Name, &t.Category.Icon, &t.Category.Color, &t.AccountName, &t.AccountType)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// args accumulates positional parameters and hands out their placeholders.
type args []any

func (a *args) add(v any) string {
	*a = append(*a, v)
	return fmt.Sprintf("$%d", len(*a))
}

// ListTransactions returns a page of the user's transactions, newest first,
// together with the total number of matches.
func (r *Repository) ListTransactions(ctx context.Context, userID int64, f models.TransactionFilter) (*models.TransactionPage, error) {
	var params args
	conds := []string{"a.user_id = " + params.add(userID)}
	if f.StartDate != nil {
		conds = append(conds, "t.date >= "+params.add(f.StartDate.UTC()))
	}
	if f.EndDate != nil {
		conds = append(conds, "t.date < "+params.add(f.EndDate.UTC()))
	}
	if f.AccountID > 0 {
		conds = append(conds, "t.account_id = "+params.add(f.AccountID))
	}
	if f.CategoryID > 0 {
		conds = append(conds, "t.category_id = "+params.add(f.CategoryID))
	}
	if f.Merchant != "" {
		conds = append(conds, "LOWER(t.merchant) LIKE "+params.add("%"+strings.ToLower(f.Merchant)+"%"))
	}
	if f.Type != "" {
		conds = append(conds, "t.type = "+params.add(f.Type))
	}
	where := " WHERE " + strings.Join(conds, " AND ")

	page := &models.TransactionPage{Transactions: []*models.Transaction{}}
	countQuery := `
		SELECT COUNT(*)
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id` + where
	if err := r.db.QueryRowContext(ctx, countQuery, params...).Scan(&page.Total); err != nil {
		return nil, wrapErr(err, "count transactions")
	}

	listParams := append(args{}, params...)
	query := transactionSelect + where + " ORDER BY t.date DESC, t.id DESC LIMIT " +
		listParams.add(f.Limit) + " OFFSET " + listParams.add(f.Offset)
	rows, err := r.db.QueryContext(ctx, query, listParams...)
	if err != nil {
		return nil, wrapErr(err, "list transactions")
	}
	defer rows.Close()

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, wrapErr(err, "scan transaction")
		}
		page.Transactions = append(page.Transactions, t)
	}
	return page, rows.Err()
}

// ledgerTx implements ledger.Tx on top of a database transaction.
type ledgerTx struct {
	q         querier
	forUpdate string
}

func (tx *ledgerTx) FindAccount(ctx context.Context, accountID int64) (*models.Account, error) {
	return findAccountForUpdate(ctx, tx.q, accountID, tx.forUpdate)
}

func (tx *ledgerTx) FindCategory(ctx context.Context, categoryID int64) (*models.Category, error) {
	return findCategory(ctx, tx.q, categoryID)
}

func (tx *ledgerTx) FindTransaction(ctx context.Context, transactionID int64) (*models.Transaction, error) {
	t, err := scanTransaction(tx.q.QueryRowContext(ctx, transactionSelect+` WHERE t.id = $1`, transactionID))
	if err != nil {
		return nil, wrapErr(err, "transaction %d", transactionID)
	}
	return t, nil
}

func (tx *ledgerTx) InsertTransaction(ctx context.Context, t *models.Transaction) error {
	t.CreatedAt = now()
	t.Date = t.Date.UTC()
	err := tx.q.QueryRowContext(ctx, `
		INSERT INTO transactions (account_id, category_id, amount, type, merchant, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		t.AccountID, t.CategoryID, minor(t.Amount), t.Type, t.Merchant, t.Date, t.CreatedAt).Scan(&t.ID)
	return wrapErr(err, "insert transaction")
}

func (tx *ledgerTx) DeleteTransaction(ctx context.Context, transactionID int64) error {
	res, err := tx.q.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, transactionID)
	if err != nil {
		return wrapErr(err, "delete transaction %d", transactionID)
	}
	return expectOne(res, "transaction %d", transactionID)
}

// IncrementBalance adds delta to the stored balance in a single UPDATE; the
// current balance is never read into the application.
func (tx *ledgerTx) IncrementBalance(ctx context.Context, accountID int64, delta decimal.Decimal) error {
	res, err := tx.q.ExecContext(ctx,
		`UPDATE accounts SET balance = balance + $1, updated_at = $2 WHERE id = $3`,
		minor(delta), now(), accountID)
	if err != nil {
		return wrapErr(err, "increment balance of account %d", accountID)
	}
	return expectOne(res, "account %d", accountID)
}

var _ ledger.Tx = (*ledgerTx)(nil)

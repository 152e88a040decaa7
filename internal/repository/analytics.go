package repository

import (
	"context"
	"time"

	"github.com/Dan9191/aurora/internal/models"
	"github.com/shopspring/decimal"
)

// SumTransactions totals the user's transactions of one type in [from, to)
func (r *Repository) SumTransactions(ctx context.Context, userID int64, typ models.TransactionType, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(t.amount), 0)
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE a.user_id = $1 AND t.type = $2 AND t.date >= $3 AND t.date < $4`,
		userID, typ, from.UTC(), to.UTC()).Scan(major(&total))
	if err != nil {
		return decimal.Zero, wrapErr(err, "sum %s transactions", typ)
	}
	return total, nil
}

// SumCategoryExpenses totals the user's expenses in one category in [from, to)
func (r *Repository) SumCategoryExpenses(ctx context.Context, userID, categoryID int64, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(t.amount), 0)
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE a.user_id = $1 AND t.category_id = $2 AND t.type = $3 AND t.date >= $4 AND t.date < $5`,
		userID, categoryID, models.TransactionExpense, from.UTC(), to.UTC()).Scan(major(&total))
	if err != nil {
		return decimal.Zero, wrapErr(err, "sum expenses of category %d", categoryID)
	}
	return total, nil
}

// SpendingByCategory groups the user's expenses in [from, to) by category, largest first
func (r *Repository) SpendingByCategory(ctx context.Context, userID int64, from, to time.Time) ([]*models.CategorySpending, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.icon, c.color, COALESCE(SUM(t.amount), 0) AS total, COUNT(*)
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		JOIN categories c ON c.id = t.category_id
		WHERE a.user_id = $1 AND t.type = $2 AND t.date >= $3 AND t.date < $4
		GROUP BY c.id, c.name, c.icon, c.color
		ORDER BY total DESC, c.name`,
		userID, models.TransactionExpense, from.UTC(), to.UTC())
	if err != nil {
		return nil, wrapErr(err, "group spending by category")
	}
	defer rows.Close()

	spending := []*models.CategorySpending{}
	for rows.Next() {
		s := &models.CategorySpending{Category: &models.Category{}}
		if err := rows.Scan(&s.Category.ID, &s.Category.Name, &s.Category.Icon, &s.Category.Color, major(&s.Total), &s.Count); err != nil {
			return nil, wrapErr(err, "scan category spending")
		}
		spending = append(spending, s)
	}
	return spending, rows.Err()
}

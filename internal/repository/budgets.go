package repository

import (
	"context"

	"github.com/Dan9191/aurora/internal/models"
)

const budgetSelect = `
	SELECT b.id, b.user_id, b.category_id, b.amount, b.period, b.created_at, c.id, c.name, c.icon, c.color
	FROM budgets b
	JOIN categories c ON c.id = b.category_id`

func scanBudget(s scanner) (*models.Budget, error) {
	b := &models.Budget{Category: &models.Category{}}
	err := s.Scan(&b.ID, &b.UserID, &b.CategoryID, major(&b.Amount), &b.Period, &b.CreatedAt,
		&b.Category.ID, &b.Category.Name, &b.Category.Icon, &b.Category.Color)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBudgets returns the user's budgets ordered by category name
func (r *Repository) ListBudgets(ctx context.Context, userID int64) ([]*models.Budget, error) {
	rows, err := r.db.QueryContext(ctx, budgetSelect+` WHERE b.user_id = $1 ORDER BY c.name, b.id`, userID)
	if err != nil {
		return nil, wrapErr(err, "list budgets")
	}
	defer rows.Close()

	budgets := []*models.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, wrapErr(err, "scan budget")
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// FindBudget retrieves a budget by id and owner
func (r *Repository) FindBudget(ctx context.Context, id, userID int64) (*models.Budget, error) {
	b, err := scanBudget(r.db.QueryRowContext(ctx, budgetSelect+` WHERE b.id = $1 AND b.user_id = $2`, id, userID))
	if err != nil {
		return nil, wrapErr(err, "budget %d", id)
	}
	return b, nil
}

// CreateBudget creates a new budget in the database
func (r *Repository) CreateBudget(ctx context.Context, b *models.Budget) error {
	b.CreatedAt = now()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO budgets (user_id, category_id, amount, period, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		b.UserID, b.CategoryID, minor(b.Amount), b.Period, b.CreatedAt).Scan(&b.ID)
	return wrapErr(err, "create budget")
}

// UpdateBudget changes a budget's ceiling
func (r *Repository) UpdateBudget(ctx context.Context, b *models.Budget) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET amount = $1, period = $2 WHERE id = $3 AND user_id = $4`,
		minor(b.Amount), b.Period, b.ID, b.UserID)
	if err != nil {
		return wrapErr(err, "update budget %d", b.ID)
	}
	return expectOne(res, "budget %d", b.ID)
}

// DeleteBudget removes a budget
func (r *Repository) DeleteBudget(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return wrapErr(err, "delete budget %d", id)
	}
	return expectOne(res, "budget %d", id)
}

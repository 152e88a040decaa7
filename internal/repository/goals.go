package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Dan9191/aurora/internal/models"
	"github.com/shopspring/decimal"
)

const goalColumns = `id, user_id, name, target_amount, current_amount, deadline, color, created_at`

func scanGoal(s scanner) (*models.Goal, error) {
	g := &models.Goal{}
	var deadline sql.NullTime
	err := s.Scan(&g.ID, &g.UserID, &g.Name, major(&g.TargetAmount), major(&g.CurrentAmount), &deadline, &g.Color, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	if deadline.Valid {
		d := deadline.Time.UTC()
		g.Deadline = &d
	}
	g.ComputeProgress()
	return g, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// ListGoals returns the user's goals, newest first
func (r *Repository) ListGoals(ctx context.Context, userID int64) ([]*models.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, wrapErr(err, "list goals")
	}
	defer rows.Close()

	goals := []*models.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, wrapErr(err, "scan goal")
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// FindGoal retrieves a goal by id and owner
func (r *Repository) FindGoal(ctx context.Context, id, userID int64) (*models.Goal, error) {
	g, err := scanGoal(r.db.QueryRowContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		return nil, wrapErr(err, "goal %d", id)
	}
	return g, nil
}

// CreateGoal creates a new goal in the database
func (r *Repository) CreateGoal(ctx context.Context, g *models.Goal) error {
	g.CreatedAt = now()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO goals (user_id, name, target_amount, current_amount, deadline, color, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		g.UserID, g.Name, minor(g.TargetAmount), minor(g.CurrentAmount), nullTime(g.Deadline), g.Color, g.CreatedAt).Scan(&g.ID)
	return wrapErr(err, "create goal")
}

// UpdateGoal writes every mutable goal field
func (r *Repository) UpdateGoal(ctx context.Context, g *models.Goal) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE goals
		SET name = $1, target_amount = $2, current_amount = $3, deadline = $4, color = $5
		WHERE id = $6 AND user_id = $7`,
		g.Name, minor(g.TargetAmount), minor(g.CurrentAmount), nullTime(g.Deadline), g.Color, g.ID, g.UserID)
	if err != nil {
		return wrapErr(err, "update goal %d", g.ID)
	}
	return expectOne(res, "goal %d", g.ID)
}

// AddGoalFunds increments a goal's current amount in place
func (r *Repository) AddGoalFunds(ctx context.Context, id, userID int64, amount decimal.Decimal) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals SET current_amount = current_amount + $1 WHERE id = $2 AND user_id = $3`,
		minor(amount), id, userID)
	if err != nil {
		return wrapErr(err, "add funds to goal %d", id)
	}
	return expectOne(res, "goal %d", id)
}

// DeleteGoal removes a goal
func (r *Repository) DeleteGoal(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return wrapErr(err, "delete goal %d", id)
	}
	return expectOne(res, "goal %d", id)
}

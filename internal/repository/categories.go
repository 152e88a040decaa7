package repository

import (
	"context"

	"github.com/Dan9191/aurora/internal/models"
)

// ListCategories returns all categories ordered by name
func (r *Repository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, icon, color FROM categories ORDER BY name`)
	if err != nil {
		return nil, wrapErr(err, "list categories")
	}
	defer rows.Close()

	categories := []*models.Category{}
	for rows.Next() {
		c := &models.Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.Color); err != nil {
			return nil, wrapErr(err, "scan category")
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// FindCategory retrieves a category by id
func (r *Repository) FindCategory(ctx context.Context, id int64) (*models.Category, error) {
	return findCategory(ctx, r.db, id)
}

// CreateCategory inserts a category, returning the existing one when the name is taken
func (r *Repository) CreateCategory(ctx context.Context, c *models.Category) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO categories (name, icon, color) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET icon = excluded.icon, color = excluded.color
		RETURNING id`,
		c.Name, c.Icon, c.Color).Scan(&c.ID)
	return wrapErr(err, "create category %s", c.Name)
}

func findCategory(ctx context.Context, q querier, id int64) (*models.Category, error) {
	c := &models.Category{}
	err := q.QueryRowContext(ctx, `SELECT id, name, icon, color FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Icon, &c.Color)
	if err != nil {
		return nil, wrapErr(err, "category %d", id)
	}
	return c, nil
}

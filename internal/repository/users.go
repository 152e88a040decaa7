package repository

import (
	"context"

	"github.com/Dan9191/aurora/internal/models"
)

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	user.CreatedAt = now()
	query := `
		INSERT INTO users (email, name, password_hash, ai_provider, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query, user.Email, user.Name, user.PasswordHash, user.AIProvider, user.CreatedAt).
		Scan(&user.ID)
	return wrapErr(err, "create user %s", user.Email)
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findUser(ctx, "email = $1", email)
}

// FindUserByID retrieves a user by id
func (r *Repository) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.findUser(ctx, "id = $1", id)
}

func (r *Repository) findUser(ctx context.Context, where string, arg any) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, name, password_hash, ai_provider, created_at
		FROM users
		WHERE ` + where
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.AIProvider, &user.CreatedAt)
	if err != nil {
		return nil, wrapErr(err, "find user")
	}
	return user, nil
}

// UpdateUserAIProvider stores the user's preferred assistant backend
func (r *Repository) UpdateUserAIProvider(ctx context.Context, id int64, provider string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET ai_provider = $1, updated_at = $2 WHERE id = $3`,
		provider, now(), id)
	if err != nil {
		return wrapErr(err, "update user %d", id)
	}
	return expectOne(res, "user %d", id)
}

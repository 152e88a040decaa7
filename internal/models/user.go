package models

import "time"

// User represents a user in the system
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // Not serialized
	AIProvider   string    `json:"aiProvider,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RegisterInput is the body accepted by POST /auth/register.
type RegisterInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginInput is the body accepted by POST /auth/login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PreferencesInput is the body accepted by PATCH /auth/me.
type PreferencesInput struct {
	AIProvider *string `json:"aiProvider"`
}

package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"

	"github.com/Dan9191/aurora/internal/config"
	"github.com/Dan9191/aurora/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// passwordCost is the bcrypt work factor for stored passwords.
const passwordCost = 12

// AuthResult is returned by register and login.
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// tokenClaims are the claims carried by an access token.
type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

var errInvalidCredentials = fmt.Errorf("%w: invalid credentials", models.ErrUnauthorized)

// Register creates a new user with hashed password
func (s *Service) Register(ctx context.Context, in models.RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, validationError("email is invalid")
	}
	if len([]rune(name)) < 2 {
		return nil, validationError("name must have at least 2 characters")
	}
	if len(in.Password) < 6 {
		return nil, validationError("password must have at least 6 characters")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), passwordCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hashedPassword),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, fmt.Errorf("%w: email is already registered", models.ErrConflict)
		}
		return nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	s.log.Infof("User registered: %s", user.Email)
	return &AuthResult{User: user, Token: token}, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(ctx context.Context, in models.LoginInput) (*AuthResult, error) {
	user, err := s.repo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if errors.Is(err, models.ErrNotFound) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, errInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	s.log.Infof("User logged in: %s", user.Email)
	return &AuthResult{User: user, Token: token}, nil
}

func (s *Service) issueToken(user *models.User) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenTTL)),
		},
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// Me returns the user behind an authenticated request.
func (s *Service) Me(ctx context.Context, userID int64) (*models.User, error) {
	return s.repo.FindUserByID(ctx, userID)
}

// UpdatePreferences stores the user's assistant backend. An empty provider
// reverts to the server default.
func (s *Service) UpdatePreferences(ctx context.Context, userID int64, in models.PreferencesInput) (*models.User, error) {
	if in.AIProvider != nil {
		provider := strings.ToLower(strings.TrimSpace(*in.AIProvider))
		switch provider {
		case "", config.ProviderOpenRouter, config.ProviderOllama, config.ProviderGemini:
		default:
			return nil, validationError("unsupported aiProvider %q", provider)
		}
		if err := s.repo.UpdateUserAIProvider(ctx, userID, provider); err != nil {
			return nil, err
		}
		s.log.WithFields(logrus.Fields{"user_id": userID, "provider": provider}).
			Info("Assistant provider updated")
	}
	return s.repo.FindUserByID(ctx, userID)
}

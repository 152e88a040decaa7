package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dan9191/aurora/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware requires a valid bearer token and stores the caller's user
// id in the request context.
func AuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	keyFunc := func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				WriteError(w, http.StatusUnauthorized, "Missing bearer token")
				return
			}

			claims := &jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, keyFunc,
				jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
				jwt.WithExpirationRequired())
			if err != nil || !token.Valid {
				WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			userID, err := strconv.ParseInt(claims.Subject, 10, 64)
			if err != nil || userID <= 0 {
				WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user id.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// Package auth implements the JWT gate in front of protected HTTP routes and
// the issuance of tokens for API users.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	e "github.com/gartstein/observatorio/internal/observatorio/errors"
	"github.com/gartstein/observatorio/internal/observatorio/models"
	"go.uber.org/zap"
)

// CookieName is the cookie consulted when no Authorization header is sent.
const CookieName = "token"

type contextKey string

const (
	userContextKey contextKey = "user"
)

var errTokenMissing = errors.New("authentication required")

// UserFinder resolves a token subject to its user.
type UserFinder interface {
	FindUser(ctx context.Context, id uint) (*models.User, error)
}

// Gate verifies bearer tokens and attaches the authenticated user to the
// request context.
type Gate struct {
	secret string
	users  UserFinder
	logger *zap.Logger
}

func NewGate(secret string, users UserFinder, logger *zap.Logger) *Gate {
	return &Gate{
		secret: secret,
		users:  users,
		logger: logger.Named("auth"),
	}
}

// Authenticate rejects requests without a valid token for an existing user.
func (g *Gate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := extractToken(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "authentication required", "")
			return
		}

		claims, err := validateToken(tokenString, g.secret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token", err.Error())
			return
		}
		id, err := userID(claims)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token", err.Error())
			return
		}

		user, err := g.users.FindUser(r.Context(), id)
		if err != nil {
			if errors.Is(err, e.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "invalid token", "user not found")
				return
			}
			g.logger.Error("Failed to resolve token user", zap.Error(err), zap.Uint("user_id", id))
			writeError(w, http.StatusInternalServerError, "internal server error", "")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the user attached by Authenticate.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

// extractToken prefers a Bearer Authorization header over the token cookie.
func extractToken(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		if token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")); token != "" {
			return token, nil
		}
	}
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	return "", errTokenMissing
}

func writeError(w http.ResponseWriter, status int, message, cause string) {
	body := map[string]string{"message": message}
	if cause != "" {
		body["error"] = cause
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

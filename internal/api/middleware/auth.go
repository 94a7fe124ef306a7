package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/smartcalendar/backend/internal/models"
)

type contextKey int

const userContextKey contextKey = iota

// UserSource resolves the authenticated user behind a token.
type UserSource interface {
	GetByID(ctx context.Context, userID int64) (*models.User, error)
}

// Auth validates the bearer token, loads the user it names and stores it in
// the request context. Requests without a valid token are rejected.
func Auth(secret []byte, users UserSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteError(w, http.StatusUnauthorized, ErrUnauthorized, "Authorization token not provided")
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				WriteError(w, http.StatusUnauthorized, ErrUnauthorized, "Invalid Authorization header format")
				return
			}

			token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				WriteError(w, http.StatusUnauthorized, ErrUnauthorized, "Invalid or expired token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				WriteError(w, http.StatusUnauthorized, ErrUnauthorized, "Invalid token claims")
				return
			}
			userIDFloat, ok := claims["user_id"].(float64)
			if !ok {
				WriteError(w, http.StatusUnauthorized, ErrUnauthorized, "Invalid user ID in token")
				return
			}

			user, err := users.GetByID(r.Context(), int64(userIDFloat))
			if err != nil {
				WriteError(w, http.StatusUnauthorized, ErrUnauthorized, "User from token not found")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFrom returns the authenticated user stored by Auth.
func UserFrom(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

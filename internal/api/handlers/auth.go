package handlers

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/smartcalendar/backend/internal/api/middleware"
	"github.com/smartcalendar/backend/internal/models"
	"github.com/smartcalendar/backend/internal/service"
)

const tokenTTL = 72 * time.Hour

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func mintToken(secret []byte, userID int64) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	})
	return token.SignedString(secret)
}

// Register creates a new account and returns a fresh token.
func Register(users *service.UserService, secret []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		user, err := users.Register(r.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		token, err := mintToken(secret, user.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
	}
}

// Login verifies credentials and returns a token.
func Login(users *service.UserService, secret []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		user, err := users.Authenticate(r.Context(), req.Username, req.Password)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		token, err := mintToken(secret, user.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, authResponse{Token: token, User: user})
	}
}

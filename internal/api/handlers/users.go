package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/smartcalendar/backend/internal/api/middleware"
	"github.com/smartcalendar/backend/internal/service"
)

// Me returns the authenticated user's profile.
func Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := actor(w, r)
		if !ok {
			return
		}
		middleware.WriteJSON(w, http.StatusOK, user)
	}
}

// ListUsers returns all registered users.
func ListUsers(users *service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := users.List(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, list)
	}
}

// GetUser returns one user by id.
func GetUser(users *service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathUserID(w, r)
		if !ok {
			return
		}
		user, err := users.GetByID(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, user)
	}
}

// UpdateEmail changes the authenticated user's email address.
func UpdateEmail(users *service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := actor(w, r)
		if !ok {
			return
		}
		userID, ok := pathUserID(w, r)
		if !ok {
			return
		}
		var req struct {
			Email string `json:"email"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if err := users.UpdateEmail(r.Context(), user, userID, req.Email); err != nil {
			writeServiceError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusNoContent, nil)
	}
}

// UpdateDeviceToken registers or clears the push notification token.
func UpdateDeviceToken(users *service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := actor(w, r)
		if !ok {
			return
		}
		var req struct {
			DeviceToken *string `json:"deviceToken"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if err := users.UpdateDeviceToken(r.Context(), user, req.DeviceToken); err != nil {
			writeServiceError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusNoContent, nil)
	}
}

// ChangeCredentials updates the username and password pair.
func ChangeCredentials(users *service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := actor(w, r)
		if !ok {
			return
		}
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if err := users.ChangeCredentials(r.Context(), user, req.Username, req.Password); err != nil {
			writeServiceError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusNoContent, nil)
	}
}

func pathUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid user id")
		return 0, false
	}
	return userID, true
}

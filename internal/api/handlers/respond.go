// Package handlers implements the REST API handlers.
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/smartcalendar/backend/internal/api/middleware"
	"github.com/smartcalendar/backend/internal/models"
	"github.com/smartcalendar/backend/internal/service"
)

// decodeBody parses the JSON request body into dst and reports a 400 on
// malformed input.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
		return false
	}
	return true
}

// actor returns the authenticated user or rejects the request. Auth middleware
// guarantees its presence on protected routes; the check guards against a
// route wired outside the protected subrouter.
func actor(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, middleware.ErrUnauthorized, "Authentication required")
	}
	return user, ok
}

// writeServiceError maps service errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Resource not found")
	case errors.Is(err, service.ErrForbidden):
		middleware.WriteError(w, http.StatusForbidden, middleware.ErrForbidden, "You do not have access to this resource")
	case errors.Is(err, service.ErrInvalidCredentials):
		middleware.WriteError(w, http.StatusUnauthorized, middleware.ErrUnauthorized, "Invalid username or password")
	case errors.Is(err, service.ErrUsernameTaken):
		middleware.WriteError(w, http.StatusConflict, middleware.ErrConflict, "Username is already taken")
	case errors.Is(err, service.ErrEmailTaken):
		middleware.WriteError(w, http.StatusConflict, middleware.ErrConflict, "Email is already taken")
	case errors.Is(err, service.ErrInvalidTimeRange):
		middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Event cannot end before it starts")
	case errors.Is(err, service.ErrAlreadyParticipant):
		middleware.WriteError(w, http.StatusConflict, middleware.ErrConflict, "User is already a participant")
	case errors.Is(err, service.ErrAlreadyInvited):
		middleware.WriteError(w, http.StatusConflict, middleware.ErrConflict, "User is already invited")
	case errors.Is(err, service.ErrNoInvite):
		middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "No pending invite for this user")
	case errors.Is(err, service.ErrNotParticipant):
		middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "User is not a participant")
	case errors.Is(err, service.ErrOrganizerRemoval):
		middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "The organizer cannot be removed from the event")
	default:
		log.Printf("Request failed: %v", err)
		middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "An unexpected error occurred")
	}
}

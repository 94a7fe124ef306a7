package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/smartcalendar/backend/internal/api/middleware"
	"github.com/smartcalendar/backend/internal/models"
	"github.com/smartcalendar/backend/internal/service"
)

// CreateEvent makes the authenticated user the organizer of a new event.
func CreateEvent(events *service.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := actor(w, r)
		if !ok {
			return
		}
		var event models.Event
		if !decodeBody(w, r, &event) {
			return
		}
		created, err := events.Create(r.Context(), user, &event)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusCreated, created)
	}
}

// GetEvent returns one event by id.
func GetEvent(events *service.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := pathEventID(w, r)
		if !ok {
			return
		}
		event, err := events.Get(r.Context(), eventID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, event)
	}
}

// ListMyEvents returns the events the authenticated user participates in.
func ListMyEvents(events *service.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := actor(w, r)
		if !ok {
			return
		}
		list, err := events.ByUser(r.Context(), user.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if list == nil {
			list = []*models.Event{}
		}
		middleware.WriteJSON(w, http.StatusOK, list)
	}
}

// RelevantEvents lists events at a location, ranked by the requesting user's
// tag profile when one exists. The userId query parameter overrides the
// authenticated identity so clients can preview the anonymous listing.
func RelevantEvents(events *service.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := actor(w, r)
		if !ok {
			return
		}
		location := r.URL.Query().Get("location")
		if location == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "location is required")
			return
		}

		userID := &user.ID
		if raw := r.URL.Query().Get("userId"); raw != "" {
			if raw == "none" {
				userID = nil
			} else {
				parsed, err := strconv.ParseInt(raw, 10, 64)
				if err != nil {
					middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid userId")
					return
				}
				userID = &parsed
			}
		}

		list, err := events.Personalized(r.Context(), location, userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if list == nil {
			list = []*models.Event{}
		}
		middleware.WriteJSON(w, http.StatusOK, list)
	}
}

// UpdateEvent applies organizer changes to an event.
func UpdateEvent(events *service.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := actor(w, r)
		if !ok {
			return
		}
		eventID, ok := pathEventID(w, r)
		if !ok {
			return
		}
		var changes models.Event
		if !decodeBody(w, r, &changes) {
			return
		}
		updated, err := events.Edit(r.Context(), user, eventID, &changes)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, updated)
	}
}

// UpdateEventStatus toggles the completed flag.
func UpdateEventStatus(events *service.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := actor(w, r)
		if !ok {
			return
		}
		eventID, ok := pathEventID(w, r)
		if !ok {
			return
		}
		var req struct {
			Completed bool `json:"completed"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		updated, err := events.UpdateStatus(r.Context(), user, eventID, req.Completed)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, updated)
	}
}

// DeleteEvent removes an event after notifying its participants.
func DeleteEvent(events *service.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := actor(w, r)
		if !ok {
			return
		}
		eventID, ok := pathEventID(w, r)
		if !ok {
			return
		}
		if _, err := events.Delete(r.Context(), user, eventID); err != nil {
			writeServiceError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusNoContent, nil)
	}
}

// InviteUser invites another user to an event by username or email.
func InviteUser(events *service.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := actor(w, r)
		if !ok {
			return
		}
		eventID, ok := pathEventID(w, r)
		if !ok {
			return
		}
		var req struct {
			User string `json:"user"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		invited, err := events.Invite(r.Context(), user, eventID, req.User)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, invited)
	}
}

// RemoveInvite revokes a pending invite.
func RemoveInvite(events *service.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := actor(w, r)
		if !ok {
			return
		}
		eventID, ok := pathEventID(w, r)
		if !ok {
			return
		}
		if _, err := events.RemoveInvite(r.Context(), user, eventID, mux.Vars(r)["user"]); err != nil {
			writeServiceError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusNoContent, nil)
	}
}

// AcceptInvite joins the authenticated user to an event they were invited to.
func AcceptInvite(events *service.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := actor(w, r)
		if !ok {
			return
		}
		eventID, ok := pathEventID(w, r)
		if !ok {
			return
		}
		if err := events.AcceptInvite(r.Context(), user, eventID); err != nil {
			writeServiceError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusNoContent, nil)
	}
}

// RemoveParticipant removes a non-organizer participant.
func RemoveParticipant(events *service.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := actor(w, r)
		if !ok {
			return
		}
		eventID, ok := pathEventID(w, r)
		if !ok {
			return
		}
		if _, err := events.RemoveParticipant(r.Context(), user, eventID, mux.Vars(r)["user"]); err != nil {
			writeServiceError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusNoContent, nil)
	}
}

// ListInvitations returns the events the authenticated user is invited to.
func ListInvitations(events *service.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := actor(w, r)
		if !ok {
			return
		}
		list, err := events.InvitesFor(r.Context(), user)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if list == nil {
			list = []*models.Event{}
		}
		middleware.WriteJSON(w, http.StatusOK, list)
	}
}

// DailyTasks returns the compact daily projection of the user's events.
func DailyTasks(events *service.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := actor(w, r)
		if !ok {
			return
		}
		list, err := events.DailyTasks(r.Context(), user.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if list == nil {
			list = []service.DailyTask{}
		}
		middleware.WriteJSON(w, http.StatusOK, list)
	}
}

func pathEventID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	eventID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid event id")
		return uuid.Nil, false
	}
	return eventID, true
}

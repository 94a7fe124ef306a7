// Package api provides HTTP routing and handlers for the REST API.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/smartcalendar/backend/internal/ai"
	"github.com/smartcalendar/backend/internal/api/handlers"
	"github.com/smartcalendar/backend/internal/api/middleware"
	"github.com/smartcalendar/backend/internal/service"
)

// Services bundles the collaborators the router wires into handlers.
type Services struct {
	Users      *service.UserService
	Events     *service.EventService
	Tasks      *service.TaskService
	Statistics *service.StatisticsService
	Assistant  *ai.Client
	JWTSecret  []byte
}

// NewRouter creates and configures the HTTP router with all API routes.
func NewRouter(s Services) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.Logging)
	r.Use(middleware.Recovery)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	// Authentication endpoints
	api.HandleFunc("/auth/register", handlers.Register(s.Users, s.JWTSecret)).Methods("POST")
	api.HandleFunc("/auth/login", handlers.Login(s.Users, s.JWTSecret)).Methods("POST")

	// Everything below requires a valid token.
	authed := api.NewRoute().Subrouter()
	authed.Use(middleware.Auth(s.JWTSecret, s.Users))

	// User endpoints
	authed.HandleFunc("/users", handlers.ListUsers(s.Users)).Methods("GET")
	authed.HandleFunc("/users/me", handlers.Me()).Methods("GET")
	authed.HandleFunc("/users/me/device-token", handlers.UpdateDeviceToken(s.Users)).Methods("PUT")
	authed.HandleFunc("/users/me/credentials", handlers.ChangeCredentials(s.Users)).Methods("PUT")
	authed.HandleFunc("/users/{id}", handlers.GetUser(s.Users)).Methods("GET")
	authed.HandleFunc("/users/{id}/email", handlers.UpdateEmail(s.Users)).Methods("PUT")

	// Event endpoints
	authed.HandleFunc("/events", handlers.CreateEvent(s.Events)).Methods("POST")
	authed.HandleFunc("/events", handlers.ListMyEvents(s.Events)).Methods("GET")
	authed.HandleFunc("/events/relevant", handlers.RelevantEvents(s.Events)).Methods("GET")
	authed.HandleFunc("/events/invitations", handlers.ListInvitations(s.Events)).Methods("GET")
	authed.HandleFunc("/events/daily", handlers.DailyTasks(s.Events)).Methods("GET")
	authed.HandleFunc("/events/{id}", handlers.GetEvent(s.Events)).Methods("GET")
	authed.HandleFunc("/events/{id}", handlers.UpdateEvent(s.Events)).Methods("PUT")
	authed.HandleFunc("/events/{id}", handlers.DeleteEvent(s.Events)).Methods("DELETE")
	authed.HandleFunc("/events/{id}/status", handlers.UpdateEventStatus(s.Events)).Methods("PATCH")
	authed.HandleFunc("/events/{id}/invite", handlers.InviteUser(s.Events)).Methods("POST")
	authed.HandleFunc("/events/{id}/invite/{user}", handlers.RemoveInvite(s.Events)).Methods("DELETE")
	authed.HandleFunc("/events/{id}/accept", handlers.AcceptInvite(s.Events)).Methods("POST")
	authed.HandleFunc("/events/{id}/participants/{user}", handlers.RemoveParticipant(s.Events)).Methods("DELETE")

	// Task endpoints
	authed.HandleFunc("/tasks", handlers.CreateTask(s.Tasks)).Methods("POST")
	authed.HandleFunc("/tasks", handlers.ListMyTasks(s.Tasks)).Methods("GET")
	authed.HandleFunc("/tasks/{id}", handlers.UpdateTask(s.Tasks)).Methods("PUT")
	authed.HandleFunc("/tasks/{id}", handlers.DeleteTask(s.Tasks)).Methods("DELETE")
	authed.HandleFunc("/tasks/{id}/status", handlers.UpdateTaskStatus(s.Tasks)).Methods("PATCH")
	authed.HandleFunc("/tasks/{id}/description", handlers.TaskDescription(s.Tasks)).Methods("GET")

	// Statistics endpoints
	authed.HandleFunc("/statistics/{id}", handlers.GetStatistics(s.Statistics)).Methods("GET")
	authed.HandleFunc("/statistics/{id}", handlers.UpdateStatistics(s.Statistics)).Methods("PUT")

	// Assistant endpoints
	if s.Assistant != nil {
		authed.HandleFunc("/assistant/generate", handlers.GenerateItems(s.Assistant)).Methods("POST")
		authed.HandleFunc("/assistant/voice", handlers.ProcessVoice(s.Assistant)).Methods("POST")
	}

	return r
}

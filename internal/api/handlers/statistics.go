package handlers

import (
	"net/http"

	"github.com/smartcalendar/backend/internal/api/middleware"
	"github.com/smartcalendar/backend/internal/models"
	"github.com/smartcalendar/backend/internal/service"
)

// GetStatistics returns the user's activity counters, zeroed when no row
// exists yet.
func GetStatistics(stats *service.StatisticsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := actor(w, r)
		if !ok {
			return
		}
		userID, ok := pathUserID(w, r)
		if !ok {
			return
		}
		result, err := stats.Get(r.Context(), user, userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, result)
	}
}

// UpdateStatistics overwrites the user's activity counters.
func UpdateStatistics(stats *service.StatisticsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := actor(w, r)
		if !ok {
			return
		}
		userID, ok := pathUserID(w, r)
		if !ok {
			return
		}
		var body models.Statistics
		if !decodeBody(w, r, &body) {
			return
		}
		if err := stats.Update(r.Context(), user, userID, &body); err != nil {
			writeServiceError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusNoContent, nil)
	}
}

package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/smartcalendar/backend/internal/api/middleware"
	"github.com/smartcalendar/backend/internal/models"
	"github.com/smartcalendar/backend/internal/service"
)

// CreateTask adds a standalone task owned by the authenticated user.
func CreateTask(tasks *service.TaskService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := actor(w, r)
		if !ok {
			return
		}
		var task models.Task
		if !decodeBody(w, r, &task) {
			return
		}
		created, err := tasks.Create(r.Context(), user, &task)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusCreated, created)
	}
}

// ListMyTasks returns the authenticated user's tasks.
func ListMyTasks(tasks *service.TaskService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := actor(w, r)
		if !ok {
			return
		}
		list, err := tasks.ByUser(r.Context(), user, user.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if list == nil {
			list = []*models.Task{}
		}
		middleware.WriteJSON(w, http.StatusOK, list)
	}
}

// UpdateTask applies owner changes to a task.
func UpdateTask(tasks *service.TaskService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := actor(w, r)
		if !ok {
			return
		}
		taskID, ok := pathTaskID(w, r)
		if !ok {
			return
		}
		var changes models.Task
		if !decodeBody(w, r, &changes) {
			return
		}
		updated, err := tasks.Edit(r.Context(), user, taskID, &changes)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, updated)
	}
}

// UpdateTaskStatus toggles the completed flag.
func UpdateTaskStatus(tasks *service.TaskService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := actor(w, r)
		if !ok {
			return
		}
		taskID, ok := pathTaskID(w, r)
		if !ok {
			return
		}
		var req struct {
			Completed bool `json:"completed"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if err := tasks.SetStatus(r.Context(), user, taskID, req.Completed); err != nil {
			writeServiceError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusNoContent, nil)
	}
}

// TaskDescription returns just the description text of a task.
func TaskDescription(tasks *service.TaskService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := actor(w, r)
		if !ok {
			return
		}
		taskID, ok := pathTaskID(w, r)
		if !ok {
			return
		}
		description, err := tasks.Description(r.Context(), user, taskID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"description": description})
	}
}

// DeleteTask removes a task.
func DeleteTask(tasks *service.TaskService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := actor(w, r)
		if !ok {
			return
		}
		taskID, ok := pathTaskID(w, r)
		if !ok {
			return
		}
		if err := tasks.Delete(r.Context(), user, taskID); err != nil {
			writeServiceError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusNoContent, nil)
	}
}

func pathTaskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	taskID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid task id")
		return uuid.Nil, false
	}
	return taskID, true
}

package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/smartcalendar/backend/internal/ai"
	"github.com/smartcalendar/backend/internal/api/middleware"
	"github.com/smartcalendar/backend/internal/models"
)

// maxAudioUpload bounds voice recordings at 25 MB, the transcription API's
// own file limit.
const maxAudioUpload = 25 << 20

type assistantResponse struct {
	Events []*models.Event `json:"events"`
	Tasks  []*models.Task  `json:"tasks"`
}

func buildAssistantResponse(items *ai.ParsedItems, actorID int64) assistantResponse {
	now := time.Now()
	events := items.ToEvents(now)
	tasks := items.ToTasks(now)
	for _, event := range events {
		event.OrganizerID = actorID
		event.ParticipantIDs = []int64{actorID}
	}
	for _, task := range tasks {
		task.UserID = actorID
	}
	if events == nil {
		events = []*models.Event{}
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}
	return assistantResponse{Events: events, Tasks: tasks}
}

// GenerateItems turns a free-form text request into event and task drafts.
// The drafts are returned to the client for review, not persisted.
func GenerateItems(assistant *ai.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := actor(w, r)
		if !ok {
			return
		}
		var req struct {
			Query string `json:"query"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Query == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "query is required")
			return
		}

		items, err := assistant.GenerateItems(r.Context(), req.Query)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, buildAssistantResponse(items, user.ID))
	}
}

// ProcessVoice transcribes an uploaded recording and turns it into event and
// task drafts. Recordings unrelated to scheduling are rejected.
func ProcessVoice(assistant *ai.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := actor(w, r)
		if !ok {
			return
		}
		if err := r.ParseMultipartForm(maxAudioUpload); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid multipart form")
			return
		}
		file, header, err := r.FormFile("audio")
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "audio file is required")
			return
		}
		defer file.Close()

		transcript, err := assistant.Transcribe(r.Context(), header.Filename, file)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		items, err := assistant.ProcessTranscript(r.Context(), transcript)
		if err != nil {
			if errors.Is(err, ai.ErrUnrelated) {
				middleware.WriteError(w, http.StatusUnprocessableEntity, middleware.ErrBadRequest,
					"The recording is not about creating events or tasks")
				return
			}
			writeServiceError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, buildAssistantResponse(items, user.ID))
	}
}

package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/smartcalendar/backend/internal/models"
)

// DailyTask is the flattened per-day projection of an event used by the
// mobile client's agenda view.
type DailyTask struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Completed   bool             `json:"isComplete"`
	Type        models.EventType `json:"type"`
	CreatedAt   time.Time        `json:"creationTime"`
	Description string           `json:"description"`
	Start       string           `json:"start,omitempty"`
	End         string           `json:"end,omitempty"`
	Date        string           `json:"date,omitempty"`
}

// DailyTasks projects every event the user participates in.
func (s *EventService) DailyTasks(ctx context.Context, userID int64) ([]DailyTask, error) {
	events, err := s.events.ByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}

	tasks := make([]DailyTask, 0, len(events))
	for _, event := range events {
		task := DailyTask{
			ID:          event.ID,
			Title:       event.Title,
			Completed:   event.Completed,
			Type:        event.Type,
			CreatedAt:   event.CreatedAt,
			Description: event.Description,
		}
		if event.Start != nil {
			task.Start = event.Start.Format("15:04")
			task.Date = event.Start.Format("2006-01-02")
		}
		if event.End != nil {
			task.End = event.End.Format("15:04")
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

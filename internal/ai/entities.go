package ai

import (
	"time"

	"github.com/google/uuid"
	"github.com/smartcalendar/backend/internal/models"
)

// Layouts accepted when coercing model output into timestamps. Models tend
// to drop the zone or the seconds, so parsing is lenient.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseDateTime parses a best-effort ISO 8601 string. A date without a time
// component resolves to midnight. Empty or unparseable input yields nil.
func ParseDateTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	if d, err := time.Parse("2006-01-02", s); err == nil {
		midnight := d
		return &midnight
	}
	return nil
}

// ToEvents converts parsed events into domain events, filling in what the
// model left out: a fresh id, the creation time, and a COMMON fallback for
// unrecognized categories.
func (p *ParsedItems) ToEvents(now time.Time) []*models.Event {
	events := make([]*models.Event, 0, len(p.Events))
	for _, parsed := range p.Events {
		events = append(events, &models.Event{
			ID:          uuid.New(),
			Title:       parsed.Title,
			Description: parsed.Description,
			Start:       ParseDateTime(parsed.Start),
			End:         ParseDateTime(parsed.End),
			Location:    parsed.Location,
			Type:        models.ParseEventType(parsed.Type),
			CreatedAt:   now,
			Completed:   parsed.Completed,
		})
	}
	return events
}

// ToTasks converts parsed tasks into domain tasks. The owner is assigned by
// the caller.
func (p *ParsedItems) ToTasks(now time.Time) []*models.Task {
	tasks := make([]*models.Task, 0, len(p.Tasks))
	for _, parsed := range p.Tasks {
		tasks = append(tasks, &models.Task{
			ID:          uuid.New(),
			Title:       parsed.Title,
			Description: parsed.Description,
			Completed:   parsed.Completed,
			DueTime:     ParseDateTime(parsed.DueDateTime),
			AllDay:      parsed.AllDay,
			CreatedAt:   now,
		})
	}
	return tasks
}

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventCommon  EventType = "COMMON"
	EventWork    EventType = "WORK"
	EventStudies EventType = "STUDIES"
	EventFitness EventType = "FITNESS"
)

// ParseEventType maps a raw category string to an EventType. Unknown values
// fall back to COMMON so externally supplied data never produces an invalid
// category.
func ParseEventType(s string) EventType {
	switch EventType(strings.ToUpper(strings.TrimSpace(s))) {
	case EventWork:
		return EventWork
	case EventStudies:
		return EventStudies
	case EventFitness:
		return EventFitness
	default:
		return EventCommon
	}
}

// Event is the owning side of all its associations: the participant-ID set
// and the invitee-email set live here, and "events by participant" is a
// derived repository query rather than a back-reference on User.
type Event struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Start          *time.Time `json:"start"`
	End            *time.Time `json:"end"`
	Location       string     `json:"location"`
	Type           EventType  `json:"type"`
	CreatedAt      time.Time  `json:"creationTime"`
	Completed      bool       `json:"completed"`
	Shared         bool       `json:"isShared"`
	OrganizerID    int64      `json:"organizerId"`
	Tags           []Tag      `json:"tags"`
	ParticipantIDs []int64    `json:"participantIds"`
	Invitees       []string   `json:"invitees"`
}

func (e *Event) HasParticipant(userID int64) bool {
	for _, id := range e.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (e *Event) HasInvitee(email string) bool {
	for _, invitee := range e.Invitees {
		if strings.EqualFold(invitee, email) {
			return true
		}
	}
	return false
}

// Ended reports whether the event is already over at the given instant.
// An event without an end time never expires.
func (e *Event) Ended(now time.Time) bool {
	return e.End != nil && !e.End.After(now)
}

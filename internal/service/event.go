package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smartcalendar/backend/internal/models"
	"github.com/smartcalendar/backend/internal/notify"
	"github.com/smartcalendar/backend/internal/relevance"
)

// EventStore is the persistence collaborator for events and their
// association sets.
type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, eventID uuid.UUID) (*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, eventID uuid.UUID) error
	ByParticipant(ctx context.Context, userID int64) ([]*models.Event, error)
	ByInvitee(ctx context.Context, email string) ([]*models.Event, error)
	ByLocation(ctx context.Context, location string) ([]*models.Event, error)
	ByLocationForUser(ctx context.Context, location string, userID int64) ([]*models.Event, error)
	Participants(ctx context.Context, eventID uuid.UUID) ([]*models.User, error)
	AddInvitee(ctx context.Context, eventID uuid.UUID, email string) error
	RemoveInvitee(ctx context.Context, eventID uuid.UUID, email string) error
	AcceptInvite(ctx context.Context, eventID uuid.UUID, email string, userID int64) error
	RemoveParticipant(ctx context.Context, eventID uuid.UUID, userID int64) error
}

// UserDirectory is the slice of user lookups the event flows need.
type UserDirectory interface {
	GetByID(ctx context.Context, userID int64) (*models.User, error)
	GetByLoginOrEmail(ctx context.Context, loginOrEmail string) (*models.User, error)
}

// Dispatcher receives the change message emitted after a mutation commits.
// Dispatch is fire-and-forget; it must never fail the mutation.
type Dispatcher interface {
	Dispatch(ctx context.Context, change notify.Change)
}

type EventService struct {
	events   EventStore
	users    UserDirectory
	notifier Dispatcher
	now      func() time.Time
}

func NewEventService(events EventStore, users UserDirectory, notifier Dispatcher) *EventService {
	return &EventService{events: events, users: users, notifier: notifier, now: time.Now}
}

// Create makes the actor the organizer and sole participant. The sharing
// flag and invitee list always start clean regardless of the input.
func (s *EventService) Create(ctx context.Context, actor *models.User, event *models.Event) (*models.Event, error) {
	if err := validateTimeRange(event); err != nil {
		return nil, err
	}
	event.OrganizerID = actor.ID
	event.Shared = false
	event.Invitees = nil
	event.ParticipantIDs = []int64{actor.ID}
	if event.Type == "" {
		event.Type = models.EventCommon
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) Get(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	return s.events.GetByID(ctx, eventID)
}

// Edit applies organizer changes to the base fields and tags. Completion
// toggling goes through UpdateStatus.
func (s *EventService) Edit(ctx context.Context, actor *models.User, eventID uuid.UUID, changes *models.Event) (*models.Event, error) {
	event, err := s.loadOwned(ctx, actor, eventID)
	if err != nil {
		return nil, err
	}
	if err := validateTimeRange(changes); err != nil {
		return nil, err
	}

	event.Title = changes.Title
	event.Description = changes.Description
	event.Start = changes.Start
	event.End = changes.End
	event.Location = changes.Location
	if changes.Type != "" {
		event.Type = changes.Type
	}
	event.Tags = changes.Tags

	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}
	s.emit(ctx, notify.KindUpdated, event, nil)
	return event, nil
}

func (s *EventService) UpdateStatus(ctx context.Context, actor *models.User, eventID uuid.UUID, completed bool) (*models.Event, error) {
	event, err := s.loadOwned(ctx, actor, eventID)
	if err != nil {
		return nil, err
	}
	event.Completed = completed
	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}
	s.emit(ctx, notify.KindUpdated, event, nil)
	return event, nil
}

// Delete notifies everyone still attached, then removes the event and its
// associations.
func (s *EventService) Delete(ctx context.Context, actor *models.User, eventID uuid.UUID) (uuid.UUID, error) {
	event, err := s.loadOwned(ctx, actor, eventID)
	if err != nil {
		return uuid.Nil, err
	}
	s.emit(ctx, notify.KindDeleted, event, nil)
	if err := s.events.Delete(ctx, eventID); err != nil {
		return uuid.Nil, err
	}
	return eventID, nil
}

// Invite adds the resolved user's email to the invitee list and marks the
// event shared.
func (s *EventService) Invite(ctx context.Context, actor *models.User, eventID uuid.UUID, loginOrEmail string) (*models.User, error) {
	event, err := s.loadOwned(ctx, actor, eventID)
	if err != nil {
		return nil, err
	}
	target, err := s.users.GetByLoginOrEmail(ctx, loginOrEmail)
	if err != nil {
		return nil, err
	}
	if event.HasParticipant(target.ID) {
		return nil, ErrAlreadyParticipant
	}
	if event.HasInvitee(target.Email) {
		return nil, ErrAlreadyInvited
	}

	if err := s.events.AddInvitee(ctx, event.ID, target.Email); err != nil {
		return nil, err
	}
	event.Invitees = append(event.Invitees, target.Email)
	event.Shared = true

	s.emit(ctx, notify.KindInvited, event, nil)
	return target, nil
}

// RemoveInvite revokes a pending invite and tells the uninvited user.
func (s *EventService) RemoveInvite(ctx context.Context, actor *models.User, eventID uuid.UUID, loginOrEmail string) (*models.User, error) {
	event, err := s.loadOwned(ctx, actor, eventID)
	if err != nil {
		return nil, err
	}
	target, err := s.users.GetByLoginOrEmail(ctx, loginOrEmail)
	if err != nil {
		return nil, err
	}
	if err := s.events.RemoveInvitee(ctx, event.ID, target.Email); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNoInvite
		}
		return nil, err
	}
	event.Invitees = removeString(event.Invitees, target.Email)

	s.emit(ctx, notify.KindRemoved, event, target)
	return target, nil
}

// AcceptInvite moves the actor from invitees to participants. A repeated
// call finds no invite and reports ErrNoInvite.
func (s *EventService) AcceptInvite(ctx context.Context, actor *models.User, eventID uuid.UUID) error {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if !event.HasInvitee(actor.Email) {
		return ErrNoInvite
	}

	if err := s.events.AcceptInvite(ctx, event.ID, actor.Email, actor.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNoInvite
		}
		return err
	}
	event.Invitees = removeString(event.Invitees, actor.Email)
	if !event.HasParticipant(actor.ID) {
		event.ParticipantIDs = append(event.ParticipantIDs, actor.ID)
	}

	s.emit(ctx, notify.KindAdded, event, actor)
	return nil
}

// RemoveParticipant drops a non-organizer participant from the event.
func (s *EventService) RemoveParticipant(ctx context.Context, actor *models.User, eventID uuid.UUID, loginOrEmail string) (*models.User, error) {
	event, err := s.loadOwned(ctx, actor, eventID)
	if err != nil {
		return nil, err
	}
	target, err := s.users.GetByLoginOrEmail(ctx, loginOrEmail)
	if err != nil {
		return nil, err
	}
	if target.ID == event.OrganizerID {
		return nil, ErrOrganizerRemoval
	}
	if err := s.events.RemoveParticipant(ctx, event.ID, target.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotParticipant
		}
		return nil, err
	}
	event.ParticipantIDs = removeID(event.ParticipantIDs, target.ID)

	s.emit(ctx, notify.KindRemoved, event, target)
	return target, nil
}

func (s *EventService) ByUser(ctx context.Context, userID int64) ([]*models.Event, error) {
	return s.events.ByParticipant(ctx, userID)
}

func (s *EventService) InvitesFor(ctx context.Context, actor *models.User) ([]*models.Event, error) {
	return s.events.ByInvitee(ctx, actor.Email)
}

// Personalized returns the events at a location ranked by the user's tag
// profile and filtered to future end-times. Without a user identity, or
// when no personalized candidates exist, it degrades to the plain location
// listing ordered by end time.
func (s *EventService) Personalized(ctx context.Context, location string, userID *int64) ([]*models.Event, error) {
	now := s.now()

	if userID != nil {
		user, err := s.users.GetByID(ctx, *userID)
		switch {
		case err == nil:
			visited, err := s.events.ByParticipant(ctx, user.ID)
			if err != nil {
				return nil, err
			}
			freq := relevance.BuildTagFrequency(visited)
			if len(freq) > 0 {
				candidates, err := s.events.ByLocationForUser(ctx, location, user.ID)
				if err != nil {
					return nil, err
				}
				if len(candidates) > 0 {
					return relevance.FilterUpcoming(relevance.Rank(candidates, freq), now), nil
				}
			}
		case !errors.Is(err, ErrNotFound):
			return nil, err
		}
	}

	events, err := s.events.ByLocation(ctx, location)
	if err != nil {
		return nil, err
	}
	return relevance.FilterUpcoming(events, now), nil
}

// loadOwned fetches the event and enforces the organizer-only rule.
func (s *EventService) loadOwned(ctx context.Context, actor *models.User, eventID uuid.UUID) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != actor.ID {
		return nil, ErrForbidden
	}
	return event, nil
}

// emit assembles the change message and hands it to the notifier. Lookup
// failures degrade the message instead of failing the mutation.
func (s *EventService) emit(ctx context.Context, kind notify.ChangeKind, event *models.Event, subject *models.User) {
	organizer, err := s.users.GetByID(ctx, event.OrganizerID)
	if err != nil {
		log.Printf("Failed to resolve organizer for %s notification: %v", kind, err)
	}
	participants, err := s.events.Participants(ctx, event.ID)
	if err != nil {
		log.Printf("Failed to resolve participants for %s notification: %v", kind, err)
	}

	s.notifier.Dispatch(ctx, notify.Change{
		Kind:         kind,
		Event:        event,
		Organizer:    organizer,
		Participants: participants,
		Invitees:     event.Invitees,
		Subject:      subject,
	})
}

func validateTimeRange(event *models.Event) error {
	if event.Start != nil && event.End != nil && event.End.Before(*event.Start) {
		return ErrInvalidTimeRange
	}
	return nil
}

func removeString(list []string, value string) []string {
	out := list[:0]
	for _, s := range list {
		if !strings.EqualFold(s, value) {
			out = append(out, s)
		}
	}
	return out
}

func removeID(list []int64, id int64) []int64 {
	out := list[:0]
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

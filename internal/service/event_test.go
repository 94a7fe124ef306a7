package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/smartcalendar/backend/internal/models"
	"github.com/smartcalendar/backend/internal/notify"
)

type fakeEventStore struct {
	events map[uuid.UUID]*models.Event
	users  map[int64]*models.User
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{
		events: make(map[uuid.UUID]*models.Event),
		users:  make(map[int64]*models.User),
	}
}

func (f *fakeEventStore) Create(_ context.Context, event *models.Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	f.events[event.ID] = cloneEvent(event)
	return nil
}

func (f *fakeEventStore) GetByID(_ context.Context, eventID uuid.UUID) (*models.Event, error) {
	event, ok := f.events[eventID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneEvent(event), nil
}

func (f *fakeEventStore) Update(_ context.Context, event *models.Event) error {
	if _, ok := f.events[event.ID]; !ok {
		return ErrNotFound
	}
	f.events[event.ID] = cloneEvent(event)
	return nil
}

func (f *fakeEventStore) Delete(_ context.Context, eventID uuid.UUID) error {
	if _, ok := f.events[eventID]; !ok {
		return ErrNotFound
	}
	delete(f.events, eventID)
	return nil
}

func (f *fakeEventStore) ByParticipant(_ context.Context, userID int64) ([]*models.Event, error) {
	var out []*models.Event
	for _, event := range f.events {
		if event.HasParticipant(userID) {
			out = append(out, cloneEvent(event))
		}
	}
	return out, nil
}

func (f *fakeEventStore) ByInvitee(_ context.Context, email string) ([]*models.Event, error) {
	var out []*models.Event
	for _, event := range f.events {
		if event.HasInvitee(email) {
			out = append(out, cloneEvent(event))
		}
	}
	return out, nil
}

func (f *fakeEventStore) ByLocation(_ context.Context, location string) ([]*models.Event, error) {
	var out []*models.Event
	for _, event := range f.events {
		if strings.EqualFold(event.Location, location) {
			out = append(out, cloneEvent(event))
		}
	}
	sortByEnd(out)
	return out, nil
}

func (f *fakeEventStore) ByLocationForUser(_ context.Context, location string, userID int64) ([]*models.Event, error) {
	var out []*models.Event
	for _, event := range f.events {
		if strings.EqualFold(event.Location, location) && !event.HasParticipant(userID) {
			out = append(out, cloneEvent(event))
		}
	}
	return out, nil
}

func (f *fakeEventStore) Participants(_ context.Context, eventID uuid.UUID) ([]*models.User, error) {
	event, ok := f.events[eventID]
	if !ok {
		return nil, ErrNotFound
	}
	var out []*models.User
	for _, id := range event.ParticipantIDs {
		if user, ok := f.users[id]; ok {
			out = append(out, user)
		}
	}
	return out, nil
}

func (f *fakeEventStore) AddInvitee(_ context.Context, eventID uuid.UUID, email string) error {
	event, ok := f.events[eventID]
	if !ok {
		return ErrNotFound
	}
	if !event.HasInvitee(email) {
		event.Invitees = append(event.Invitees, email)
	}
	event.Shared = true
	return nil
}

func (f *fakeEventStore) RemoveInvitee(_ context.Context, eventID uuid.UUID, email string) error {
	event, ok := f.events[eventID]
	if !ok || !event.HasInvitee(email) {
		return ErrNotFound
	}
	event.Invitees = removeString(event.Invitees, email)
	return nil
}

func (f *fakeEventStore) AcceptInvite(_ context.Context, eventID uuid.UUID, email string, userID int64) error {
	event, ok := f.events[eventID]
	if !ok || !event.HasInvitee(email) {
		return ErrNotFound
	}
	event.Invitees = removeString(event.Invitees, email)
	if !event.HasParticipant(userID) {
		event.ParticipantIDs = append(event.ParticipantIDs, userID)
	}
	return nil
}

func (f *fakeEventStore) RemoveParticipant(_ context.Context, eventID uuid.UUID, userID int64) error {
	event, ok := f.events[eventID]
	if !ok || !event.HasParticipant(userID) {
		return ErrNotFound
	}
	event.ParticipantIDs = removeID(event.ParticipantIDs, userID)
	return nil
}

func cloneEvent(e *models.Event) *models.Event {
	clone := *e
	clone.Tags = append([]models.Tag(nil), e.Tags...)
	clone.ParticipantIDs = append([]int64(nil), e.ParticipantIDs...)
	clone.Invitees = append([]string(nil), e.Invitees...)
	return &clone
}

func sortByEnd(events []*models.Event) {
	for i := 1; i < len(events); i++ {
		for j := i; j > 0; j-- {
			a, b := events[j-1], events[j]
			if a.End == nil || (b.End != nil && !b.End.Before(*a.End)) {
				break
			}
			events[j-1], events[j] = b, a
		}
	}
}

type fakeUserDirectory struct {
	users map[int64]*models.User
}

func (f *fakeUserDirectory) GetByID(_ context.Context, userID int64) (*models.User, error) {
	if user, ok := f.users[userID]; ok {
		return user, nil
	}
	return nil, ErrNotFound
}

func (f *fakeUserDirectory) GetByLoginOrEmail(_ context.Context, loginOrEmail string) (*models.User, error) {
	for _, user := range f.users {
		if user.Username == loginOrEmail || strings.EqualFold(user.Email, loginOrEmail) {
			return user, nil
		}
	}
	return nil, ErrNotFound
}

type recordingDispatcher struct {
	changes []notify.Change
}

func (d *recordingDispatcher) Dispatch(_ context.Context, change notify.Change) {
	d.changes = append(d.changes, change)
}

type eventFixture struct {
	svc        *EventService
	store      *fakeEventStore
	dispatcher *recordingDispatcher
	organizer  *models.User
	member     *models.User
	invitee    *models.User
}

func newEventFixture() *eventFixture {
	organizer := &models.User{ID: 1, Username: "organizer", Email: "organizer@example.com"}
	member := &models.User{ID: 2, Username: "member", Email: "member@example.com"}
	invitee := &models.User{ID: 3, Username: "guest", Email: "guest@example.com"}

	store := newFakeEventStore()
	store.users = map[int64]*models.User{1: organizer, 2: member, 3: invitee}
	directory := &fakeUserDirectory{users: store.users}
	dispatcher := &recordingDispatcher{}

	return &eventFixture{
		svc:        NewEventService(store, directory, dispatcher),
		store:      store,
		dispatcher: dispatcher,
		organizer:  organizer,
		member:     member,
		invitee:    invitee,
	}
}

func futureTime(d time.Duration) *time.Time {
	t := time.Now().Add(d)
	return &t
}

func TestCreateMakesActorOrganizerAndSoleParticipant(t *testing.T) {
	fx := newEventFixture()

	created, err := fx.svc.Create(context.Background(), fx.organizer, &models.Event{
		Title:    "Team sync",
		Shared:   true,
		Invitees: []string{"smuggled@example.com"},
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if created.OrganizerID != fx.organizer.ID {
		t.Fatalf("expected organizer %d, got %d", fx.organizer.ID, created.OrganizerID)
	}
	if len(created.ParticipantIDs) != 1 || created.ParticipantIDs[0] != fx.organizer.ID {
		t.Fatalf("expected organizer as sole participant, got %v", created.ParticipantIDs)
	}
	if created.Shared || len(created.Invitees) != 0 {
		t.Fatalf("expected clean sharing state on creation")
	}
}

func TestCreateRejectsEndBeforeStart(t *testing.T) {
	fx := newEventFixture()
	start := time.Now().Add(2 * time.Hour)
	end := start.Add(-time.Hour)

	_, err := fx.svc.Create(context.Background(), fx.organizer, &models.Event{
		Title: "Backwards",
		Start: &start,
		End:   &end,
	})
	if !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange, got %v", err)
	}
}

func TestEditRequiresOrganizer(t *testing.T) {
	fx := newEventFixture()
	created, err := fx.svc.Create(context.Background(), fx.organizer, &models.Event{Title: "Private"})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	_, err = fx.svc.Edit(context.Background(), fx.member, created.ID, &models.Event{Title: "Hijacked"})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-organizer, got %v", err)
	}
}

func TestInviteAndAcceptMoveUserToParticipants(t *testing.T) {
	fx := newEventFixture()
	ctx := context.Background()
	created, err := fx.svc.Create(ctx, fx.organizer, &models.Event{Title: "Dinner"})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	if _, err := fx.svc.Invite(ctx, fx.organizer, created.ID, "guest"); err != nil {
		t.Fatalf("invite: %v", err)
	}
	stored := fx.store.events[created.ID]
	if !stored.Shared || !stored.HasInvitee("guest@example.com") {
		t.Fatalf("expected shared event with pending invite, got %+v", stored)
	}

	if err := fx.svc.AcceptInvite(ctx, fx.invitee, created.ID); err != nil {
		t.Fatalf("accept invite: %v", err)
	}
	stored = fx.store.events[created.ID]
	if stored.HasInvitee("guest@example.com") {
		t.Fatalf("expected invite to be consumed")
	}
	count := 0
	for _, id := range stored.ParticipantIDs {
		if id == fx.invitee.ID {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one participant entry, got %d", count)
	}

	// A second accept finds no invite and must not duplicate anything.
	if err := fx.svc.AcceptInvite(ctx, fx.invitee, created.ID); !errors.Is(err, ErrNoInvite) {
		t.Fatalf("expected ErrNoInvite on repeat accept, got %v", err)
	}
}

func TestInviteRejectsDuplicates(t *testing.T) {
	fx := newEventFixture()
	ctx := context.Background()
	created, _ := fx.svc.Create(ctx, fx.organizer, &models.Event{Title: "Dinner"})

	if _, err := fx.svc.Invite(ctx, fx.organizer, created.ID, "guest"); err != nil {
		t.Fatalf("invite: %v", err)
	}
	if _, err := fx.svc.Invite(ctx, fx.organizer, created.ID, "guest"); !errors.Is(err, ErrAlreadyInvited) {
		t.Fatalf("expected ErrAlreadyInvited, got %v", err)
	}
	if _, err := fx.svc.Invite(ctx, fx.organizer, created.ID, "organizer"); !errors.Is(err, ErrAlreadyParticipant) {
		t.Fatalf("expected ErrAlreadyParticipant, got %v", err)
	}
}

func TestRemoveParticipantProtectsOrganizer(t *testing.T) {
	fx := newEventFixture()
	ctx := context.Background()
	created, _ := fx.svc.Create(ctx, fx.organizer, &models.Event{Title: "Dinner"})

	if _, err := fx.svc.RemoveParticipant(ctx, fx.organizer, created.ID, "organizer"); !errors.Is(err, ErrOrganizerRemoval) {
		t.Fatalf("expected ErrOrganizerRemoval, got %v", err)
	}
	if _, err := fx.svc.RemoveParticipant(ctx, fx.organizer, created.ID, "member"); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
}

func TestDeleteEmitsSingleDeletedChange(t *testing.T) {
	fx := newEventFixture()
	ctx := context.Background()
	created, _ := fx.svc.Create(ctx, fx.organizer, &models.Event{Title: "Dinner"})
	fx.store.events[created.ID].ParticipantIDs = []int64{fx.organizer.ID, fx.member.ID}
	fx.store.events[created.ID].Invitees = []string{"pending@example.com"}

	if _, err := fx.svc.Delete(ctx, fx.organizer, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := fx.store.events[created.ID]; ok {
		t.Fatalf("expected event to be removed")
	}

	if len(fx.dispatcher.changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(fx.dispatcher.changes))
	}
	change := fx.dispatcher.changes[0]
	if change.Kind != notify.KindDeleted {
		t.Fatalf("expected deleted change, got %v", change.Kind)
	}
	if len(change.Participants) != 2 {
		t.Fatalf("expected both participants in the change, got %d", len(change.Participants))
	}
	if len(change.Invitees) != 1 || change.Invitees[0] != "pending@example.com" {
		t.Fatalf("expected pending invitee in the change, got %v", change.Invitees)
	}
}

func TestPersonalizedRanksByTagProfile(t *testing.T) {
	fx := newEventFixture()
	ctx := context.Background()

	sports := models.Tag{ID: 10, Title: "sports"}
	outdoors := models.Tag{ID: 11, Title: "outdoors"}

	// Visit history: {sports} and {sports, outdoors}.
	visited1 := &models.Event{ID: uuid.New(), Location: "elsewhere", Tags: []models.Tag{sports},
		ParticipantIDs: []int64{fx.member.ID}, End: futureTime(time.Hour)}
	visited2 := &models.Event{ID: uuid.New(), Location: "elsewhere", Tags: []models.Tag{sports, outdoors},
		ParticipantIDs: []int64{fx.member.ID}, End: futureTime(time.Hour)}

	a := &models.Event{ID: uuid.New(), Title: "A", Location: "park", Tags: []models.Tag{outdoors},
		Start: futureTime(10 * time.Hour), End: futureTime(12 * time.Hour)}
	b := &models.Event{ID: uuid.New(), Title: "B", Location: "park", Tags: []models.Tag{sports},
		Start: futureTime(9 * time.Hour), End: futureTime(12 * time.Hour)}
	c := &models.Event{ID: uuid.New(), Title: "C", Location: "park",
		Start: futureTime(8 * time.Hour), End: futureTime(12 * time.Hour)}

	for _, event := range []*models.Event{visited1, visited2, a, b, c} {
		fx.store.events[event.ID] = event
	}

	got, err := fx.svc.Personalized(ctx, "Park", &fx.member.ID)
	if err != nil {
		t.Fatalf("personalized: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	if got[0].Title != "B" || got[1].Title != "A" || got[2].Title != "C" {
		t.Fatalf("expected order B, A, C; got %s, %s, %s", got[0].Title, got[1].Title, got[2].Title)
	}
}

func TestPersonalizedWithoutHistoryFallsBackToLocationListing(t *testing.T) {
	fx := newEventFixture()
	ctx := context.Background()

	early := &models.Event{ID: uuid.New(), Title: "early", Location: "park",
		End: futureTime(1 * time.Hour)}
	late := &models.Event{ID: uuid.New(), Title: "late", Location: "park",
		End: futureTime(3 * time.Hour)}
	past := &models.Event{ID: uuid.New(), Title: "past", Location: "park",
		End: futureTime(-time.Hour)}
	for _, event := range []*models.Event{late, early, past} {
		fx.store.events[event.ID] = event
	}

	got, err := fx.svc.Personalized(ctx, "park", &fx.member.ID)
	if err != nil {
		t.Fatalf("personalized: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected past event filtered out, got %d events", len(got))
	}
	if got[0].Title != "early" || got[1].Title != "late" {
		t.Fatalf("expected end-time ordering early, late; got %s, %s", got[0].Title, got[1].Title)
	}
}

func TestPersonalizedWithoutUserUsesFallback(t *testing.T) {
	fx := newEventFixture()
	event := &models.Event{ID: uuid.New(), Title: "open", Location: "park", End: futureTime(time.Hour)}
	fx.store.events[event.ID] = event

	got, err := fx.svc.Personalized(context.Background(), "PARK", nil)
	if err != nil {
		t.Fatalf("personalized: %v", err)
	}
	if len(got) != 1 || got[0].Title != "open" {
		t.Fatalf("expected the location listing, got %v", got)
	}
}

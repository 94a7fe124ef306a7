package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/smartcalendar/backend/internal/database"
	"github.com/smartcalendar/backend/internal/models"
)

// EventRepository owns the event row and its association tables. The event
// is the single source of truth for participants and invitees; user-side
// lookups are queries against those tables, never stored back-references.
type EventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `event_id, title, description, start_time, end_time,
	event_location, event_type, created_at, completed, shared, organizer_id`

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO events (event_id, title, description, start_time, end_time,
		 event_location, event_type, created_at, completed, shared, organizer_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		event.ID, event.Title, event.Description, event.Start, event.End,
		event.Location, event.Type, event.CreatedAt, event.Completed,
		event.Shared, event.OrganizerID,
	)
	if err != nil {
		return err
	}

	for _, userID := range event.ParticipantIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO event_participants (event_id, user_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			event.ID, userID,
		); err != nil {
			return err
		}
	}
	for _, invitee := range event.Invitees {
		if _, err := tx.Exec(ctx,
			`INSERT INTO event_invitees (event_id, invitee) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			event.ID, invitee,
		); err != nil {
			return err
		}
	}
	if err := r.setTags(ctx, tx, event); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *EventRepository) GetByID(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	event := &models.Event{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE event_id = $1`, eventID,
	).Scan(&event.ID, &event.Title, &event.Description, &event.Start, &event.End,
		&event.Location, &event.Type, &event.CreatedAt, &event.Completed,
		&event.Shared, &event.OrganizerID)
	if err != nil {
		return nil, mapNoRows(err)
	}
	if err := r.hydrate(ctx, []*models.Event{event}); err != nil {
		return nil, err
	}
	return event, nil
}

// Update rewrites the base row and the tag links. Participants and
// invitees change through their dedicated operations only.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE events SET title = $1, description = $2, start_time = $3,
		 end_time = $4, event_location = $5, event_type = $6, completed = $7,
		 shared = $8
		 WHERE event_id = $9`,
		event.Title, event.Description, event.Start, event.End, event.Location,
		event.Type, event.Completed, event.Shared, event.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM events_tags WHERE event_id = $1`, event.ID); err != nil {
		return err
	}
	if err := r.setTags(ctx, tx, event); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Delete removes the event; participant, invitee and tag links go with it
// through the schema's cascades.
func (r *EventRepository) Delete(ctx context.Context, eventID uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM events WHERE event_id = $1`, eventID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EventRepository) ByParticipant(ctx context.Context, userID int64) ([]*models.Event, error) {
	return r.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE event_id IN (SELECT event_id FROM event_participants WHERE user_id = $1)
		 ORDER BY start_time ASC NULLS LAST`,
		userID)
}

func (r *EventRepository) ByInvitee(ctx context.Context, email string) ([]*models.Event, error) {
	return r.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE event_id IN (SELECT event_id FROM event_invitees WHERE LOWER(invitee) = LOWER($1))
		 ORDER BY start_time ASC NULLS LAST`,
		email)
}

// ByLocation is the unpersonalized listing: every event at the location,
// earliest end time first.
func (r *EventRepository) ByLocation(ctx context.Context, location string) ([]*models.Event, error) {
	return r.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE LOWER(event_location) = LOWER($1)
		 ORDER BY end_time ASC NULLS LAST`,
		location)
}

// ByLocationForUser returns ranking candidates: events at the location the
// user has not already joined.
func (r *EventRepository) ByLocationForUser(ctx context.Context, location string, userID int64) ([]*models.Event, error) {
	return r.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE LOWER(event_location) = LOWER($1)
		 AND event_id NOT IN (SELECT event_id FROM event_participants WHERE user_id = $2)
		 ORDER BY start_time ASC NULLS LAST`,
		location, userID)
}

func (r *EventRepository) Participants(ctx context.Context, eventID uuid.UUID) ([]*models.User, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT u.user_id, u.username, u.email, u.password_hash, u.device_token
		 FROM users u
		 JOIN event_participants ep ON ep.user_id = u.user_id
		 WHERE ep.event_id = $1
		 ORDER BY u.user_id`,
		eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Username, &user.Email,
			&user.PasswordHash, &user.DeviceToken); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// AddInvitee records the invite and marks the event shared in one
// transaction.
func (r *EventRepository) AddInvitee(ctx context.Context, eventID uuid.UUID, email string) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO event_invitees (event_id, invitee) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		eventID, email,
	); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE events SET shared = TRUE WHERE event_id = $1`, eventID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *EventRepository) RemoveInvitee(ctx context.Context, eventID uuid.UUID, email string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM event_invitees WHERE event_id = $1 AND LOWER(invitee) = LOWER($2)`,
		eventID, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AcceptInvite atomically moves the user from the invitee list to the
// participant set. A second call finds no invite row and reports
// ErrNotFound, which makes the operation safely non-repeatable.
func (r *EventRepository) AcceptInvite(ctx context.Context, eventID uuid.UUID, email string, userID int64) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`DELETE FROM event_invitees WHERE event_id = $1 AND LOWER(invitee) = LOWER($2)`,
		eventID, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO event_participants (event_id, user_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		eventID, userID,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *EventRepository) RemoveParticipant(ctx context.Context, eventID uuid.UUID, userID int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM event_participants WHERE event_id = $1 AND user_id = $2`,
		eventID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EventRepository) queryEvents(ctx context.Context, query string, args ...any) ([]*models.Event, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event := &models.Event{}
		if err := rows.Scan(&event.ID, &event.Title, &event.Description,
			&event.Start, &event.End, &event.Location, &event.Type,
			&event.CreatedAt, &event.Completed, &event.Shared,
			&event.OrganizerID); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.hydrate(ctx, events); err != nil {
		return nil, err
	}
	return events, nil
}

// hydrate batch-loads tags, participant IDs and invitees for the given
// events.
func (r *EventRepository) hydrate(ctx context.Context, events []*models.Event) error {
	if len(events) == 0 {
		return nil
	}

	ids := make([]string, len(events))
	byID := make(map[uuid.UUID]*models.Event, len(events))
	for i, event := range events {
		ids[i] = event.ID.String()
		byID[event.ID] = event
	}

	rows, err := r.db.Pool.Query(ctx,
		`SELECT et.event_id, t.tag_id, t.title
		 FROM events_tags et JOIN tags t ON t.tag_id = et.tag_id
		 WHERE et.event_id = ANY($1::uuid[])
		 ORDER BY t.tag_id`,
		ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var eventID uuid.UUID
		var tag models.Tag
		if err := rows.Scan(&eventID, &tag.ID, &tag.Title); err != nil {
			return err
		}
		if event := byID[eventID]; event != nil {
			event.Tags = append(event.Tags, tag)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.db.Pool.Query(ctx,
		`SELECT event_id, user_id FROM event_participants
		 WHERE event_id = ANY($1::uuid[]) ORDER BY user_id`,
		ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var eventID uuid.UUID
		var userID int64
		if err := rows.Scan(&eventID, &userID); err != nil {
			return err
		}
		if event := byID[eventID]; event != nil {
			event.ParticipantIDs = append(event.ParticipantIDs, userID)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.db.Pool.Query(ctx,
		`SELECT event_id, invitee FROM event_invitees
		 WHERE event_id = ANY($1::uuid[]) ORDER BY invitee`,
		ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var eventID uuid.UUID
		var invitee string
		if err := rows.Scan(&eventID, &invitee); err != nil {
			return err
		}
		if event := byID[eventID]; event != nil {
			event.Invitees = append(event.Invitees, invitee)
		}
	}
	return rows.Err()
}

// setTags links the event to its tags, creating tag rows by title as
// needed and backfilling generated IDs.
func (r *EventRepository) setTags(ctx context.Context, tx pgx.Tx, event *models.Event) error {
	for i := range event.Tags {
		tag := &event.Tags[i]
		if tag.ID == 0 {
			err := tx.QueryRow(ctx,
				`INSERT INTO tags (title) VALUES ($1)
				 ON CONFLICT (title) DO UPDATE SET title = EXCLUDED.title
				 RETURNING tag_id`,
				tag.Title,
			).Scan(&tag.ID)
			if err != nil {
				return err
			}
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO events_tags (event_id, tag_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			event.ID, tag.ID,
		); err != nil {
			return err
		}
	}
	return nil
}

package service

import (
	"errors"

	"github.com/smartcalendar/backend/internal/repository"
)

// ErrNotFound mirrors the storage sentinel so callers only deal with
// service-level errors.
var ErrNotFound = repository.ErrNotFound

var (
	ErrForbidden          = errors.New("operation not permitted for this user")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidTimeRange   = errors.New("event end precedes its start")
	ErrAlreadyParticipant = errors.New("user is already a participant")
	ErrAlreadyInvited     = errors.New("user is already invited")
	ErrNoInvite           = errors.New("no invite found for this user")
	ErrNotParticipant     = errors.New("user is not a participant")
	ErrOrganizerRemoval   = errors.New("organizer cannot be removed")
)

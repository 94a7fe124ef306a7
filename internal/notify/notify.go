// Package notify computes the recipients of event lifecycle changes and
// dispatches messages through the email and push gateways. Dispatch is
// best-effort: a channel failure is logged and never reaches the caller of
// the mutation that triggered it.
package notify

import (
	"context"
	"log"

	"github.com/smartcalendar/backend/internal/models"
)

type ChangeKind int

const (
	KindAdded ChangeKind = iota
	KindRemoved
	KindUpdated
	KindDeleted
	KindInvited
)

func (k ChangeKind) String() string {
	switch k {
	case KindAdded:
		return "added"
	case KindRemoved:
		return "removed"
	case KindUpdated:
		return "updated"
	case KindDeleted:
		return "deleted"
	case KindInvited:
		return "invited"
	default:
		return "unknown"
	}
}

// Change is the message a service emits after an event mutation commits.
// It carries everything the notifier needs already resolved, so recipient
// computation never reaches back into storage for the event itself.
type Change struct {
	Kind         ChangeKind
	Event        *models.Event
	Organizer    *models.User
	Participants []*models.User // current participants, organizer included
	Invitees     []string
	Subject      *models.User // the added/removed user for KindAdded/KindRemoved
}

type EmailSender interface {
	SendEmail(to, subject, body string) error
}

type PushSender interface {
	SendPush(deviceToken, title, body string) error
}

// Directory resolves an invitee email to a registered account, if any.
type Directory interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type Notifier struct {
	email EmailSender
	push  PushSender
	users Directory
}

func New(email EmailSender, push PushSender, users Directory) *Notifier {
	return &Notifier{email: email, push: push, users: users}
}

// Dispatch fans the change out to its recipients. It never returns an
// error and never panics; each channel send is independent.
func (n *Notifier) Dispatch(ctx context.Context, change Change) {
	if change.Event == nil {
		log.Printf("Dropping %s notification without an event", change.Kind)
		return
	}

	switch change.Kind {
	case KindAdded, KindRemoved:
		if change.Subject == nil {
			log.Printf("Dropping %s notification without a subject user", change.Kind)
			return
		}
		n.notifyUser(change.Subject, change)
	case KindInvited:
		for _, invitee := range change.Invitees {
			n.notifyInvitee(ctx, invitee, change)
		}
	case KindUpdated, KindDeleted:
		for _, participant := range change.Participants {
			if change.Organizer != nil && participant.ID == change.Organizer.ID {
				continue
			}
			n.notifyUser(participant, change)
		}
		for _, invitee := range change.Invitees {
			n.sendEmail(invitee, change)
		}
	}
}

// notifyUser delivers through both channels. Failure in one must not
// block the other.
func (n *Notifier) notifyUser(user *models.User, change Change) {
	if user.Email != "" {
		n.sendEmail(user.Email, change)
	}
	if user.HasDeviceToken() {
		n.sendPush(*user.DeviceToken, change)
	}
}

// notifyInvitee always emails the raw address; invitees that resolve to a
// registered account with a device token get a push as well.
func (n *Notifier) notifyInvitee(ctx context.Context, email string, change Change) {
	n.sendEmail(email, change)

	user, err := n.users.GetByEmail(ctx, email)
	if err != nil {
		return
	}
	if user.HasDeviceToken() {
		n.sendPush(*user.DeviceToken, change)
	}
}

func (n *Notifier) sendEmail(to string, change Change) {
	if err := n.email.SendEmail(to, subjectFor(change), bodyFor(change)); err != nil {
		log.Printf("Failed to send email to %s: %v", to, err)
	}
}

func (n *Notifier) sendPush(deviceToken string, change Change) {
	if err := n.push.SendPush(deviceToken, pushTitleFor(change), actionLine(change)); err != nil {
		log.Printf("Failed to send push notification: %v", err)
	}
}

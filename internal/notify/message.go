package notify

import (
	"fmt"
	"strings"
	"time"
)

const timeLayout = "2006-01-02 15:04"

func subjectFor(change Change) string {
	switch change.Kind {
	case KindAdded:
		return fmt.Sprintf("You were added to \"%s\"", change.Event.Title)
	case KindRemoved:
		return fmt.Sprintf("You were removed from \"%s\"", change.Event.Title)
	case KindUpdated:
		return fmt.Sprintf("Event \"%s\" was updated", change.Event.Title)
	case KindDeleted:
		return fmt.Sprintf("Event \"%s\" was cancelled", change.Event.Title)
	case KindInvited:
		return fmt.Sprintf("You are invited to \"%s\"", change.Event.Title)
	default:
		return fmt.Sprintf("Event \"%s\"", change.Event.Title)
	}
}

func actionLine(change Change) string {
	switch change.Kind {
	case KindAdded:
		return fmt.Sprintf("You have been added to the event \"%s\".", change.Event.Title)
	case KindRemoved:
		return fmt.Sprintf("You have been removed from the event \"%s\".", change.Event.Title)
	case KindUpdated:
		return fmt.Sprintf("The event \"%s\" has been updated.", change.Event.Title)
	case KindDeleted:
		return fmt.Sprintf("The event \"%s\" has been cancelled.", change.Event.Title)
	case KindInvited:
		return fmt.Sprintf("You have been invited to the event \"%s\".", change.Event.Title)
	default:
		return fmt.Sprintf("The event \"%s\" changed.", change.Event.Title)
	}
}

func pushTitleFor(change Change) string {
	if change.Event.Title != "" {
		return change.Event.Title
	}
	return "SmartCalendar"
}

// bodyFor renders the fixed message template: action plus title, category,
// time window, location, description and organizer.
func bodyFor(change Change) string {
	event := change.Event

	var b strings.Builder
	b.WriteString(actionLine(change))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Title: %s\n", event.Title)
	fmt.Fprintf(&b, "Category: %s\n", event.Type)
	fmt.Fprintf(&b, "Starts: %s\n", formatTime(event.Start))
	fmt.Fprintf(&b, "Ends: %s\n", formatTime(event.End))
	fmt.Fprintf(&b, "Location: %s\n", orUnspecified(event.Location))
	if event.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", event.Description)
	} else {
		b.WriteString("Description: No description\n")
	}
	if change.Organizer != nil {
		fmt.Fprintf(&b, "Organizer: %s\n", change.Organizer.Username)
	}
	return b.String()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "unspecified"
	}
	return t.Format(timeLayout)
}

func orUnspecified(s string) string {
	if s == "" {
		return "unspecified"
	}
	return s
}

package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smartcalendar/backend/internal/models"
)

func TestParseDateTime(t *testing.T) {
	cases := []struct {
		in   string
		want string // empty means nil expected
	}{
		{"2026-05-01T09:30:00Z", "2026-05-01 09:30"},
		{"2026-05-01T09:30:00", "2026-05-01 09:30"},
		{"2026-05-01 09:30", "2026-05-01 09:30"},
		{"2026-05-01", "2026-05-01 00:00"},
		{"", ""},
		{"next tuesday", ""},
	}

	for _, tc := range cases {
		got := ParseDateTime(tc.in)
		if tc.want == "" {
			if got != nil {
				t.Errorf("ParseDateTime(%q): expected nil, got %v", tc.in, got)
			}
			continue
		}
		if got == nil {
			t.Errorf("ParseDateTime(%q): expected %s, got nil", tc.in, tc.want)
			continue
		}
		if got.Format("2006-01-02 15:04") != tc.want {
			t.Errorf("ParseDateTime(%q) = %v, want %s", tc.in, got, tc.want)
		}
	}
}

func TestToEventsFillsDefaults(t *testing.T) {
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	items := &ParsedItems{Events: []ParsedEvent{
		{Title: "Gym", Type: "FITNESS", Start: "2026-05-02T18:00:00"},
		{Title: "Mystery", Type: "SOMETHING ELSE"},
	}}

	events := items.ToEvents(now)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].ID == uuid.Nil {
		t.Fatalf("expected a generated event id")
	}
	if !events[0].CreatedAt.Equal(now) {
		t.Fatalf("expected creation time %v, got %v", now, events[0].CreatedAt)
	}
	if events[0].Type != models.EventFitness {
		t.Fatalf("expected FITNESS, got %s", events[0].Type)
	}
	if events[1].Type != models.EventCommon {
		t.Fatalf("expected unknown type to fall back to COMMON, got %s", events[1].Type)
	}
}

func TestToTasksParsesDateOnlyDueDates(t *testing.T) {
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	items := &ParsedItems{Tasks: []ParsedTask{
		{Title: "Pack bags", DueDateTime: "2026-05-03", AllDay: true},
	}}

	tasks := items.ToTasks(now)
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].DueTime == nil || tasks[0].DueTime.Hour() != 0 {
		t.Fatalf("expected date-only due date at midnight, got %v", tasks[0].DueTime)
	}
	if !tasks[0].AllDay {
		t.Fatalf("expected all-day flag to survive conversion")
	}
}

// completionServer fakes the chat completion endpoint, returning content as
// the assistant message.
func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reply := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(reply); err != nil {
			t.Errorf("encode reply: %v", err)
		}
	}))
}

func TestProcessTranscriptParsesItems(t *testing.T) {
	content := `{"unrelated":false,"events":[{"title":"Dentist","description":"","start":"2026-05-04T10:00:00","end":"2026-05-04T11:00:00","location":"Clinic","type":"COMMON","completed":false}],"tasks":[]}`
	srv := completionServer(t, content)
	defer srv.Close()

	client := New("test-key", srv.URL, "gpt-4o-mini")
	items, err := client.ProcessTranscript(context.Background(), "dentist monday at ten")
	if err != nil {
		t.Fatalf("process transcript: %v", err)
	}
	if len(items.Events) != 1 || items.Events[0].Title != "Dentist" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestProcessTranscriptUnrelated(t *testing.T) {
	srv := completionServer(t, `{"unrelated":true,"events":[],"tasks":[]}`)
	defer srv.Close()

	client := New("test-key", srv.URL, "gpt-4o-mini")
	_, err := client.ProcessTranscript(context.Background(), "what a lovely day")
	if !errors.Is(err, ErrUnrelated) {
		t.Fatalf("expected ErrUnrelated, got %v", err)
	}
}

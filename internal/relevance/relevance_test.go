package relevance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smartcalendar/backend/internal/models"
)

func ts(hour int) *time.Time {
	t := time.Date(2026, 3, 14, hour, 0, 0, 0, time.UTC)
	return &t
}

func taggedEvent(start *time.Time, tagIDs ...int64) *models.Event {
	event := &models.Event{ID: uuid.New(), Start: start}
	for _, id := range tagIDs {
		event.Tags = append(event.Tags, models.Tag{ID: id})
	}
	return event
}

func TestBuildTagFrequencyCountsLifetimeOccurrences(t *testing.T) {
	sports, outdoors := int64(1), int64(2)
	visited := []*models.Event{
		taggedEvent(ts(9), sports),
		taggedEvent(ts(10), sports, outdoors),
	}

	freq := BuildTagFrequency(visited)
	if freq[sports] != 2 {
		t.Fatalf("expected sports count 2, got %d", freq[sports])
	}
	if freq[outdoors] != 1 {
		t.Fatalf("expected outdoors count 1, got %d", freq[outdoors])
	}
	if freq[99] != 0 {
		t.Fatalf("expected unseen tag count 0, got %d", freq[99])
	}
}

func TestBuildTagFrequencyEmptyHistory(t *testing.T) {
	freq := BuildTagFrequency(nil)
	if len(freq) != 0 {
		t.Fatalf("expected empty frequency map, got %v", freq)
	}
}

func TestScoreUntaggedEventIsZero(t *testing.T) {
	freq := TagFrequency{1: 5, 2: 3}
	if got := Score(taggedEvent(ts(8)), freq); got != 0 {
		t.Fatalf("expected score 0 for untagged event, got %d", got)
	}
}

func TestRankOrdersByScoreThenStartTime(t *testing.T) {
	sports, outdoors := int64(1), int64(2)
	freq := TagFrequency{sports: 2, outdoors: 1}

	a := taggedEvent(ts(10), outdoors) // score 1
	b := taggedEvent(ts(9), sports)    // score 2
	c := taggedEvent(ts(8))            // score 0

	ranked := Rank([]*models.Event{a, b, c}, freq)
	want := []*models.Event{b, a, c}
	for i, event := range want {
		if ranked[i] != event {
			t.Fatalf("position %d: expected event starting %v, got %v", i, event.Start, ranked[i].Start)
		}
	}
}

func TestRankTieBreaksByEarlierStart(t *testing.T) {
	late := taggedEvent(ts(12))
	early := taggedEvent(ts(7))
	noStart := taggedEvent(nil)

	ranked := Rank([]*models.Event{noStart, late, early}, TagFrequency{})
	if ranked[0] != early || ranked[1] != late || ranked[2] != noStart {
		t.Fatalf("expected order early, late, no-start; got %v, %v, %v",
			ranked[0].Start, ranked[1].Start, ranked[2].Start)
	}
}

func TestRankIsAPermutation(t *testing.T) {
	freq := TagFrequency{1: 3}
	input := []*models.Event{
		taggedEvent(ts(9), 1),
		taggedEvent(ts(10)),
		taggedEvent(ts(11), 1),
		taggedEvent(nil),
	}

	ranked := Rank(input, freq)
	if len(ranked) != len(input) {
		t.Fatalf("expected %d events, got %d", len(input), len(ranked))
	}
	seen := make(map[*models.Event]bool)
	for _, event := range ranked {
		seen[event] = true
	}
	for _, event := range input {
		if !seen[event] {
			t.Fatalf("event %v missing from ranked output", event.ID)
		}
	}
}

func TestFilterUpcomingDropsEndedEvents(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	ended := taggedEvent(ts(8))
	ended.End = ts(11)
	endsNow := taggedEvent(ts(9))
	endsNow.End = &now
	future := taggedEvent(ts(10))
	future.End = ts(13)
	noEnd := taggedEvent(ts(11))

	got := FilterUpcoming([]*models.Event{ended, endsNow, future, noEnd}, now)
	if len(got) != 2 {
		t.Fatalf("expected 2 upcoming events, got %d", len(got))
	}
	if got[0] != future || got[1] != noEnd {
		t.Fatalf("expected future and open-ended events to survive the filter")
	}
}

// Package relevance implements personalized event ranking: a lifetime
// tag-frequency profile derived from a user's visited events, and an
// ordering of candidate events by tag-overlap score.
package relevance

import (
	"sort"
	"time"

	"github.com/smartcalendar/backend/internal/models"
)

// TagFrequency maps a tag ID to the number of times it appeared across a
// user's visited events. Absent tags implicitly have count 0.
type TagFrequency map[int64]int

// BuildTagFrequency counts tag occurrences over the user's visit history.
// No decay and no recency weighting, a strict lifetime count.
func BuildTagFrequency(visited []*models.Event) TagFrequency {
	freq := make(TagFrequency)
	for _, event := range visited {
		for _, tag := range event.Tags {
			freq[tag.ID]++
		}
	}
	return freq
}

// Score is the sum of the user's frequency counts over the event's tags.
// An event with no tags always scores 0.
func Score(event *models.Event, freq TagFrequency) int {
	score := 0
	for _, tag := range event.Tags {
		score += freq[tag.ID]
	}
	return score
}

// Rank orders candidates by descending score, ties broken by ascending
// start time (events without a start time sort last among equals). The
// result is a new slice holding a permutation of the input.
func Rank(events []*models.Event, freq TagFrequency) []*models.Event {
	ranked := make([]*models.Event, len(events))
	copy(ranked, events)

	scores := make(map[*models.Event]int, len(ranked))
	for _, event := range ranked {
		scores[event] = Score(event, freq)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if scores[ranked[i]] != scores[ranked[j]] {
			return scores[ranked[i]] > scores[ranked[j]]
		}
		return startsBefore(ranked[i], ranked[j])
	})
	return ranked
}

func startsBefore(a, b *models.Event) bool {
	if a.Start == nil {
		return false
	}
	if b.Start == nil {
		return true
	}
	return a.Start.Before(*b.Start)
}

// FilterUpcoming drops events whose end time is not strictly in the future.
// Events without an end time never expire and are kept.
func FilterUpcoming(events []*models.Event, now time.Time) []*models.Event {
	upcoming := make([]*models.Event, 0, len(events))
	for _, event := range events {
		if !event.Ended(now) {
			upcoming = append(upcoming, event)
		}
	}
	return upcoming
}

package timeline

import (
	"strings"
	"time"

	"github.com/hireline/timeline/internal/models"
)

// predicate is one stage of the filter pipeline.
type predicate func(models.Event) bool

// Apply returns the events visible under f at now. Stages run in a fixed
// order: time-range cutoff, category, type, then free-text search. The input
// slice is never modified and the result is never nil.
func Apply(events []models.Event, f models.FilterState, now time.Time) []models.Event {
	f = f.Normalized()
	stages := pipeline(f, now)

	out := make([]models.Event, 0, len(events))
next:
	for _, e := range events {
		for _, keep := range stages {
			if !keep(e) {
				continue next
			}
		}
		out = append(out, e)
	}

	return out
}

func pipeline(f models.FilterState, now time.Time) []predicate {
	cutoff := f.TimeRange.Cutoff(now)
	stages := []predicate{
		func(e models.Event) bool { return !e.Timestamp.Before(cutoff) },
	}

	if f.Category != models.FilterAll {
		stages = append(stages, func(e models.Event) bool { return string(e.Category) == f.Category })
	}

	if f.Type != models.FilterAll {
		stages = append(stages, func(e models.Event) bool { return string(e.Type) == f.Type })
	}

	// An empty term means no search filter, not "match nothing".
	if f.SearchTerm != "" {
		term := strings.ToLower(f.SearchTerm)
		stages = append(stages, func(e models.Event) bool { return matchesSearch(e, term) })
	}

	return stages
}

// matchesSearch reports whether the lowercase term is a substring of any
// searchable field.
func matchesSearch(e models.Event, term string) bool {
	for _, field := range [...]string{e.Description, e.Actor, e.ActorEmail, e.Target} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Paginate slices a page out of events. hasMore reports whether events
// continue past the page. A non-positive limit returns everything from offset.
func Paginate(events []models.Event, limit, offset int) (page []models.Event, hasMore bool) {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(events) {
		return []models.Event{}, false
	}

	end := len(events)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return events[offset:end], end < len(events)
}

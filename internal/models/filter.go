package models

import (
	"fmt"
	"strings"
	"time"
)

// FilterAll is the selector value meaning "do not filter on this field".
const FilterAll = "all"

// TimeRange is a relative look-back window.
type TimeRange string

// Supported time ranges.
const (
	Range1h  TimeRange = "1h"
	Range24h TimeRange = "24h"
	Range7d  TimeRange = "7d"
	Range30d TimeRange = "30d"
	RangeAll TimeRange = "all"
)

// TimeRanges lists the bounded windows used for stats, narrowest first.
var TimeRanges = []TimeRange{Range1h, Range24h, Range7d, Range30d}

// ParseTimeRange maps user input to a TimeRange. Unknown values fall back
// to 24h, the default window.
func ParseTimeRange(s string) TimeRange {
	switch TimeRange(strings.ToLower(strings.TrimSpace(s))) {
	case Range1h:
		return Range1h
	case Range7d:
		return Range7d
	case Range30d:
		return Range30d
	case RangeAll:
		return RangeAll
	default:
		return Range24h
	}
}

// Window returns the look-back duration; zero for RangeAll.
func (r TimeRange) Window() time.Duration {
	switch ParseTimeRange(string(r)) {
	case Range1h:
		return time.Hour
	case Range7d:
		return 7 * 24 * time.Hour
	case Range30d:
		return 30 * 24 * time.Hour
	case RangeAll:
		return 0
	default:
		return 24 * time.Hour
	}
}

// Cutoff returns the earliest timestamp retained by r at now.
// RangeAll yields the zero time, which every event satisfies.
func (r TimeRange) Cutoff(now time.Time) time.Time {
	w := r.Window()
	if w == 0 {
		return time.Time{}
	}
	return now.Add(-w)
}

// MaxSearchLength bounds the free-text search term.
const MaxSearchLength = 256

// FilterState is the current combination of selections for one view.
// It is a value type; the pipeline never mutates it.
type FilterState struct {
	SearchTerm string    `json:"search"`
	Category   string    `json:"category"`
	Type       string    `json:"type"`
	TimeRange  TimeRange `json:"time_range"`
}

// DefaultFilterState is the state a view starts with.
func DefaultFilterState() FilterState {
	return FilterState{
		Category:  FilterAll,
		Type:      FilterAll,
		TimeRange: Range24h,
	}
}

// Validate checks the user-controlled fields.
func (f FilterState) Validate() error {
	if len(f.SearchTerm) > MaxSearchLength {
		return ErrSearchTooLong
	}
	if f.Category != "" && f.Category != FilterAll && !Category(f.Category).Valid() {
		return fmt.Errorf("%w: category %q", ErrUnknownSelector, f.Category)
	}
	if f.Type != "" && f.Type != FilterAll && !EventType(f.Type).Valid() {
		return fmt.Errorf("%w: type %q", ErrUnknownSelector, f.Type)
	}
	return nil
}

// Normalized fills empty selectors with their defaults.
func (f FilterState) Normalized() FilterState {
	if f.Category == "" {
		f.Category = FilterAll
	}
	if f.Type == "" {
		f.Type = FilterAll
	}
	f.TimeRange = ParseTimeRange(string(f.TimeRange))
	return f
}

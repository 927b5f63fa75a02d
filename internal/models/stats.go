package models

import "time"

// DerivedStats is the aggregate view of an event list. It is a pure function
// of the list and the evaluation time, never cached across refreshes.
type DerivedStats struct {
	Total      int               `json:"total"`
	Last24h    int               `json:"last_24h"`
	ByCategory map[Category]int  `json:"by_category"`
	ByType     map[EventType]int `json:"by_type"`
	BySeverity map[Severity]int  `json:"by_severity"`
	ByWindow   map[TimeRange]int `json:"by_window"`
}

// NewDerivedStats returns stats with every fixed bucket present and zeroed.
func NewDerivedStats() DerivedStats {
	s := DerivedStats{
		ByCategory: make(map[Category]int, len(Categories)),
		ByType:     make(map[EventType]int, len(EventTypes)),
		BySeverity: make(map[Severity]int, len(Severities)),
		ByWindow:   make(map[TimeRange]int, len(TimeRanges)),
	}
	for _, c := range Categories {
		s.ByCategory[c] = 0
	}
	for _, t := range EventTypes {
		s.ByType[t] = 0
	}
	for _, sev := range Severities {
		s.BySeverity[sev] = 0
	}
	for _, r := range TimeRanges {
		s.ByWindow[r] = 0
	}
	return s
}

// Snapshot is the last successfully built timeline.
type Snapshot struct {
	Events      []Event      `json:"events"`
	Stats       DerivedStats `json:"stats"`
	Records     int          `json:"records"`
	RefreshedAt time.Time    `json:"refreshed_at"`
}

// Page is one filtered, paginated view of a snapshot. Stats describe the
// unfiltered snapshot; Total counts the filtered events before paging.
type Page struct {
	Events      []Event      `json:"events"`
	Stats       DerivedStats `json:"stats"`
	Total       int          `json:"total"`
	HasMore     bool         `json:"has_more"`
	RefreshedAt *time.Time   `json:"refreshed_at"`
}

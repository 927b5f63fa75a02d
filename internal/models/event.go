package models

import (
	"slices"
	"time"
)

// EventType is the fine-grained kind of a timeline event.
type EventType string

// Event types produced by the synthesizer.
const (
	TypeUserRegistered           EventType = "user_registered"
	TypeUserUpdated              EventType = "user_updated"
	TypeJobPosted                EventType = "job_posted"
	TypeJobUpdated               EventType = "job_updated"
	TypeApplicationSubmitted     EventType = "application_submitted"
	TypeApplicationStatusChanged EventType = "application_status_changed"
)

// EventTypes lists every event type in display order.
var EventTypes = []EventType{
	TypeUserRegistered,
	TypeUserUpdated,
	TypeJobPosted,
	TypeJobUpdated,
	TypeApplicationSubmitted,
	TypeApplicationStatusChanged,
}

// actionCodes maps each event type to the audit-log action code.
var actionCodes = map[EventType]string{
	TypeUserRegistered:           "USER_CREATED",
	TypeUserUpdated:              "USER_UPDATED",
	TypeJobPosted:                "JOB_CREATED",
	TypeJobUpdated:               "JOB_UPDATED",
	TypeApplicationSubmitted:     "APPLICATION_SUBMITTED",
	TypeApplicationStatusChanged: "APPLICATION_STATUS_CHANGED",
}

// Action returns the audit-log action code for the type.
func (t EventType) Action() string {
	return actionCodes[t]
}

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	_, ok := actionCodes[t]
	return ok
}

// Category is the coarse grouping of an event.
type Category string

// Event categories.
const (
	CategoryUserManagement Category = "user_management"
	CategoryJobManagement  Category = "job_management"
	CategoryApplication    Category = "application"
	CategoryAuthentication Category = "authentication"
)

// Categories lists every category bucket, including ones no source emits yet.
var Categories = []Category{
	CategoryUserManagement,
	CategoryJobManagement,
	CategoryApplication,
	CategoryAuthentication,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// Severity is the display severity of an event.
type Severity string

// Severities.
const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
)

// Severities lists every severity bucket.
var Severities = []Severity{SeverityInfo, SeverityWarning, SeverityError, SeveritySuccess}

// Event is one normalized timeline entry derived from a source record's
// creation or update. Events are recomputed on every refresh and never stored.
type Event struct {
	ID          string         `json:"id"`
	Timestamp   time.Time      `json:"timestamp"`
	Type        EventType      `json:"type"`
	Action      string         `json:"action"`
	Category    Category       `json:"category"`
	Severity    Severity       `json:"severity"`
	Color       string         `json:"color"`
	Actor       string         `json:"actor"`
	ActorEmail  string         `json:"actor_email,omitempty"`
	Description string         `json:"description"`
	Target      string         `json:"target"`
	TargetID    string         `json:"target_id"`
	Details     map[string]any `json:"details,omitempty"`
}

// Package timeline turns source records into a filtered, newest-first event
// timeline. Everything here is a pure function of its arguments.
package timeline

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/hireline/timeline/internal/models"
)

// Placeholders used when a record lacks a display field.
const (
	unknownUser      = "Unknown user"
	unknownCompany   = "Unknown company"
	unknownCandidate = "Candidate"
	unknownPosition  = "a position"
	unknownStatus    = "unknown"
	defaultRole      = "user"
	recruiterActor   = "Recruiter"
)

// Event ID prefixes, one per source collection.
const (
	prefixUser        = "user"
	prefixJob         = "job"
	prefixApplication = "app"
)

// Display colors per event type.
var typeColors = map[models.EventType]string{
	models.TypeUserRegistered:           "blue",
	models.TypeUserUpdated:              "blue",
	models.TypeJobPosted:                "green",
	models.TypeJobUpdated:               "green",
	models.TypeApplicationSubmitted:     "purple",
	models.TypeApplicationStatusChanged: "orange",
}

// statusSeverity is the fixed lookup for application status changes.
// Unlisted statuses are info.
var statusSeverity = map[string]models.Severity{
	"accepted": models.SeverityInfo,
	"rejected": models.SeverityWarning,
	"pending":  models.SeverityInfo,
}

// SeverityForStatus returns the severity of an application moving to status.
func SeverityForStatus(status string) models.Severity {
	if sev, ok := statusSeverity[strings.ToLower(strings.TrimSpace(status))]; ok {
		return sev
	}
	return models.SeverityInfo
}

// Mapper turns one source record into its events, creation first.
type Mapper[T any] func(T) []models.Event

// MapRecords applies m to every record in order and flattens the result.
func MapRecords[T any](records []T, m Mapper[T]) []models.Event {
	out := make([]models.Event, 0, len(records)*2)
	for _, r := range records {
		out = append(out, m(r)...)
	}
	return out
}

// SourceMapper produces the events of one collection of a SourceSet.
type SourceMapper func(models.SourceSet) []models.Event

// DefaultMappers synthesize users, then jobs, then applications.
var DefaultMappers = []SourceMapper{
	func(s models.SourceSet) []models.Event { return MapRecords(s.Users, UserEvents) },
	func(s models.SourceSet) []models.Event { return MapRecords(s.Jobs, JobEvents) },
	func(s models.SourceSet) []models.Event { return MapRecords(s.Applications, ApplicationEvents) },
}

// Synthesize maps every record of set to events in source order, unsorted.
func Synthesize(set models.SourceSet) []models.Event {
	var out []models.Event
	for _, m := range DefaultMappers {
		out = append(out, m(set)...)
	}
	if out == nil {
		out = []models.Event{}
	}
	return out
}

// UserEvents emits user_registered and, when the account changed after
// creation, user_updated.
func UserEvents(u models.User) []models.Event {
	name := firstNonEmpty(u.FullName, u.Username, unknownUser)
	target := firstNonEmpty(u.Username, name)
	details := map[string]any{
		"username":  u.Username,
		"email":     u.Email,
		"role":      u.Role,
		"is_active": u.IsActive,
	}

	events := []models.Event{newEvent(eventSpec{
		prefix:      prefixUser,
		op:          "create",
		sourceID:    u.ID,
		typ:         models.TypeUserRegistered,
		category:    models.CategoryUserManagement,
		severity:    models.SeveritySuccess,
		actor:       name,
		actorEmail:  u.Email,
		description: fmt.Sprintf("%s registered as %s", name, firstNonEmpty(u.Role, defaultRole)),
		target:      target,
		details:     details,
	}, u.CreatedAt)}

	if models.WasUpdated(u.CreatedAt, u.UpdatedAt) {
		events = append(events, newEvent(eventSpec{
			prefix:      prefixUser,
			op:          "update",
			sourceID:    u.ID,
			typ:         models.TypeUserUpdated,
			category:    models.CategoryUserManagement,
			severity:    models.SeverityInfo,
			actor:       name,
			actorEmail:  u.Email,
			description: name + " updated their profile",
			target:      target,
			details:     maps.Clone(details),
		}, *u.UpdatedAt))
	}

	return events
}

// JobEvents emits job_posted and, when the posting changed, job_updated.
func JobEvents(j models.Job) []models.Event {
	title := firstNonEmpty(j.Title, unknownPosition)
	company := firstNonEmpty(j.CompanyName, unknownCompany)
	details := map[string]any{
		"title":    j.Title,
		"status":   j.Status,
		"location": j.Location,
		"company":  j.CompanyName,
	}

	posted := "New job posted: " + title
	if j.Location != "" {
		posted += " in " + j.Location
	}

	events := []models.Event{newEvent(eventSpec{
		prefix:      prefixJob,
		op:          "create",
		sourceID:    j.ID,
		typ:         models.TypeJobPosted,
		category:    models.CategoryJobManagement,
		severity:    models.SeveritySuccess,
		actor:       company,
		description: posted,
		target:      title,
		details:     details,
	}, j.CreatedAt)}

	if models.WasUpdated(j.CreatedAt, j.UpdatedAt) {
		events = append(events, newEvent(eventSpec{
			prefix:      prefixJob,
			op:          "update",
			sourceID:    j.ID,
			typ:         models.TypeJobUpdated,
			category:    models.CategoryJobManagement,
			severity:    models.SeverityInfo,
			actor:       company,
			description: fmt.Sprintf("Job %s was updated (status: %s)", title, firstNonEmpty(j.Status, unknownStatus)),
			target:      title,
			details:     maps.Clone(details),
		}, *j.UpdatedAt))
	}

	return events
}

// ApplicationEvents emits application_submitted and, when the application
// changed, application_status_changed with a status-derived severity.
func ApplicationEvents(a models.Application) []models.Event {
	candidate := firstNonEmpty(a.CandidateName, unknownCandidate)
	position := firstNonEmpty(a.JobTitle, unknownPosition)
	status := firstNonEmpty(a.Status, unknownStatus)
	details := map[string]any{
		"candidate_name": a.CandidateName,
		"status":         a.Status,
		"job_id":         a.JobID,
		"job_title":      a.JobTitle,
	}

	events := []models.Event{newEvent(eventSpec{
		prefix:      prefixApplication,
		op:          "create",
		sourceID:    a.ID,
		typ:         models.TypeApplicationSubmitted,
		category:    models.CategoryApplication,
		severity:    models.SeverityInfo,
		actor:       candidate,
		actorEmail:  a.UserEmail,
		description: fmt.Sprintf("%s applied for %s", candidate, position),
		target:      position,
		details:     details,
	}, a.CreatedAt)}

	if models.WasUpdated(a.CreatedAt, a.UpdatedAt) {
		events = append(events, newEvent(eventSpec{
			prefix:      prefixApplication,
			op:          "update",
			sourceID:    a.ID,
			typ:         models.TypeApplicationStatusChanged,
			category:    models.CategoryApplication,
			severity:    SeverityForStatus(a.Status),
			actor:       recruiterActor,
			actorEmail:  a.UserEmail,
			description: fmt.Sprintf("Application from %s for %s moved to %s", candidate, position, status),
			target:      position,
			details:     maps.Clone(details),
		}, *a.UpdatedAt))
	}

	return events
}

type eventSpec struct {
	prefix      string
	op          string
	sourceID    string
	typ         models.EventType
	category    models.Category
	severity    models.Severity
	actor       string
	actorEmail  string
	description string
	target      string
	details     map[string]any
}

func newEvent(s eventSpec, at time.Time) models.Event {
	return models.Event{
		ID:          s.prefix + "-" + s.op + "-" + s.sourceID,
		Timestamp:   at,
		Type:        s.typ,
		Action:      s.typ.Action(),
		Category:    s.category,
		Severity:    s.severity,
		Color:       typeColors[s.typ],
		Actor:       s.actor,
		ActorEmail:  s.actorEmail,
		Description: s.description,
		Target:      s.target,
		TargetID:    s.sourceID,
		Details:     s.details,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Package models defines the records and derived types of the timeline service.
package models

import "time"

// User is a backend user account, read-only from the timeline's point of view.
type User struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	FullName  string     `json:"full_name,omitempty"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Job is a posted position.
type Job struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Location    string     `json:"location,omitempty"`
	Status      string     `json:"status"`
	CompanyName string     `json:"company_name,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// Application is a candidate's application to a job.
type Application struct {
	ID            string     `json:"id"`
	CandidateName string     `json:"candidate_name"`
	Status        string     `json:"status"`
	JobID         string     `json:"job_id"`
	JobTitle      string     `json:"job_title,omitempty"`
	UserEmail     string     `json:"user_email,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// SourceSet is one joint fetch of every record collection.
type SourceSet struct {
	Users        []User
	Jobs         []Job
	Applications []Application
}

// Len returns the total number of source records.
func (s SourceSet) Len() int {
	return len(s.Users) + len(s.Jobs) + len(s.Applications)
}

// WasUpdated reports whether updatedAt marks a mutation worth its own event:
// present, non-zero and different from createdAt.
func WasUpdated(createdAt time.Time, updatedAt *time.Time) bool {
	return updatedAt != nil && !updatedAt.IsZero() && !updatedAt.Equal(createdAt)
}

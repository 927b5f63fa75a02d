package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// timestampLayouts are tried in order when decoding backend timestamps.
// Zone-less layouts are interpreted as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Timestamp is a time.Time that decodes the formats the backend emits.
// A JSON null or empty string decodes to the zero value.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// ID is a record identifier the backend may send as a number or a string.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a number or string: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*id = ID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = ID(n.String())
	return nil
}

// User is an account registered with the backend.
type User struct {
	ID        ID         `json:"id"`
	Username  string     `json:"username"`
	FullName  string     `json:"full_name,omitempty"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"is_active"`
	CreatedAt Timestamp  `json:"created_at"`
	UpdatedAt *Timestamp `json:"updated_at,omitempty"`
}

// Company is the employer embedded in a job.
type Company struct {
	Name string `json:"name"`
}

// Job is a posted position.
type Job struct {
	ID        ID         `json:"id"`
	Title     string     `json:"title"`
	Location  string     `json:"location,omitempty"`
	Status    string     `json:"status"`
	Company   *Company   `json:"company,omitempty"`
	CreatedAt Timestamp  `json:"created_at"`
	UpdatedAt *Timestamp `json:"updated_at,omitempty"`
}

// JobRef is the job summary embedded in an application.
type JobRef struct {
	Title string `json:"title"`
}

// UserRef is the applicant account embedded in an application.
type UserRef struct {
	Email string `json:"email"`
}

// Application is a candidate's application to a job.
type Application struct {
	ID            ID         `json:"id"`
	CandidateName string     `json:"candidate_name"`
	Status        string     `json:"status"`
	JobID         ID         `json:"job_id"`
	Job           *JobRef    `json:"job,omitempty"`
	User          *UserRef   `json:"user,omitempty"`
	CreatedAt     Timestamp  `json:"created_at"`
	UpdatedAt     *Timestamp `json:"updated_at,omitempty"`
}

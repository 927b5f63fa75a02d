// Package source fetches the record collections a timeline is built from.
package source

import (
	"context"

	"github.com/hireline/timeline/internal/models"
)

// Fetcher performs one joint fetch of users, jobs and applications.
// A fetch either returns all three collections or fails as a whole.
type Fetcher interface {
	Fetch(ctx context.Context) (models.SourceSet, error)
}

// Collection names used in errors and logs.
const (
	CollectionUsers        = "users"
	CollectionJobs         = "jobs"
	CollectionApplications = "applications"
)

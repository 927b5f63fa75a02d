// Package domain defines the canonical service interfaces shared by the
// HTTP layer and the process wiring. Consumers should depend on these
// interfaces rather than re-declaring equivalent ones.
package domain

import (
	"context"

	"github.com/hireline/timeline/internal/models"
)

// TimelineReader serves views of the last good timeline snapshot.
type TimelineReader interface {
	Query(f models.FilterState, limit, offset int) (*models.Page, error)
	Stats() models.DerivedStats
	Ready() bool
}

// TimelineRefresher rebuilds the timeline from its source.
type TimelineRefresher interface {
	Refresh(ctx context.Context, trigger string) (*models.Snapshot, error)
}

// TimelineService is the full timeline surface.
type TimelineService interface {
	TimelineReader
	TimelineRefresher
}

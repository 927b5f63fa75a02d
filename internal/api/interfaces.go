package api

import "github.com/hireline/timeline/internal/domain"

// TimelineService is the timeline surface used by TimelineHandler.
type TimelineService = domain.TimelineService

// ReadinessChecker reports whether the first refresh has completed.
type ReadinessChecker interface {
	Ready() bool
}

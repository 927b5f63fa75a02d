package timeline

import (
	"time"

	"github.com/hireline/timeline/internal/models"
)

// ComputeStats aggregates events into fixed buckets evaluated at now.
// Callers pass the unfiltered timeline: stats describe totals, not the
// currently filtered view.
func ComputeStats(events []models.Event, now time.Time) models.DerivedStats {
	s := models.NewDerivedStats()
	s.Total = len(events)

	cutoffs := make(map[models.TimeRange]time.Time, len(models.TimeRanges))
	for _, r := range models.TimeRanges {
		cutoffs[r] = r.Cutoff(now)
	}

	for i := range events {
		e := &events[i]
		s.ByCategory[e.Category]++
		s.ByType[e.Type]++
		s.BySeverity[e.Severity]++

		for r, cutoff := range cutoffs {
			if !e.Timestamp.Before(cutoff) {
				s.ByWindow[r]++
			}
		}
	}

	s.Last24h = s.ByWindow[models.Range24h]

	return s
}

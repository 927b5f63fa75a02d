package timeline

import (
	"slices"

	"github.com/hireline/timeline/internal/models"
)

// Merge concatenates event batches and orders them newest first.
// The sort is stable, so events with equal timestamps keep their synthesis
// order. When two events share an ID the first one wins.
func Merge(batches ...[]models.Event) []models.Event {
	size := 0
	for _, b := range batches {
		size += len(b)
	}

	out := make([]models.Event, 0, size)
	seen := make(map[string]struct{}, size)
	for _, b := range batches {
		for _, e := range b {
			if _, dup := seen[e.ID]; dup {
				continue
			}
			seen[e.ID] = struct{}{}
			out = append(out, e)
		}
	}

	slices.SortStableFunc(out, func(a, b models.Event) int {
		return b.Timestamp.Compare(a.Timestamp)
	})

	return out
}

// Build synthesizes and merges the default timeline of set.
func Build(set models.SourceSet) []models.Event {
	return BuildWith(set, DefaultMappers...)
}

// BuildWith synthesizes set with the given mappers, in order, and merges
// the batches into one newest-first timeline.
func BuildWith(set models.SourceSet, mappers ...SourceMapper) []models.Event {
	batches := make([][]models.Event, 0, len(mappers))
	for _, m := range mappers {
		batches = append(batches, m(set))
	}
	return Merge(batches...)
}

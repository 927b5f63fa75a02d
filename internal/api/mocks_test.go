package api_test

import (
	"context"
	"sync"

	"github.com/hireline/timeline/internal/models"
)

// mockTimeline records calls and returns configured responses.
type mockTimeline struct {
	mu    sync.Mutex
	calls []string

	query   func(f models.FilterState, limit, offset int) (*models.Page, error)
	stats   func() models.DerivedStats
	refresh func(ctx context.Context, trigger string) (*models.Snapshot, error)
	ready   bool
}

func (m *mockTimeline) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockTimeline) Query(f models.FilterState, limit, offset int) (*models.Page, error) {
	m.record("Query")
	return m.query(f, limit, offset)
}

func (m *mockTimeline) Stats() models.DerivedStats {
	m.record("Stats")
	if m.stats == nil {
		return models.NewDerivedStats()
	}
	return m.stats()
}

func (m *mockTimeline) Refresh(ctx context.Context, trigger string) (*models.Snapshot, error) {
	m.record("Refresh")
	return m.refresh(ctx, trigger)
}

func (m *mockTimeline) Ready() bool {
	return m.ready
}

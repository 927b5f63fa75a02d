package service

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hireline/timeline/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func ptr[T any](v T) *T { return &v }

var testNow = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

// mockFetcher returns configured responses and counts calls.
type mockFetcher struct {
	mu    sync.Mutex
	calls int
	fetch func(ctx context.Context) (models.SourceSet, error)
}

func (m *mockFetcher) Fetch(ctx context.Context) (models.SourceSet, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.fetch(ctx)
}

func (m *mockFetcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type published struct {
	eventType string
	data      any
}

// mockNotifier records every published notification.
type mockNotifier struct {
	mu     sync.Mutex
	events []published
}

func (m *mockNotifier) Publish(eventType string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, published{eventType: eventType, data: data})
}

func (m *mockNotifier) ofType(eventType string) []published {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []published
	for _, e := range m.events {
		if e.eventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

// mockRefresher counts refreshes per trigger.
type mockRefresher struct {
	mu       sync.Mutex
	triggers []string
	err      error
}

func (m *mockRefresher) Refresh(_ context.Context, trigger string) (*models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.triggers = append(m.triggers, trigger)
	if m.err != nil {
		return nil, m.err
	}
	return &models.Snapshot{}, nil
}

func (m *mockRefresher) count(trigger string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.triggers {
		if t == trigger {
			n++
		}
	}
	return n
}

// sampleSet has one user updated after creation, one job and one accepted application.
func sampleSet() models.SourceSet {
	return models.SourceSet{
		Users: []models.User{{
			ID: "1", Username: "alice", FullName: "Alice Smith", Email: "alice@example.com", Role: "recruiter",
			CreatedAt: testNow.Add(-48 * time.Hour), UpdatedAt: ptr(testNow.Add(-30 * time.Minute)),
		}},
		Jobs: []models.Job{{
			ID: "7", Title: "Backend Engineer", Location: "Remote", Status: "open", CompanyName: "Acme",
			CreatedAt: testNow.Add(-10 * 24 * time.Hour),
		}},
		Applications: []models.Application{{
			ID: "3", CandidateName: "Dana", Status: "accepted", JobID: "7", JobTitle: "Backend Engineer",
			UserEmail: "dana@example.com", CreatedAt: testNow.Add(-2 * time.Hour),
		}},
	}
}

func newTestService(f *mockFetcher, n *mockNotifier) *TimelineService {
	svc := NewTimelineService(f, n, testLogger())
	svc.now = func() time.Time { return testNow }
	return svc
}

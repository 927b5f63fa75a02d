// Package service orchestrates timeline refreshes and serves filtered views
// of the last good snapshot.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/hireline/timeline/internal/metrics"
	"github.com/hireline/timeline/internal/models"
	"github.com/hireline/timeline/internal/source"
	"github.com/hireline/timeline/internal/timeline"
)

// Refresh triggers, used as a metric label and log field.
const (
	TriggerStartup = "startup"
	TriggerPoll    = "poll"
	TriggerManual  = "manual"
	TriggerNotify  = "notify"
)

// Notification payloads sent to dashboards.
const (
	EventTimelineUpdated       = "timeline.updated"
	EventTimelineRefreshFailed = "timeline.refresh_failed"

	// RefreshFailedMessage is the user-facing text of a failed refresh.
	RefreshFailedMessage = "Failed to load activities"
)

// Notifier delivers user-facing notifications. The ws hub implements it.
type Notifier interface {
	Publish(eventType string, data any)
}

// UpdatedNotice is the payload of a timeline.updated notification.
type UpdatedNotice struct {
	Total       int       `json:"total"`
	Trigger     string    `json:"trigger"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

// FailedNotice is the payload of a timeline.refresh_failed notification.
type FailedNotice struct {
	Message string `json:"message"`
	Trigger string `json:"trigger"`
}

// TimelineService holds the last successfully built timeline and rebuilds
// it from the configured source on demand.
type TimelineService struct {
	fetcher  source.Fetcher
	notifier Notifier
	log      *logrus.Logger
	mappers  []timeline.SourceMapper
	now      func() time.Time

	group singleflight.Group

	mu       sync.RWMutex
	snapshot *models.Snapshot
}

// NewTimelineService creates a TimelineService. notifier may be nil.
func NewTimelineService(fetcher source.Fetcher, notifier Notifier, log *logrus.Logger) *TimelineService {
	return &TimelineService{
		fetcher:  fetcher,
		notifier: notifier,
		log:      log,
		mappers:  timeline.DefaultMappers,
		now:      time.Now,
	}
}

// Refresh fetches all collections, rebuilds the timeline and swaps it in.
// Concurrent calls share one fetch. On failure the previous snapshot stays
// visible and exactly one failure notification is emitted per fetch.
// The fetch is bounded only by the source's own timeout (FETCH_TIMEOUT).
func (s *TimelineService) Refresh(ctx context.Context, trigger string) (*models.Snapshot, error) {
	// Detached so one caller going away does not fail the others sharing the call.
	ch := s.group.DoChan("refresh", func() (any, error) {
		return s.refresh(context.WithoutCancel(ctx), trigger)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}

		snap, _ := res.Val.(*models.Snapshot)

		return snap, nil
	}
}

func (s *TimelineService) refresh(ctx context.Context, trigger string) (*models.Snapshot, error) {
	start := time.Now()
	log := s.log.WithField("trigger", trigger)

	set, err := s.fetcher.Fetch(ctx)
	metrics.RefreshDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		s.recordFailure(log, trigger, err)

		if !errors.Is(err, models.ErrFetchFailed) {
			err = fmt.Errorf("%w: %w", models.ErrFetchFailed, err)
		}

		return nil, err
	}

	now := s.now().UTC()
	events := timeline.BuildWith(set, s.mappers...)
	snap := &models.Snapshot{
		Events:      events,
		Stats:       timeline.ComputeStats(events, now),
		Records:     set.Len(),
		RefreshedAt: now,
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	metrics.RefreshTotal.WithLabelValues(trigger, "success").Inc()
	metrics.LastRefresh.Set(float64(now.Unix()))
	for cat, n := range snap.Stats.ByCategory {
		metrics.EventCount.WithLabelValues(string(cat)).Set(float64(n))
	}

	log.WithFields(logrus.Fields{
		"records":     snap.Records,
		"events":      len(events),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("timeline refreshed")

	s.notify(EventTimelineUpdated, UpdatedNotice{Total: len(events), Trigger: trigger, RefreshedAt: now})

	return snap, nil
}

func (s *TimelineService) recordFailure(log *logrus.Entry, trigger string, err error) {
	metrics.RefreshTotal.WithLabelValues(trigger, "failure").Inc()
	metrics.ErrorsTotal.WithLabelValues("fetch_failed").Inc()

	var fe *models.FetchError
	if errors.As(err, &fe) {
		metrics.FetchFailures.WithLabelValues(fe.Source).Inc()
		log = log.WithField("collection", fe.Source)
	}

	log.WithError(err).Error("timeline refresh failed, keeping previous snapshot")

	s.notify(EventTimelineRefreshFailed, FailedNotice{Message: RefreshFailedMessage, Trigger: trigger})
}

func (s *TimelineService) notify(eventType string, data any) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(eventType, data)
}

// Snapshot returns the current snapshot or ErrNoSnapshot before the first
// successful refresh.
func (s *TimelineService) Snapshot() (*models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return nil, models.ErrNoSnapshot
	}

	return s.snapshot, nil
}

// Ready reports whether at least one refresh has succeeded.
func (s *TimelineService) Ready() bool {
	_, err := s.Snapshot()
	return err == nil
}

// Query filters the current snapshot and paginates the result. Stats always
// describe the unfiltered list. Before the first successful refresh it
// returns an empty page with zeroed stats.
func (s *TimelineService) Query(f models.FilterState, limit, offset int) (*models.Page, error) {
	f = f.Normalized()
	if err := f.Validate(); err != nil {
		return nil, err
	}

	now := s.now()

	snap, err := s.Snapshot()
	if err != nil {
		return &models.Page{Events: []models.Event{}, Stats: models.NewDerivedStats()}, nil
	}

	filtered := timeline.Apply(snap.Events, f, now)
	page, hasMore := timeline.Paginate(filtered, limit, offset)
	refreshedAt := snap.RefreshedAt

	return &models.Page{
		Events:      page,
		Stats:       timeline.ComputeStats(snap.Events, now),
		Total:       len(filtered),
		HasMore:     hasMore,
		RefreshedAt: &refreshedAt,
	}, nil
}

// Stats returns statistics over the whole current timeline.
func (s *TimelineService) Stats() models.DerivedStats {
	snap, err := s.Snapshot()
	if err != nil {
		return models.NewDerivedStats()
	}

	return timeline.ComputeStats(snap.Events, s.now())
}

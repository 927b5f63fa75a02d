package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hireline/timeline/internal/models"
)

func TestQuery_BeforeFirstRefresh(t *testing.T) {
	svc := newTestService(&mockFetcher{}, &mockNotifier{})

	page, err := svc.Query(models.DefaultFilterState(), 50, 0)
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if page.Events == nil || len(page.Events) != 0 {
		t.Errorf("expected empty non-nil events, got %#v", page.Events)
	}
	if page.Stats.Total != 0 || page.Stats.ByCategory[models.CategoryApplication] != 0 {
		t.Errorf("expected zero stats, got %+v", page.Stats)
	}
	if page.RefreshedAt != nil {
		t.Errorf("refreshed_at should be unset, got %v", page.RefreshedAt)
	}
	if svc.Ready() {
		t.Error("service should not be ready before a refresh")
	}
	if _, err := svc.Snapshot(); !errors.Is(err, models.ErrNoSnapshot) {
		t.Errorf("Snapshot() error = %v, want ErrNoSnapshot", err)
	}
}

func TestRefresh_Success(t *testing.T) {
	fetcher := &mockFetcher{fetch: func(context.Context) (models.SourceSet, error) { return sampleSet(), nil }}
	notifier := &mockNotifier{}
	svc := newTestService(fetcher, notifier)

	snap, err := svc.Refresh(context.Background(), TriggerManual)
	if err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	if len(snap.Events) != 4 {
		t.Fatalf("got %d events, want 4", len(snap.Events))
	}
	if snap.Records != 3 {
		t.Errorf("records = %d, want 3", snap.Records)
	}
	if !snap.RefreshedAt.Equal(testNow) {
		t.Errorf("refreshed_at = %v", snap.RefreshedAt)
	}
	if !svc.Ready() {
		t.Error("service should be ready after a successful refresh")
	}

	updated := notifier.ofType(EventTimelineUpdated)
	if len(updated) != 1 {
		t.Fatalf("got %d updated notifications, want 1", len(updated))
	}
	if n, ok := updated[0].data.(UpdatedNotice); !ok || n.Total != 4 || n.Trigger != TriggerManual {
		t.Errorf("notice = %+v", updated[0].data)
	}
}

func TestRefresh_FailureKeepsSnapshot(t *testing.T) {
	fail := false
	fetcher := &mockFetcher{fetch: func(context.Context) (models.SourceSet, error) {
		if fail {
			return models.SourceSet{}, &models.FetchError{Source: "jobs", Err: errors.New("connection refused")}
		}
		return sampleSet(), nil
	}}
	notifier := &mockNotifier{}
	svc := newTestService(fetcher, notifier)

	before, err := svc.Refresh(context.Background(), TriggerStartup)
	if err != nil {
		t.Fatalf("initial Refresh() error: %v", err)
	}

	fail = true
	_, err = svc.Refresh(context.Background(), TriggerPoll)
	if !errors.Is(err, models.ErrFetchFailed) {
		t.Fatalf("error = %v, want ErrFetchFailed", err)
	}

	after, err := svc.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if after != before {
		t.Error("failed refresh replaced the snapshot")
	}

	failed := notifier.ofType(EventTimelineRefreshFailed)
	if len(failed) != 1 {
		t.Fatalf("got %d failure notifications, want exactly 1", len(failed))
	}
	if n, ok := failed[0].data.(FailedNotice); !ok || n.Message != RefreshFailedMessage {
		t.Errorf("failure notice = %+v", failed[0].data)
	}
}

func TestRefresh_FailureOnFirstLoad(t *testing.T) {
	fetcher := &mockFetcher{fetch: func(context.Context) (models.SourceSet, error) {
		return models.SourceSet{}, &models.FetchError{Source: "users", Err: errors.New("503")}
	}}
	notifier := &mockNotifier{}
	svc := newTestService(fetcher, notifier)

	if _, err := svc.Refresh(context.Background(), TriggerStartup); !errors.Is(err, models.ErrFetchFailed) {
		t.Fatalf("error = %v, want ErrFetchFailed", err)
	}

	page, err := svc.Query(models.DefaultFilterState(), 50, 0)
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if page.Events == nil || len(page.Events) != 0 || page.Total != 0 {
		t.Errorf("expected empty non-nil page, got %+v", page)
	}
	if svc.Ready() {
		t.Error("service should not be ready after a failed first load")
	}
	if got := len(notifier.ofType(EventTimelineRefreshFailed)); got != 1 {
		t.Errorf("got %d failure notifications, want exactly 1", got)
	}
	if got := len(notifier.ofType(EventTimelineUpdated)); got != 0 {
		t.Errorf("got %d updated notifications, want 0", got)
	}
}

func TestRefresh_NoDeadlineBeyondSource(t *testing.T) {
	var (
		hasDeadline bool
		deadline    time.Time
	)
	fetcher := &mockFetcher{fetch: func(ctx context.Context) (models.SourceSet, error) {
		deadline, hasDeadline = ctx.Deadline()
		return sampleSet(), nil
	}}
	svc := newTestService(fetcher, &mockNotifier{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := svc.Refresh(ctx, TriggerManual); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	if hasDeadline {
		t.Errorf("fetch saw deadline %v; only the source's FETCH_TIMEOUT should bound it", time.Until(deadline))
	}
}

func TestRefresh_PlainErrorIsFetchFailed(t *testing.T) {
	fetcher := &mockFetcher{fetch: func(context.Context) (models.SourceSet, error) {
		return models.SourceSet{}, errors.New("boom")
	}}
	svc := newTestService(fetcher, nil)

	if _, err := svc.Refresh(context.Background(), TriggerManual); !errors.Is(err, models.ErrFetchFailed) {
		t.Errorf("error = %v, want ErrFetchFailed", err)
	}
}

func TestRefresh_ConcurrentCallsShareOneFetch(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 8)
	fetcher := &mockFetcher{fetch: func(context.Context) (models.SourceSet, error) {
		started <- struct{}{}
		<-release
		return sampleSet(), nil
	}}
	svc := newTestService(fetcher, &mockNotifier{})

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Refresh(context.Background(), TriggerManual)
			errs <- err
		}()
	}

	<-started
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("Refresh() error: %v", err)
		}
	}
	if got := fetcher.callCount(); got != 1 {
		t.Errorf("fetch called %d times, want 1", got)
	}
}

func TestRefresh_CallerCancelDoesNotAbortFetch(t *testing.T) {
	release := make(chan struct{})
	fetcher := &mockFetcher{fetch: func(ctx context.Context) (models.SourceSet, error) {
		select {
		case <-release:
			return sampleSet(), nil
		case <-ctx.Done():
			return models.SourceSet{}, ctx.Err()
		}
	}}
	svc := newTestService(fetcher, &mockNotifier{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := svc.Refresh(ctx, TriggerManual)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled caller error = %v", err)
	}

	close(release)

	deadline := time.Now().Add(time.Second)
	for !svc.Ready() {
		if time.Now().After(deadline) {
			t.Fatal("detached refresh never completed")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestQuery_FiltersListButNotStats(t *testing.T) {
	fetcher := &mockFetcher{fetch: func(context.Context) (models.SourceSet, error) { return sampleSet(), nil }}
	svc := newTestService(fetcher, nil)
	if _, err := svc.Refresh(context.Background(), TriggerManual); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}

	page, err := svc.Query(models.DefaultFilterState(), 50, 0)
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if page.Total != 2 || len(page.Events) != 2 {
		t.Fatalf("24h view: total %d, len %d, want 2", page.Total, len(page.Events))
	}
	if page.Events[0].Type != models.TypeUserUpdated {
		t.Errorf("newest event = %s, want user_updated", page.Events[0].Type)
	}
	if page.Stats.Total != 4 || page.Stats.Last24h != 2 {
		t.Errorf("stats = total %d last24h %d, want 4 and 2", page.Stats.Total, page.Stats.Last24h)
	}

	page, err = svc.Query(models.FilterState{TimeRange: models.RangeAll, SearchTerm: "ACME"}, 0, 0)
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if page.Total != 1 || page.Events[0].Type != models.TypeJobPosted {
		t.Errorf("search ACME: %+v", page.Events)
	}

	page, err = svc.Query(models.FilterState{TimeRange: models.RangeAll}, 1, 1)
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if len(page.Events) != 1 || !page.HasMore || page.Total != 4 {
		t.Errorf("page 2 of 4: len %d has_more %v total %d", len(page.Events), page.HasMore, page.Total)
	}
}

func TestQuery_SearchTooLong(t *testing.T) {
	svc := newTestService(&mockFetcher{}, nil)

	long := make([]byte, models.MaxSearchLength+1)
	for i := range long {
		long[i] = 'a'
	}

	_, err := svc.Query(models.FilterState{SearchTerm: string(long)}, 10, 0)
	if !errors.Is(err, models.ErrSearchTooLong) {
		t.Errorf("error = %v, want ErrSearchTooLong", err)
	}
}

func TestStats_Unfiltered(t *testing.T) {
	fetcher := &mockFetcher{fetch: func(context.Context) (models.SourceSet, error) { return sampleSet(), nil }}
	svc := newTestService(fetcher, nil)

	if got := svc.Stats(); got.Total != 0 {
		t.Errorf("stats before refresh: total %d", got.Total)
	}

	if _, err := svc.Refresh(context.Background(), TriggerManual); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}

	st := svc.Stats()
	if st.Total != 4 {
		t.Errorf("total = %d, want 4", st.Total)
	}
	if st.ByCategory[models.CategoryUserManagement] != 2 || st.ByCategory[models.CategoryJobManagement] != 1 {
		t.Errorf("by category = %v", st.ByCategory)
	}
	if st.ByWindow[models.Range30d] != 4 || st.ByWindow[models.Range1h] != 1 {
		t.Errorf("by window = %v", st.ByWindow)
	}
}

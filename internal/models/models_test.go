package models_test

import (
	"errors"
	"testing"
	"time"

	"github.com/hireline/timeline/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		in   string
		want models.TimeRange
	}{
		{"1h", models.Range1h},
		{"24h", models.Range24h},
		{"7d", models.Range7d},
		{"30D", models.Range30d},
		{" all ", models.RangeAll},
		{"", models.Range24h},
		{"90d", models.Range24h},
		{"forever", models.Range24h},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := models.ParseTimeRange(tt.in); got != tt.want {
				t.Errorf("ParseTimeRange(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTimeRange_Cutoff(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	if got := models.Range1h.Cutoff(now); !got.Equal(now.Add(-time.Hour)) {
		t.Errorf("1h cutoff = %v", got)
	}
	if got := models.Range30d.Cutoff(now); !got.Equal(now.AddDate(0, 0, -30)) {
		t.Errorf("30d cutoff = %v", got)
	}
	if got := models.RangeAll.Cutoff(now); !got.IsZero() {
		t.Errorf("all cutoff should be zero time, got %v", got)
	}
	if got := models.TimeRange("bogus").Cutoff(now); !got.Equal(now.Add(-24 * time.Hour)) {
		t.Errorf("unknown range should behave as 24h, got %v", got)
	}
}

func TestFilterState_Defaults(t *testing.T) {
	f := models.DefaultFilterState()
	if f.SearchTerm != "" || f.Category != models.FilterAll || f.Type != models.FilterAll || f.TimeRange != models.Range24h {
		t.Errorf("unexpected default filter state: %+v", f)
	}

	n := models.FilterState{TimeRange: "nope"}.Normalized()
	if n.Category != models.FilterAll || n.Type != models.FilterAll || n.TimeRange != models.Range24h {
		t.Errorf("Normalized() = %+v", n)
	}
}

func TestFilterState_Validate(t *testing.T) {
	long := make([]byte, models.MaxSearchLength+1)
	for i := range long {
		long[i] = 'a'
	}

	if err := (models.FilterState{SearchTerm: string(long)}).Validate(); !errors.Is(err, models.ErrSearchTooLong) {
		t.Errorf("expected ErrSearchTooLong, got %v", err)
	}
	if err := (models.FilterState{SearchTerm: "interview"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (models.FilterState{Category: "billing"}).Validate(); !errors.Is(err, models.ErrUnknownSelector) {
		t.Errorf("unknown category: got %v", err)
	}
	if err := (models.FilterState{Type: "job_deleted"}).Validate(); !errors.Is(err, models.ErrUnknownSelector) {
		t.Errorf("unknown type: got %v", err)
	}
	ok := models.FilterState{Category: string(models.CategoryAuthentication), Type: string(models.TypeJobPosted)}
	if err := ok.Validate(); err != nil {
		t.Errorf("known selectors rejected: %v", err)
	}
}

func TestWasUpdated(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		updated *time.Time
		want    bool
	}{
		{"nil", nil, false},
		{"zero", ptr(time.Time{}), false},
		{"equal", ptr(created), false},
		{"equal other zone", ptr(created.In(time.FixedZone("X", 3600))), false},
		{"one second later", ptr(created.Add(time.Second)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := models.WasUpdated(created, tt.updated); got != tt.want {
				t.Errorf("WasUpdated() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewDerivedStats_SeedsBuckets(t *testing.T) {
	s := models.NewDerivedStats()

	for _, c := range models.Categories {
		if v, ok := s.ByCategory[c]; !ok || v != 0 {
			t.Errorf("category bucket %q missing or nonzero", c)
		}
	}
	for _, et := range models.EventTypes {
		if _, ok := s.ByType[et]; !ok {
			t.Errorf("type bucket %q missing", et)
		}
	}
	if len(s.ByWindow) != len(models.TimeRanges) {
		t.Errorf("window buckets = %d, want %d", len(s.ByWindow), len(models.TimeRanges))
	}
}

func TestEventType_Action(t *testing.T) {
	if got := models.TypeJobPosted.Action(); got != "JOB_CREATED" {
		t.Errorf("job_posted action = %q", got)
	}
	if models.EventType("login").Valid() {
		t.Error("unknown type reported valid")
	}
}

func TestFetchError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &models.FetchError{Source: "jobs", Err: cause}

	if !errors.Is(err, models.ErrFetchFailed) {
		t.Error("FetchError should match ErrFetchFailed")
	}
	if !errors.Is(err, cause) {
		t.Error("FetchError should unwrap to its cause")
	}
	if err.Error() != "fetch failed: fetching jobs: connection refused" {
		t.Errorf("Error() = %q", err.Error())
	}
}

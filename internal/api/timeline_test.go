package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hireline/timeline/internal/api"
	"github.com/hireline/timeline/internal/models"
)

func newTimelineRouter(m *mockTimeline) *gin.Engine {
	h := api.NewTimelineHandler(m, testLogger())
	r := gin.New()
	r.GET("/timeline", h.List)
	r.GET("/timeline/stats", h.Stats)
	r.POST("/timeline/refresh", h.Refresh)

	return r
}

func TestTimelineList_DefaultFilter(t *testing.T) {
	var got models.FilterState
	var gotLimit, gotOffset int
	refreshed := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	m := &mockTimeline{query: func(f models.FilterState, limit, offset int) (*models.Page, error) {
		got, gotLimit, gotOffset = f, limit, offset
		return &models.Page{
			Events:      []models.Event{{ID: "job-create-7", Type: models.TypeJobPosted}},
			Stats:       models.NewDerivedStats(),
			Total:       1,
			RefreshedAt: &refreshed,
		}, nil
	}}

	w := doRequest(newTimelineRouter(m), http.MethodGet, "/timeline", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if got != models.DefaultFilterState() {
		t.Errorf("filter = %+v, want default", got)
	}
	if gotLimit != 50 || gotOffset != 0 {
		t.Errorf("limit/offset = %d/%d, want 50/0", gotLimit, gotOffset)
	}

	var body struct {
		Events      []models.Event `json:"events"`
		Total       int            `json:"total"`
		HasMore     bool           `json:"has_more"`
		RefreshedAt *time.Time     `json:"refreshed_at"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(body.Events) != 1 || body.Events[0].ID != "job-create-7" {
		t.Errorf("events = %+v", body.Events)
	}
	if body.RefreshedAt == nil || !body.RefreshedAt.Equal(refreshed) {
		t.Errorf("refreshed_at = %v", body.RefreshedAt)
	}
}

func TestTimelineList_QueryParams(t *testing.T) {
	var got models.FilterState
	var gotLimit, gotOffset int
	m := &mockTimeline{query: func(f models.FilterState, limit, offset int) (*models.Page, error) {
		got, gotLimit, gotOffset = f, limit, offset
		return &models.Page{Events: []models.Event{}, Stats: models.NewDerivedStats()}, nil
	}}

	w := doRequest(newTimelineRouter(m), http.MethodGet,
		"/timeline?search=Dana&category=application&type=application_submitted&time_range=7d&limit=5000&offset=-3", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	want := models.FilterState{SearchTerm: "Dana", Category: "application", Type: "application_submitted", TimeRange: models.Range7d}
	if got != want {
		t.Errorf("filter = %+v, want %+v", got, want)
	}
	if gotLimit != 1000 || gotOffset != 0 {
		t.Errorf("limit/offset clamped to %d/%d, want 1000/0", gotLimit, gotOffset)
	}
}

func TestTimelineList_UnknownRangeFallsBackTo24h(t *testing.T) {
	var got models.FilterState
	m := &mockTimeline{query: func(f models.FilterState, _, _ int) (*models.Page, error) {
		got = f
		return &models.Page{Events: []models.Event{}, Stats: models.NewDerivedStats()}, nil
	}}

	doRequest(newTimelineRouter(m), http.MethodGet, "/timeline?time_range=fortnight", "")

	if got.TimeRange != models.Range24h {
		t.Errorf("time range = %q, want 24h", got.TimeRange)
	}
}

func TestTimelineList_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"search too long", models.ErrSearchTooLong},
		{"unknown selector", models.ErrUnknownSelector},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := &mockTimeline{query: func(models.FilterState, int, int) (*models.Page, error) {
				return nil, tc.err
			}}

			w := doRequest(newTimelineRouter(m), http.MethodGet, "/timeline", "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			if !strings.Contains(w.Body.String(), api.ErrCodeValidationError) {
				t.Errorf("body = %s", w.Body.String())
			}
		})
	}
}

func TestTimelineStats(t *testing.T) {
	m := &mockTimeline{stats: func() models.DerivedStats {
		s := models.NewDerivedStats()
		s.Total = 9
		s.ByCategory[models.CategoryApplication] = 4
		return s
	}}

	w := doRequest(newTimelineRouter(m), http.MethodGet, "/timeline/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body models.DerivedStats
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Total != 9 || body.ByCategory[models.CategoryApplication] != 4 {
		t.Errorf("stats = %+v", body)
	}
	if _, ok := body.ByCategory[models.CategoryAuthentication]; !ok {
		t.Error("empty buckets must still be present")
	}
}

func TestTimelineRefresh(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"success", nil, http.StatusOK, ""},
		{"fetch failed", &models.FetchError{Source: "users", Err: errors.New("503")}, http.StatusBadGateway, api.ErrCodeFetchFailed},
		{"caller gave up", context.Canceled, http.StatusGatewayTimeout, api.ErrCodeTimeout},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, api.ErrCodeInternalError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var trigger string
			m := &mockTimeline{refresh: func(_ context.Context, tr string) (*models.Snapshot, error) {
				trigger = tr
				if tc.err != nil {
					return nil, tc.err
				}
				return &models.Snapshot{Events: make([]models.Event, 3), Records: 2, Stats: models.NewDerivedStats()}, nil
			}}

			w := doRequest(newTimelineRouter(m), http.MethodPost, "/timeline/refresh", "")
			if w.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d: %s", tc.wantCode, w.Code, w.Body.String())
			}
			if trigger != "manual" {
				t.Errorf("trigger = %q, want manual", trigger)
			}

			var body map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if tc.wantErr == "" {
				if body["events"] != float64(3) {
					t.Errorf("events = %v, want 3", body["events"])
				}
				return
			}
			if body["code"] != tc.wantErr {
				t.Errorf("code = %v, want %s", body["code"], tc.wantErr)
			}
		})
	}
}

func TestTimelineRefresh_FailureMessage(t *testing.T) {
	m := &mockTimeline{refresh: func(context.Context, string) (*models.Snapshot, error) {
		return nil, models.ErrFetchFailed
	}}

	w := doRequest(newTimelineRouter(m), http.MethodPost, "/timeline/refresh", "")

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["message"] != "Failed to load activities" {
		t.Errorf("message = %q", body["message"])
	}
}

package timeline_test

import (
	"testing"

	"github.com/hireline/timeline/internal/models"
	"github.com/hireline/timeline/internal/timeline"
)

func TestMerge_NonIncreasing(t *testing.T) {
	a := []models.Event{{ID: "a1", Timestamp: at(1)}, {ID: "a2", Timestamp: at(9)}}
	b := []models.Event{{ID: "b1", Timestamp: at(4)}, {ID: "b2", Timestamp: at(0)}}

	merged := timeline.Merge(a, b)
	for i := 1; i < len(merged); i++ {
		if merged[i].Timestamp.After(merged[i-1].Timestamp) {
			t.Fatalf("not newest-first at %d: %v", i, ids(merged))
		}
	}
	if got := ids(merged); !sameIDs(got, []string{"a2", "b1", "a1", "b2"}) {
		t.Errorf("order = %v", got)
	}
}

func TestMerge_StableForEqualTimestamps(t *testing.T) {
	a := []models.Event{{ID: "first", Timestamp: at(2)}, {ID: "second", Timestamp: at(2)}}
	b := []models.Event{{ID: "third", Timestamp: at(2)}, {ID: "newer", Timestamp: at(3)}}

	got := ids(timeline.Merge(a, b))
	want := []string{"newer", "first", "second", "third"}
	if !sameIDs(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestMerge_DropsDuplicateIDs(t *testing.T) {
	a := []models.Event{{ID: "x", Timestamp: at(1), Description: "kept"}}
	b := []models.Event{{ID: "x", Timestamp: at(5), Description: "dropped"}}

	merged := timeline.Merge(a, b)
	if len(merged) != 1 || merged[0].Description != "kept" {
		t.Errorf("duplicate handling: %+v", merged)
	}
}

func TestMerge_DoesNotMutateInput(t *testing.T) {
	in := []models.Event{{ID: "old", Timestamp: at(1)}, {ID: "new", Timestamp: at(2)}}
	timeline.Merge(in)

	if in[0].ID != "old" || in[1].ID != "new" {
		t.Errorf("input reordered: %v", ids(in))
	}
}

func TestBuild_Scenario_JobUpdated(t *testing.T) {
	set := models.SourceSet{
		Users: []models.User{{ID: "1", Username: "alice", CreatedAt: day1}},
		Jobs:  []models.Job{{ID: "2", Title: "Designer", Status: "closed", CreatedAt: at(1), UpdatedAt: ptr(at(2))}},
	}

	events := timeline.Build(set)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	filter := models.FilterState{Category: string(models.CategoryJobManagement), Type: models.FilterAll, TimeRange: models.RangeAll}
	visible := timeline.Apply(events, filter, at(30))

	if got := ids(visible); !sameIDs(got, []string{"job-update-2", "job-create-2"}) {
		t.Errorf("visible = %v", got)
	}
	if !visible[0].Timestamp.Equal(at(2)) {
		t.Errorf("job_updated should come first with 2024-01-03, got %v", visible[0].Timestamp)
	}
}

func TestBuild_Empty(t *testing.T) {
	events := timeline.Build(models.SourceSet{Users: []models.User{}, Jobs: []models.Job{}, Applications: []models.Application{}})
	if events == nil || len(events) != 0 {
		t.Fatalf("expected empty timeline, got %#v", events)
	}
	if s := timeline.ComputeStats(events, at(0)); s.Total != 0 {
		t.Errorf("total = %d", s.Total)
	}
}

func TestBuildWith_CustomMapper(t *testing.T) {
	onlyJobs := func(s models.SourceSet) []models.Event { return timeline.MapRecords(s.Jobs, timeline.JobEvents) }
	set := models.SourceSet{
		Users: []models.User{{ID: "1", CreatedAt: at(1)}},
		Jobs:  []models.Job{{ID: "1", CreatedAt: at(0)}},
	}

	if got := ids(timeline.BuildWith(set, onlyJobs)); !sameIDs(got, []string{"job-create-1"}) {
		t.Errorf("BuildWith = %v", got)
	}
}

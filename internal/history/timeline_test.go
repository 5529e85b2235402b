package history

import (
	"testing"
	"time"

	"github.com/rdfernandes/connwatch/internal/models"
)

func TestBuildTimelineBuckets(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(40 * time.Minute)

	samples := []models.Sample{
		{OK: true, CheckedAt: start.Add(2 * time.Minute)},
		{OK: true, CheckedAt: start.Add(12 * time.Minute)},
		{Error: "timeout", CheckedAt: start.Add(22 * time.Minute)},
		{OK: true, CheckedAt: start.Add(32 * time.Minute)},
	}

	points := BuildTimeline(samples, start, end, 4)
	if len(points) != 4 {
		t.Fatalf("len(points) = %d, want 4", len(points))
	}

	wantClasses := []string{"state-success", "state-success", "state-error", "state-success"}
	for i, want := range wantClasses {
		if points[i].ClassName != want {
			t.Errorf("bucket %d class = %q, want %q", i, points[i].ClassName, want)
		}
	}
	if points[2].Label != "Disconnected" {
		t.Errorf("offline bucket label = %q", points[2].Label)
	}
	if len(points[2].Details) == 0 || points[2].Details[0].Error != "timeout" {
		t.Errorf("offline bucket details = %+v", points[2].Details)
	}
}

func TestBuildTimelineCarriesStateAcrossSmallGaps(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(4 * time.Minute)

	// Samples spaced one minute apart but missing from the third bucket; the
	// online state carries forward since the gap is below the threshold.
	samples := []models.Sample{
		{OK: true, CheckedAt: start.Add(30 * time.Second)},
		{OK: true, CheckedAt: start.Add(90 * time.Second)},
	}

	points := BuildTimeline(samples, start, end, 4)
	if points[2].ClassName != "state-success" {
		t.Errorf("gap bucket class = %q, want carried state-success", points[2].ClassName)
	}
}

func TestBuildTimelineMarksLongGapsMissing(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(10 * time.Hour)

	samples := []models.Sample{
		{OK: true, CheckedAt: start.Add(time.Minute)},
		{OK: true, CheckedAt: start.Add(2 * time.Minute)},
	}

	points := BuildTimeline(samples, start, end, 10)
	lastPoint := points[len(points)-1]
	if lastPoint.ClassName != "state-missing" {
		t.Errorf("stale bucket class = %q, want state-missing", lastPoint.ClassName)
	}
	if lastPoint.Label != "No data" {
		t.Errorf("stale bucket label = %q", lastPoint.Label)
	}
}

func TestBuildTimelineEmptySeries(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	points := BuildTimeline(nil, start, start.Add(time.Hour), 6)
	if len(points) != 6 {
		t.Fatalf("len(points) = %d, want 6", len(points))
	}
	for i, p := range points {
		if p.ClassName != "state-missing" {
			t.Errorf("bucket %d class = %q, want state-missing", i, p.ClassName)
		}
	}
}

func TestBuildTimelineDefaults(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	points := BuildTimeline(nil, start, start, 0)
	if len(points) != DefaultTimelinePoints {
		t.Fatalf("len(points) = %d, want %d", len(points), DefaultTimelinePoints)
	}
}

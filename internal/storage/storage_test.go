package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rdfernandes/connwatch/internal/models"
)

func TestSampleStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.json")

	s, err := NewSampleStorage(path, 100)
	if err != nil {
		t.Fatalf("NewSampleStorage: %v", err)
	}
	if _, ok := s.Latest(); ok {
		t.Fatal("fresh storage should be empty")
	}

	sample := models.Sample{
		Source:    "dial",
		Target:    "gateway",
		OK:        true,
		LatencyMs: 12,
		CheckedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := s.Append(sample); err != nil {
		t.Fatalf("Append: %v", err)
	}

	// A new instance over the same file sees the persisted sample.
	reloaded, err := NewSampleStorage(path, 100)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	latest, ok := reloaded.Latest()
	if !ok {
		t.Fatal("reloaded storage is empty")
	}
	if latest.Target != "gateway" || !latest.OK || latest.LatencyMs != 12 {
		t.Errorf("reloaded sample = %+v", latest)
	}
}

func TestSampleStorageCapsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.json")
	s, err := NewSampleStorage(path, 3)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if err := s.Append(models.Sample{LatencyMs: int64(i), CheckedAt: time.Now()}); err != nil {
			t.Fatal(err)
		}
	}
	history := s.History()
	if len(history) != 3 {
		t.Fatalf("len(history) = %d, want 3", len(history))
	}
	if history[0].LatencyMs != 2 || history[2].LatencyMs != 4 {
		t.Errorf("oldest entries were not dropped first: %+v", history)
	}
}

func TestSampleStorageReplace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.json")
	s, err := NewSampleStorage(path, 100)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Append(models.Sample{Target: "old"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Replace([]models.Sample{{Target: "new"}}); err != nil {
		t.Fatal(err)
	}
	history := s.History()
	if len(history) != 1 || history[0].Target != "new" {
		t.Fatalf("history after Replace = %+v", history)
	}
}

func TestChangeLogRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "changes.json")
	l, err := NewChangeLog(path, 10)
	if err != nil {
		t.Fatal(err)
	}
	change := models.StateChange{
		From: models.StateOnline,
		To:   models.StateOffline,
		At:   time.Now().UTC().Truncate(time.Second),
	}
	if err := l.Append(change); err != nil {
		t.Fatal(err)
	}

	reloaded, err := NewChangeLog(path, 10)
	if err != nil {
		t.Fatal(err)
	}
	history := reloaded.History()
	if len(history) != 1 {
		t.Fatalf("len(history) = %d, want 1", len(history))
	}
	if history[0].From != models.StateOnline || history[0].To != models.StateOffline {
		t.Errorf("reloaded change = %+v", history[0])
	}
}

func TestChangeLogCapsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "changes.json")
	l, err := NewChangeLog(path, 2)
	if err != nil {
		t.Fatal(err)
	}
	states := []models.ConnState{models.StateOnline, models.StateOffline, models.StateOnline}
	for _, to := range states {
		if err := l.Append(models.StateChange{To: to, At: time.Now()}); err != nil {
			t.Fatal(err)
		}
	}
	history := l.History()
	if len(history) != 2 {
		t.Fatalf("len(history) = %d, want 2", len(history))
	}
	if history[1].To != models.StateOnline {
		t.Errorf("newest entry = %+v", history[1])
	}
}

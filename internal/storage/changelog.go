package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rdfernandes/connwatch/internal/models"
)

// ChangeLog persists connectivity state transitions to disk.
type ChangeLog struct {
	mu         sync.RWMutex
	path       string
	maxEntries int
	changes    []models.StateChange
}

// NewChangeLog initialises the log and loads existing entries if present.
func NewChangeLog(path string, maxEntries int) (*ChangeLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure data directory: %w", err)
	}
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	l := &ChangeLog{path: path, maxEntries: maxEntries}
	if err := l.load(); err != nil {
		return nil, err
	}
	return l, nil
}

// Append adds a state change and persists the log.
func (l *ChangeLog) Append(change models.StateChange) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.changes = append(l.changes, change)
	if len(l.changes) > l.maxEntries {
		l.changes = l.changes[len(l.changes)-l.maxEntries:]
	}
	return l.persistLocked()
}

// History returns a copy of the persisted state changes.
func (l *ChangeLog) History() []models.StateChange {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.changes) == 0 {
		return nil
	}
	out := make([]models.StateChange, len(l.changes))
	copy(out, l.changes)
	return out
}

func (l *ChangeLog) load() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			l.changes = nil
			return nil
		}
		return fmt.Errorf("read change log: %w", err)
	}
	if len(data) == 0 {
		l.changes = nil
		return nil
	}

	var changes []models.StateChange
	if err := json.Unmarshal(data, &changes); err != nil {
		return fmt.Errorf("parse change log: %w", err)
	}
	if len(changes) > l.maxEntries {
		changes = changes[len(changes)-l.maxEntries:]
	}
	l.changes = changes
	return nil
}

func (l *ChangeLog) persistLocked() error {
	bytes, err := json.MarshalIndent(l.changes, "", "  ")
	if err != nil {
		return fmt.Errorf("encode change log: %w", err)
	}

	tmpPath := fmt.Sprintf("%s.%d.tmp", l.path, time.Now().UnixNano())
	if err := os.WriteFile(tmpPath, bytes, 0o644); err != nil {
		return fmt.Errorf("write temp change log: %w", err)
	}
	if err := os.Rename(tmpPath, l.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace change log file: %w", err)
	}
	return nil
}

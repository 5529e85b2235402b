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

// SampleStorage persists connectivity samples to disk.
type SampleStorage struct {
	mu         sync.RWMutex
	path       string
	maxEntries int
	history    []models.Sample
}

// NewSampleStorage initialises storage and loads existing samples if present.
// maxEntries bounds the persisted history; older samples are dropped first.
func NewSampleStorage(path string, maxEntries int) (*SampleStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure data directory: %w", err)
	}
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	s := &SampleStorage{path: path, maxEntries: maxEntries}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Append adds a sample and persists the history to disk.
func (s *SampleStorage) Append(sample models.Sample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, sample)
	if len(s.history) > s.maxEntries {
		s.history = s.history[len(s.history)-s.maxEntries:]
	}
	return s.persistLocked()
}

// Latest returns the most recent persisted sample.
func (s *SampleStorage) Latest() (models.Sample, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.history) == 0 {
		return models.Sample{}, false
	}
	return s.history[len(s.history)-1], true
}

// History returns a copy of the persisted samples.
func (s *SampleStorage) History() []models.Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.history) == 0 {
		return nil
	}
	out := make([]models.Sample, len(s.history))
	copy(out, s.history)
	return out
}

// Replace overwrites the stored history with the provided samples.
func (s *SampleStorage) Replace(samples []models.Sample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = make([]models.Sample, len(samples))
	copy(s.history, samples)
	if len(s.history) > s.maxEntries {
		s.history = s.history[len(s.history)-s.maxEntries:]
	}
	return s.persistLocked()
}

func (s *SampleStorage) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.history = nil
			return nil
		}
		return fmt.Errorf("read sample history: %w", err)
	}
	if len(data) == 0 {
		s.history = nil
		return nil
	}

	var samples []models.Sample
	if err := json.Unmarshal(data, &samples); err != nil {
		return fmt.Errorf("parse sample history: %w", err)
	}
	if len(samples) > s.maxEntries {
		samples = samples[len(samples)-s.maxEntries:]
	}
	s.history = samples
	return nil
}

func (s *SampleStorage) persistLocked() error {
	bytes, err := json.MarshalIndent(s.history, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sample history: %w", err)
	}

	tmpPath := fmt.Sprintf("%s.%d.tmp", s.path, time.Now().UnixNano())
	if err := os.WriteFile(tmpPath, bytes, 0o644); err != nil {
		return fmt.Errorf("write temp sample history: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace sample history file: %w", err)
	}
	return nil
}

// Package watcher runs the periodic probe loop and exposes the result as an
// observable connectivity state plus an in-memory sample history.
package watcher

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/rdfernandes/connwatch/internal/models"
	"github.com/rdfernandes/connwatch/internal/probe"
	"github.com/rdfernandes/connwatch/internal/storage"
	"github.com/rdfernandes/connwatch/pkg/reactive"
)

// Source exposes connectivity samples and the observable state.
type Source interface {
	State() *reactive.Value[models.ConnState]
	Latest() (models.Sample, bool)
	History() []models.Sample
	HistorySince(time.Time) []models.Sample
}

// Options configures a watcher.
type Options struct {
	Interval   time.Duration
	Timeout    time.Duration
	MaxHistory int
	// Store is optional; when set, samples are persisted and the in-memory
	// history is seeded from it on startup.
	Store *storage.SampleStorage
}

// Watcher periodically probes connectivity and publishes the derived state.
type Watcher struct {
	prober     probe.Prober
	interval   time.Duration
	timeout    time.Duration
	maxHistory int
	store      *storage.SampleStorage

	state *reactive.Value[models.ConnState]

	mu      sync.RWMutex
	latest  *models.Sample
	history []models.Sample

	stopCh chan struct{}
	doneCh chan struct{}
}

// New configures a watcher around the prober.
func New(p probe.Prober, opts Options) *Watcher {
	interval := opts.Interval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 4 * time.Second
	}
	maxHistory := opts.MaxHistory
	if maxHistory <= 0 {
		maxHistory = 10000
	}

	w := &Watcher{
		prober:     p,
		interval:   interval,
		timeout:    timeout,
		maxHistory: maxHistory,
		store:      opts.Store,
		state:      reactive.NewValue(models.StateUnknown),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}

	if w.store != nil {
		if persisted := w.store.History(); len(persisted) > 0 {
			if len(persisted) > maxHistory {
				persisted = persisted[len(persisted)-maxHistory:]
			}
			w.history = persisted
			last := persisted[len(persisted)-1]
			w.latest = &last
		}
	}
	return w
}

// State returns the observable connectivity state. It starts out unknown and
// follows the latest probe outcome.
func (w *Watcher) State() *reactive.Value[models.ConnState] {
	return w.state
}

// Start launches the probe loop.
func (w *Watcher) Start() {
	go w.run()
}

// Stop requests loop termination and waits until it is done.
func (w *Watcher) Stop() {
	select {
	case <-w.doneCh:
		return
	default:
	}
	close(w.stopCh)
	<-w.doneCh
}

// RunOnce executes a single probe and records the sample.
func (w *Watcher) RunOnce(ctx context.Context) models.Sample {
	probeCtx, cancel := context.WithTimeout(ctx, w.timeout)
	sample := w.prober.Probe(probeCtx)
	cancel()

	w.record(sample)
	return sample
}

// Latest returns the most recent sample.
func (w *Watcher) Latest() (models.Sample, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.latest == nil {
		return models.Sample{}, false
	}
	return *w.latest, true
}

// History returns up to MaxHistory previous samples.
func (w *Watcher) History() []models.Sample {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if len(w.history) == 0 {
		return nil
	}
	out := make([]models.Sample, len(w.history))
	copy(out, w.history)
	return out
}

// HistorySince returns samples whose timestamp is >= cutoff.
func (w *Watcher) HistorySince(cutoff time.Time) []models.Sample {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if len(w.history) == 0 {
		return nil
	}
	if cutoff.IsZero() {
		out := make([]models.Sample, len(w.history))
		copy(out, w.history)
		return out
	}

	idx := sort.Search(len(w.history), func(i int) bool {
		return !w.history[i].CheckedAt.Before(cutoff)
	})
	if idx >= len(w.history) {
		return nil
	}
	out := make([]models.Sample, len(w.history)-idx)
	copy(out, w.history[idx:])
	return out
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	w.RunOnce(context.Background())

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.RunOnce(context.Background())
		case <-w.stopCh:
			return
		}
	}
}

func (w *Watcher) record(sample models.Sample) {
	w.mu.Lock()
	w.latest = &sample
	w.history = append(w.history, sample)
	if len(w.history) > w.maxHistory {
		w.history = w.history[len(w.history)-w.maxHistory:]
	}
	w.mu.Unlock()

	if w.store != nil {
		if err := w.store.Append(sample); err != nil {
			log.Printf("persist sample: %v", err)
		}
	}

	w.state.Set(sample.State())
}

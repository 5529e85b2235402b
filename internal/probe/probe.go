// Package probe senses connectivity. A prober turns one check strategy into
// a sample; the watcher decides how often to run it and what the samples mean.
package probe

import (
	"context"
	"time"

	"github.com/rdfernandes/connwatch/internal/models"
)

// Prober performs a single connectivity check.
type Prober interface {
	Probe(ctx context.Context) models.Sample
}

// Multi combines probers: the connection counts as up when any prober
// reports success. The fastest successful sample wins; otherwise the last
// failure is returned.
type Multi struct {
	probers []Prober
}

// NewMulti builds a combined prober.
func NewMulti(probers ...Prober) *Multi {
	return &Multi{probers: probers}
}

// Probe runs every underlying prober.
func (m *Multi) Probe(ctx context.Context) models.Sample {
	var (
		best     models.Sample
		haveBest bool
		lastFail models.Sample
		haveFail bool
	)
	for _, p := range m.probers {
		sample := p.Probe(ctx)
		if sample.OK {
			if !haveBest || sample.LatencyMs < best.LatencyMs {
				best = sample
				haveBest = true
			}
			continue
		}
		lastFail = sample
		haveFail = true
	}
	if haveBest {
		return best
	}
	if haveFail {
		return lastFail
	}
	return models.Sample{
		Source:    "none",
		Error:     "no probers configured",
		CheckedAt: time.Now().UTC(),
	}
}

package metrics

import (
	"math"
	"time"

	"github.com/rdfernandes/connwatch/internal/models"
)

// AvailabilitySummary summarises the health of the connection over a window
// of samples.
type AvailabilitySummary struct {
	UptimePercent float64          `json:"uptime_percent"`
	TotalSamples  int              `json:"total_samples"`
	Online        int              `json:"online"`
	Offline       int              `json:"offline"`
	Flaps         int              `json:"flaps"`
	MeanLatencyMs float64          `json:"mean_latency_ms"`
	LastState     models.ConnState `json:"last_state,omitempty"`
	LastChecked   string           `json:"last_checked,omitempty"`
	WindowStart   string           `json:"window_start,omitempty"`
	WindowEnd     string           `json:"window_end,omitempty"`
}

// ComputeAvailability aggregates availability statistics from samples.
// Samples are expected in chronological order; flaps count transitions
// between the up and down outcome of consecutive samples.
func ComputeAvailability(samples []models.Sample) AvailabilitySummary {
	var summary AvailabilitySummary
	if len(samples) == 0 {
		summary.LastState = models.StateUnknown
		return summary
	}

	var (
		latencySum   int64
		latencyCount int
		prevOK       bool
		havePrev     bool
	)
	for _, sample := range samples {
		summary.TotalSamples++
		if sample.OK {
			summary.Online++
			latencySum += sample.LatencyMs
			latencyCount++
		} else {
			summary.Offline++
		}
		if havePrev && sample.OK != prevOK {
			summary.Flaps++
		}
		prevOK = sample.OK
		havePrev = true
	}

	summary.UptimePercent = round2(float64(summary.Online) / float64(summary.TotalSamples) * 100)
	if latencyCount > 0 {
		summary.MeanLatencyMs = round2(float64(latencySum) / float64(latencyCount))
	}

	last := samples[len(samples)-1]
	summary.LastState = last.State()
	if !last.CheckedAt.IsZero() {
		summary.LastChecked = last.CheckedAt.UTC().Format(time.RFC3339)
	}
	if first := samples[0]; !first.CheckedAt.IsZero() {
		summary.WindowStart = first.CheckedAt.UTC().Format(time.RFC3339)
	}
	if !last.CheckedAt.IsZero() {
		summary.WindowEnd = last.CheckedAt.UTC().Format(time.RFC3339)
	}
	return summary
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package models

import "time"

// ConnState is the semantic connectivity state derived from probe samples.
type ConnState string

const (
	StateUnknown ConnState = "unknown"
	StateOnline  ConnState = "online"
	StateOffline ConnState = "offline"
)

// Online reports whether the state represents a working connection.
func (s ConnState) Online() bool {
	return s == StateOnline
}

// Sample captures the outcome of a single connectivity probe.
type Sample struct {
	Source    string    `json:"source"`
	Target    string    `json:"target,omitempty"`
	OK        bool      `json:"ok"`
	LatencyMs int64     `json:"latency_ms"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// State maps the probe outcome onto a connectivity state.
func (s Sample) State() ConnState {
	switch {
	case s.OK:
		return StateOnline
	case s.Error != "":
		return StateOffline
	default:
		return StateUnknown
	}
}

// StateChange records a transition between connectivity states.
type StateChange struct {
	From      ConnState `json:"from"`
	To        ConnState `json:"to"`
	At        time.Time `json:"at"`
	LatencyMs int64     `json:"latency_ms,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

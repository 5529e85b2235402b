package cluster

import (
	"time"

	"github.com/rdfernandes/connwatch/internal/metrics"
	"github.com/rdfernandes/connwatch/internal/models"
)

// Node describes a connwatch instance.
type Node struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NodeStatusResponse describes the payload exposed by /api/node/status.
type NodeStatusResponse struct {
	Node         Node                        `json:"node"`
	State        models.ConnState            `json:"state"`
	Latest       *models.Sample              `json:"latest,omitempty"`
	Availability metrics.AvailabilitySummary `json:"availability"`
	GeneratedAt  time.Time                   `json:"generated_at"`
}

// PeerSnapshot stores last known connectivity data for a node.
type PeerSnapshot struct {
	Node         Node                        `json:"node"`
	State        models.ConnState            `json:"state"`
	Latest       *models.Sample              `json:"latest,omitempty"`
	Availability metrics.AvailabilitySummary `json:"availability"`
	UpdatedAt    time.Time                   `json:"updated_at"`
	Error        string                      `json:"error,omitempty"`
	Source       string                      `json:"source"`
}

// Snapshot is returned by /api/cluster.
type Snapshot struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Nodes       []PeerSnapshot `json:"nodes"`
}

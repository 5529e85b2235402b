package probe

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/rdfernandes/connwatch/internal/models"
)

// DialProber checks connectivity by opening a TCP connection to a target.
type DialProber struct {
	target  models.Target
	timeout time.Duration
}

// NewDialProber configures a dial probe for the target. The target's own
// timeout takes precedence over fallback.
func NewDialProber(target models.Target, fallback time.Duration) *DialProber {
	timeout := time.Duration(target.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = fallback
	}
	if timeout <= 0 {
		timeout = 4 * time.Second
	}
	return &DialProber{target: target, timeout: timeout}
}

// Probe dials the target once.
func (p *DialProber) Probe(ctx context.Context) models.Sample {
	address := strings.TrimSpace(p.target.Address)
	if !strings.Contains(address, ":") {
		// Bare hosts are probed against DNS.
		address = net.JoinHostPort(address, "53")
	}

	sample := models.Sample{
		Source:    "dial",
		Target:    p.target.Name,
		CheckedAt: time.Now().UTC(),
	}
	if sample.Target == "" {
		sample.Target = address
	}

	dialer := net.Dialer{Timeout: p.timeout}
	started := time.Now()
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		sample.Error = err.Error()
		return sample
	}
	sample.OK = true
	sample.LatencyMs = int64(time.Since(started) / time.Millisecond)
	_ = conn.Close()
	return sample
}

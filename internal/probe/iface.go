package probe

import (
	"context"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/net"

	"github.com/rdfernandes/connwatch/internal/models"
)

// InterfaceProber senses link-level connectivity: the host counts as
// connected when at least one non-loopback interface is up and holds an
// address. It cannot prove internet reachability, only that a link exists,
// which is why it is usually combined with a dial probe.
type InterfaceProber struct{}

// NewInterfaceProber builds a link-level prober.
func NewInterfaceProber() *InterfaceProber {
	return &InterfaceProber{}
}

// Probe inspects the host's network interfaces.
func (p *InterfaceProber) Probe(ctx context.Context) models.Sample {
	sample := models.Sample{
		Source:    "interface",
		CheckedAt: time.Now().UTC(),
	}

	ifaces, err := net.InterfacesWithContext(ctx)
	if err != nil {
		sample.Error = "list interfaces: " + err.Error()
		return sample
	}

	for _, iface := range ifaces {
		if !hasFlag(iface.Flags, "up") || hasFlag(iface.Flags, "loopback") {
			continue
		}
		if len(iface.Addrs) == 0 {
			continue
		}
		sample.OK = true
		sample.Target = iface.Name
		return sample
	}

	sample.Error = "no active network interface"
	return sample
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if strings.EqualFold(f, want) {
			return true
		}
	}
	return false
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.IntervalSeconds != 15 {
		t.Errorf("IntervalSeconds = %d, want 15", cfg.IntervalSeconds)
	}
	if !cfg.UseInterfaces {
		t.Error("UseInterfaces should default to true")
	}
	if len(cfg.Targets) != 1 || cfg.Targets[0].Address != "1.1.1.1:53" {
		t.Errorf("default targets = %+v", cfg.Targets)
	}
}

func TestLoadParsesAndNormalises(t *testing.T) {
	raw := `
interval_seconds: 30
debounce_ms: 500
terminal_notices: true
listen_addr: ":9090"
targets:
  - name: gateway
    address: 192.168.1.1:53
webhooks:
  - name: ops
    url: https://example.com/hook
    enabled: true
`
	path := writeConfig(t, raw)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Interval() != 30*time.Second {
		t.Errorf("Interval = %v, want 30s", cfg.Interval())
	}
	if cfg.Debounce() != 500*time.Millisecond {
		t.Errorf("Debounce = %v, want 500ms", cfg.Debounce())
	}
	if cfg.ListenAddr != ":9090" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if !cfg.TerminalNotices {
		t.Error("TerminalNotices should parse as true")
	}
	// Unset fields are normalised from defaults.
	if cfg.TimeoutSeconds != 4 {
		t.Errorf("TimeoutSeconds = %d, want 4", cfg.TimeoutSeconds)
	}
	if cfg.HistoryLimit != 10000 {
		t.Errorf("HistoryLimit = %d, want 10000", cfg.HistoryLimit)
	}
}

func TestLoadRejectsTargetWithoutAddress(t *testing.T) {
	path := writeConfig(t, "targets:\n  - name: broken\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for target without address")
	}
}

func TestLoadRejectsEnabledWebhookWithoutURL(t *testing.T) {
	path := writeConfig(t, "webhooks:\n  - name: broken\n    enabled: true\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for enabled webhook without url")
	}
}

func TestLoadRequiresSomeProbeSource(t *testing.T) {
	path := writeConfig(t, "use_interfaces: false\ntargets: []\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error when no targets and interface sensing disabled")
	}
}

func TestLoadRejectsEnabledPeerWithoutBaseURL(t *testing.T) {
	path := writeConfig(t, "peers:\n  - id: remote\n    enabled: true\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for enabled peer without base_url")
	}
}

func writeConfig(t *testing.T, raw string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rdfernandes/connwatch/internal/models"
)

// Config represents configuration data for the connectivity watcher.
type Config struct {
	IntervalSeconds int  `yaml:"interval_seconds"`
	TimeoutSeconds  int  `yaml:"timeout_seconds"`
	DebounceMs      int  `yaml:"debounce_ms"`
	UseInterfaces   bool `yaml:"use_interfaces"`
	TerminalNotices bool `yaml:"terminal_notices"`
	HistoryLimit    int  `yaml:"history_limit"`

	DataDirectory string `yaml:"data_directory"`
	ListenAddr    string `yaml:"listen_addr"`
	AuthSecret    string `yaml:"auth_secret"`

	NodeID   string `yaml:"node_id"`
	NodeName string `yaml:"node_name"`

	PeerRefreshSec int    `yaml:"peer_refresh_seconds"`
	Peers          []Peer `yaml:"peers"`

	Targets  []models.Target `yaml:"targets"`
	Webhooks []Webhook       `yaml:"webhooks"`
}

// Peer defines a remote connwatch instance to aggregate.
type Peer struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Enabled bool   `yaml:"enabled"`
}

// Webhook defines an HTTP endpoint notified on connectivity changes.
type Webhook struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

// Interval returns the probe interval as a duration.
func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// Timeout returns the per-probe timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Debounce returns the notification debounce delay as a duration.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// DefaultConfig returns sensible defaults in case no configuration file is provided.
func DefaultConfig() Config {
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "connwatch-local"
	}

	return Config{
		IntervalSeconds: 15,
		TimeoutSeconds:  4,
		DebounceMs:      2000,
		UseInterfaces:   true,
		HistoryLimit:    10000,
		DataDirectory:   filepath.Join(".dist", "data"),
		ListenAddr:      ":8080",
		NodeID:          hostname,
		NodeName:        hostname,
		PeerRefreshSec:  60,
		Targets: []models.Target{
			{
				Name:           "cloudflare-dns",
				Address:        "1.1.1.1:53",
				TimeoutSeconds: 4,
			},
		},
	}
}

// Load reads configuration from a yaml file. Missing files fall back to defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.IntervalSeconds <= 0 {
		cfg.IntervalSeconds = 15
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 4
	}
	if cfg.DebounceMs < 0 {
		cfg.DebounceMs = 0
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultConfig().HistoryLimit
	}
	if cfg.DataDirectory == "" {
		cfg.DataDirectory = DefaultConfig().DataDirectory
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultConfig().ListenAddr
	}
	if cfg.NodeID == "" {
		cfg.NodeID = DefaultConfig().NodeID
	}
	if cfg.NodeName == "" {
		cfg.NodeName = cfg.NodeID
	}
	if cfg.PeerRefreshSec <= 0 {
		cfg.PeerRefreshSec = 60
	}
	if len(cfg.Targets) == 0 && !cfg.UseInterfaces {
		return Config{}, errors.New("configuration must define at least one target or enable interface sensing")
	}
	for i, t := range cfg.Targets {
		if t.Address == "" {
			return Config{}, fmt.Errorf("target %d is missing address", i)
		}
	}
	for i, hook := range cfg.Webhooks {
		if !hook.Enabled {
			continue
		}
		if hook.URL == "" {
			return Config{}, fmt.Errorf("webhook %d url is required", i)
		}
	}
	for i, peer := range cfg.Peers {
		if !peer.Enabled {
			continue
		}
		if peer.ID == "" {
			return Config{}, fmt.Errorf("peer %d is missing id", i)
		}
		if peer.BaseURL == "" {
			return Config{}, fmt.Errorf("peer %s base_url is required", peer.ID)
		}
	}
	return cfg, nil
}

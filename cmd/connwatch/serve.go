package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rdfernandes/connwatch/internal/cluster"
	"github.com/rdfernandes/connwatch/internal/config"
	"github.com/rdfernandes/connwatch/internal/notify"
	"github.com/rdfernandes/connwatch/internal/server"
	"github.com/rdfernandes/connwatch/internal/storage"
	"github.com/rdfernandes/connwatch/internal/watcher"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		addr       string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the connectivity watcher with the HTTP API and websocket feed",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe(configPath, addr)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "config.yaml", "path to configuration file (YAML)")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func runServe(configPath, addr string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.ListenAddr
	}

	store, err := storage.NewSampleStorage(filepath.Join(cfg.DataDirectory, "samples.json"), cfg.HistoryLimit)
	if err != nil {
		return err
	}
	changeLog, err := storage.NewChangeLog(filepath.Join(cfg.DataDirectory, "state_changes.json"), 1000)
	if err != nil {
		return err
	}

	w := watcher.New(buildProber(cfg), watcher.Options{
		Interval:   cfg.Interval(),
		Timeout:    cfg.Timeout(),
		MaxHistory: cfg.HistoryLimit,
		Store:      store,
	})
	w.Start()
	defer w.Stop()

	node := cluster.Node{ID: cfg.NodeID, Name: cfg.NodeName}
	clusterSvc := cluster.NewService(node, w, cfg)
	clusterSvc.Start()
	defer clusterSvc.Stop()

	hub := server.NewHub(server.SnapshotFunc(node, w))
	hub.Start()
	defer hub.Stop()

	notifiers := []notify.Notifier{notify.LogNotifier{}, hub}
	if cfg.TerminalNotices {
		notifiers = append(notifiers, notify.NewTerminalNotifier(os.Stdout))
	}
	for _, hook := range cfg.Webhooks {
		if !hook.Enabled {
			continue
		}
		notifiers = append(notifiers, notify.NewWebhookNotifier(hook.Name, hook.URL))
	}
	dispatcher := notify.NewDispatcher(w.State(), cfg.Debounce(), changeLog, notifiers...)
	dispatcher.Start()
	defer dispatcher.Stop()

	auth := server.NewAuthenticator(cfg.AuthSecret, cfg.NodeID)
	srv := server.New(addr, node, w, changeLog, clusterSvc, hub, auth)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	log.Printf("connwatch listening on %s (probe interval %s, debounce %s)", addr, cfg.Interval(), cfg.Debounce())
	if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rdfernandes/connwatch/internal/config"
	"github.com/rdfernandes/connwatch/internal/tui"
	"github.com/rdfernandes/connwatch/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show live connectivity status in the terminal",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runWatch(configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "config.yaml", "path to configuration file (YAML)")
	return cmd
}

func runWatch(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	w := watcher.New(buildProber(cfg), watcher.Options{
		Interval:   cfg.Interval(),
		Timeout:    cfg.Timeout(),
		MaxHistory: cfg.HistoryLimit,
	})
	w.Start()
	defer w.Stop()

	program := tea.NewProgram(tui.New(w), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rdfernandes/connwatch/internal/config"
	"github.com/rdfernandes/connwatch/internal/notify"
)

func newCheckCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Probe connectivity once and exit (non-zero when offline)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "config.yaml", "path to configuration file (YAML)")
	return cmd
}

func runCheck(cmd *cobra.Command, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout())
	defer cancel()

	sample := buildProber(cfg).Probe(ctx)
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%s %s", notify.StateBadge(sample.State()), sample.Target)
	if sample.OK {
		fmt.Fprintf(out, " (%d ms)", sample.LatencyMs)
	} else if sample.Error != "" {
		fmt.Fprintf(out, " (%s)", sample.Error)
	}
	fmt.Fprintln(out)

	if !sample.OK {
		return fmt.Errorf("connectivity check failed")
	}
	return nil
}

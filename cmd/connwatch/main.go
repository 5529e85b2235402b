package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rdfernandes/connwatch/internal/config"
	"github.com/rdfernandes/connwatch/internal/probe"
)

var (
	version   = "dev"
	commit    = ""
	buildDate = ""
)

// go build -ldflags "-X main.version=v0.1.0 -X main.commit=$(git rev-parse --short HEAD) -X 'main.buildDate=$(date +%Y-%m-%d)'" -o connwatch ./cmd/connwatch

func main() {
	root := &cobra.Command{
		Use:           "connwatch",
		Short:         "Observe internet connectivity and react to changes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newWatchCmd(), newCheckCmd(), newVersionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "connwatch %s", version)
			if commit != "" {
				fmt.Fprintf(out, " (%s)", commit)
			}
			if buildDate != "" {
				fmt.Fprintf(out, " built %s", buildDate)
			}
			fmt.Fprintln(out)
		},
	}
}

// buildProber assembles the configured probe chain: one dial probe per
// target, plus link-level interface sensing when enabled.
func buildProber(cfg config.Config) probe.Prober {
	probers := make([]probe.Prober, 0, len(cfg.Targets)+1)
	for _, target := range cfg.Targets {
		probers = append(probers, probe.NewDialProber(target, cfg.Timeout()))
	}
	if cfg.UseInterfaces {
		probers = append(probers, probe.NewInterfaceProber())
	}
	return probe.NewMulti(probers...)
}

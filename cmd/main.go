package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "launchdash",
		Short: "SpaceX launch records dashboard",
		Long: "launchdash serves an interactive dashboard of launch outcomes and payload\n" +
			"masses, recomputed from a launch site and a payload range.",
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		// Running without a subcommand serves the dashboard.
		RunE: runServe,
	}
	addServeFlags(root)
	root.AddCommand(newServeCmd())
	root.AddCommand(newSummaryCmd())
	root.AddCommand(newLoadtestCmd())
	root.Version = version
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

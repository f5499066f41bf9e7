package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/launchdash/internal/format"
	"github.com/okian/launchdash/internal/loadtest"
	"github.com/okian/launchdash/pkg/logger"
)

func newLoadtestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loadtest",
		Short: "Drive concurrent sessions against a running dashboard",
		Long: `Creates many sessions on a running server, moves each through random
site and payload range selections, and checks that every response carries
the state that session asked for.`,
		Args: cobra.NoArgs,
		RunE: runLoadtest,
	}
	cmd.Flags().String("url", "http://localhost:8050", "base URL of the service")
	cmd.Flags().Int("sessions", 50, "number of sessions")
	cmd.Flags().Int("updates", 10, "updates per session")
	cmd.Flags().Int("workers", runtime.NumCPU()*2, "sessions driven concurrently")
	cmd.Flags().Duration("timeout", 10*time.Second, "HTTP request timeout")
	cmd.Flags().Uint64("seed", 1, "seed for random selections")
	cmd.Flags().Bool("render", false, "also fetch PNG charts")
	cmd.Flags().String("format", "ascii", "report format: ascii or markdown")
	return cmd
}

func runLoadtest(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	formatName, _ := flags.GetString("format")
	mode, err := format.ParseMode(formatName)
	if err != nil {
		return err
	}
	if err := logger.InitWithFormat(os.Stderr, logger.FormatText); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	var cfg loadtest.Config
	cfg.BaseURL, _ = flags.GetString("url")
	cfg.Sessions, _ = flags.GetInt("sessions")
	cfg.UpdatesPerSession, _ = flags.GetInt("updates")
	cfg.Workers, _ = flags.GetInt("workers")
	cfg.Timeout, _ = flags.GetDuration("timeout")
	cfg.Seed, _ = flags.GetUint64("seed")
	cfg.Render, _ = flags.GetBool("render")

	stats, err := loadtest.Run(cmd.Context(), cfg)
	if stats != nil {
		fmt.Fprintln(cmd.OutOrStdout(), loadtest.Report(stats, mode))
	}
	return err
}

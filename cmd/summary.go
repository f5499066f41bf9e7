package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/launchdash/internal/domain/aggregate"
	"github.com/okian/launchdash/internal/domain/chart"
	"github.com/okian/launchdash/internal/domain/types"
	"github.com/okian/launchdash/internal/format"
)

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print launch outcome tables for a site and payload range",
		Long: `Computes the same pie and scatter data as the dashboard and prints them
as tables. Without --min and --max the payload range spans the dataset.`,
		Args: cobra.NoArgs,
		RunE: runSummary,
	}
	cmd.Flags().String("dataset", "", "launch CSV path (overrides dataset_path)")
	cmd.Flags().String("site", types.AllSites, "launch site, or ALL")
	cmd.Flags().Float64("min", 0, "lower payload bound in kg")
	cmd.Flags().Float64("max", 0, "upper payload bound in kg")
	cmd.Flags().String("format", "ascii", "table format: ascii or markdown")
	return cmd
}

func runSummary(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	formatName, _ := flags.GetString("format")
	mode, err := format.ParseMode(formatName)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(ctx, cmd)
	if err != nil {
		return err
	}
	// Keep stdout for the tables.
	log, err := initLogging(ctx, cfg, os.Stderr)
	if err != nil {
		return err
	}

	svc := newService(cfg, log)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	state := svc.DefaultState()
	state.Site, _ = flags.GetString("site")
	if flags.Changed("min") {
		state.Payload.Lower, _ = flags.GetFloat64("min")
	}
	if flags.Changed("max") {
		state.Payload.Upper, _ = flags.GetFloat64("max")
	}

	return writeSummary(cmd.OutOrStdout(), svc.Outcomes(state), svc.Scatter(ctx, state), state, mode)
}

func writeSummary(w io.Writer, outcomes aggregate.Summary, scatter chart.ScatterSpec, state types.FilterState, mode format.Mode) error {
	pie := chart.BindPie(outcomes, state.Site)
	var table string
	if outcomes.Mode == aggregate.PerSite {
		table = format.SiteTable(pie.Title, outcomes.Sites, mode)
	} else {
		table = format.OutcomeTable(pie.Title, outcomes.Counts, mode)
	}
	_, err := fmt.Fprintf(w, "%s\n\nPayload range: %g - %g kg\n\n%s\n",
		table, state.Payload.Lower, state.Payload.Upper, format.ScatterTable(scatter, mode))
	return err
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/okian/launchdash/internal/adapters/http/api"
	"github.com/okian/launchdash/internal/adapters/http/swagger"
	"github.com/okian/launchdash/internal/adapters/repository"
	app "github.com/okian/launchdash/internal/app"
	"github.com/okian/launchdash/internal/config"
	"github.com/okian/launchdash/pkg/logger"
	"github.com/okian/launchdash/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard and its JSON API over HTTP",
		Long: `Loads the launch dataset and serves the dashboard page, the chart and
session API, Prometheus metrics on /healthz and API docs on /api-docs.

Configuration is read from defaults, then the YAML file named by
LAUNCHDASH_CONFIG, then LAUNCHDASH_* environment variables. Flags win.`,
		RunE: runServe,
	}
	addServeFlags(cmd)
	return cmd
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().String("addr", "", "listen address (overrides addr)")
	cmd.Flags().String("dataset", "", "launch CSV path (overrides dataset_path)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx, cmd)
	if err != nil {
		return err
	}
	log, err := initLogging(ctx, cfg, os.Stdout)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	configureMetrics(ctx, cfg, log)

	svc := newService(cfg, log)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info(gctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info(ctx, "shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if metrics.Enabled() {
		g.Go(func() error {
			runSystemMetricsUpdater(gctx)
			return nil
		})
		g.Go(func() error {
			runServiceMetricsUpdater(gctx, svc)
			return nil
		})
	}

	err = g.Wait()
	log.Info(context.Background(), "server stopped")
	return err
}

// loadConfig layers command flags over the loaded configuration.
func loadConfig(ctx context.Context, cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if f := cmd.Flags().Lookup("addr"); f != nil && f.Changed {
		cfg.Addr = f.Value.String()
	}
	if f := cmd.Flags().Lookup("dataset"); f != nil && f.Changed {
		cfg.DatasetPath = f.Value.String()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// initLogging applies the configured format and level. An invalid level
// falls back to info.
func initLogging(ctx context.Context, cfg *config.Config, w io.Writer) (logger.Logger, error) {
	if err := logger.InitWithFormat(w, cfg.LogFormat); err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return log, nil
}

func newService(cfg *config.Config, log logger.Logger) *app.Service {
	return app.New(
		app.WithLogger(log),
		app.WithSource(repository.NewCSVSource(cfg.DatasetPath,
			repository.WithLogger(log.Named("dataset")),
		)),
		app.WithSlider(cfg.PayloadSliderMin, cfg.PayloadSliderMax, cfg.PayloadSliderStep),
		app.WithMaxSessions(cfg.MaxSessions),
		app.WithChartSize(cfg.ChartWidth, cfg.ChartHeight),
		app.WithPieHonorsPayloadRange(cfg.PieHonorsPayloadRange),
	)
}

// newMux registers the docs and dashboard routes.
func newMux(ctx context.Context, svc *app.Service) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc).Register(ctx, mux)
	return mux
}

// configureMetrics applies metrics_enabled to the global metrics manager.
func configureMetrics(ctx context.Context, cfg *config.Config, log logger.Logger) {
	metrics.SetEnabled(cfg.MetricsEnabled)
	if !cfg.MetricsEnabled {
		log.Info(ctx, "metrics recording disabled")
	}
}

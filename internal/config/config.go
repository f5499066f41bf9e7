// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8050".
	Addr string `koanf:"addr"`

	// DatasetPath points at the launch records CSV file.
	DatasetPath string `koanf:"dataset_path"`

	// PayloadSliderMin, PayloadSliderMax and PayloadSliderStep describe the
	// payload range control, in kg.
	PayloadSliderMin  float64 `koanf:"payload_slider_min"`
	PayloadSliderMax  float64 `koanf:"payload_slider_max"`
	PayloadSliderStep float64 `koanf:"payload_slider_step"`

	// MaxSessions bounds how many dashboard sessions are kept in memory.
	MaxSessions int `koanf:"max_sessions"`

	// ChartWidth and ChartHeight size rendered chart images, in pixels.
	ChartWidth  int `koanf:"chart_width"`
	ChartHeight int `koanf:"chart_height"`

	// PieHonorsPayloadRange applies the payload range to the pie chart too.
	// Off by default: the pie chart only follows the site selector.
	PieHonorsPayloadRange bool `koanf:"pie_honors_payload_range"`

	// MetricsEnabled turns Prometheus recording on. When off, /healthz still
	// serves the registered collectors but their values stay at zero.
	MetricsEnabled bool `koanf:"metrics_enabled"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":8050",
		DatasetPath:       "spacex_launch_dash.csv",
		PayloadSliderMin:  0,
		PayloadSliderMax:  10_000,
		PayloadSliderStep: 2_500,
		MaxSessions:       10_000,
		ChartWidth:        800,
		ChartHeight:       500,
		MetricsEnabled:    true,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.DatasetPath) == "":
		return fmt.Errorf("%w: dataset_path must not be empty", ErrInvalidConfig)
	case c.PayloadSliderMin >= c.PayloadSliderMax:
		return fmt.Errorf("%w: payload_slider_min must be below payload_slider_max", ErrInvalidConfig)
	case c.PayloadSliderStep <= 0:
		return fmt.Errorf("%w: payload_slider_step must be positive", ErrInvalidConfig)
	case c.MaxSessions <= 0:
		return fmt.Errorf("%w: max_sessions must be positive", ErrInvalidConfig)
	case c.ChartWidth <= 0 || c.ChartHeight <= 0:
		return fmt.Errorf("%w: chart dimensions must be positive", ErrInvalidConfig)
	}
	return nil
}

package service

import (
	"github.com/okian/launchdash/internal/adapters/repository"
	"github.com/okian/launchdash/internal/domain/model"
	"github.com/okian/launchdash/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSource sets where Start loads the dataset from.
func WithSource(src repository.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithDataset injects an already loaded dataset. It takes precedence over WithSource.
func WithDataset(ds *model.Dataset) Option {
	return func(s *Service) {
		if ds != nil {
			s.preloaded = ds
		}
	}
}

// WithSlider sets the payload slider bounds and step. Invalid settings are ignored.
func WithSlider(minKg, maxKg, step float64) Option {
	return func(s *Service) {
		if minKg < maxKg && step > 0 {
			s.slider = Slider{Min: minKg, Max: maxKg, Step: step}
		}
	}
}

// WithMaxSessions bounds the number of live sessions. Zero or less is unbounded.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		s.maxSessions = n
	}
}

// WithPieHonorsPayloadRange makes the pie chart apply the payload range too,
// so both charts describe the same subset.
func WithPieHonorsPayloadRange(on bool) Option {
	return func(s *Service) {
		s.pieHonorsPayloadRange = on
	}
}

// WithChartSize sets the PNG size in pixels.
func WithChartSize(width, height int) Option {
	return func(s *Service) {
		if width > 0 && height > 0 {
			s.chartWidth = width
			s.chartHeight = height
		}
	}
}

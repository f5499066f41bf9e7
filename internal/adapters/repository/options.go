// Package repository loads the launch dataset from its backing file.
package repository

import "github.com/okian/launchdash/pkg/logger"

// Option applies a configuration option to the CSVSource.
type Option func(*CSVSource)

// WithDelimiter sets the field delimiter. Defaults to ','.
func WithDelimiter(r rune) Option {
	return func(s *CSVSource) {
		if r != 0 {
			s.delimiter = r
		}
	}
}

// WithLogger sets the logger used to report load results.
func WithLogger(l logger.Logger) Option {
	return func(s *CSVSource) {
		if l != nil {
			s.logger = l
		}
	}
}

// Package loadtest drives many concurrent dashboard sessions against a
// running server and checks that every session only ever sees its own state.
package loadtest

import (
	"errors"
	"time"
)

// Config holds configuration for a load test run.
type Config struct {
	BaseURL           string        // Base URL of the service
	Sessions          int           // Number of sessions to drive
	UpdatesPerSession int           // PATCH requests per session
	Workers           int           // Sessions driven concurrently
	Timeout           time.Duration // HTTP request timeout
	Seed              uint64        // Seed for the random filter choices
	Render            bool          // Also fetch the PNG charts after each update
}

// Stats holds load test statistics. Counters are updated atomically while
// the run is in progress.
type Stats struct {
	SessionsCreated int64
	Updates         int64
	Reads           int64
	Renders         int64
	EmptyRenders    int64
	Mismatches      int64
	StartTime       time.Time
	Duration        time.Duration
}

// Errors reported by Run.
var (
	ErrUnhealthy = errors.New("service unhealthy")
	ErrIsolation = errors.New("session state mismatch")
	ErrStatus    = errors.New("unexpected status")
)

const (
	defaultSessions = 50
	defaultUpdates  = 10
	defaultWorkers  = 8
	defaultTimeout  = 10 * time.Second
)

func (c *Config) withDefaults() Config {
	out := *c
	if out.Sessions <= 0 {
		out.Sessions = defaultSessions
	}
	if out.UpdatesPerSession <= 0 {
		out.UpdatesPerSession = defaultUpdates
	}
	if out.Workers <= 0 {
		out.Workers = defaultWorkers
	}
	if out.Timeout <= 0 {
		out.Timeout = defaultTimeout
	}
	return out
}

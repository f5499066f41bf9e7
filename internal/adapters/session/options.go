// Package session keeps per-client dashboard filter state in memory.
package session

// Option applies a configuration option to the in-memory store.
type Option func(*inMemoryStore)

// WithMaxSize sets the maximum number of sessions kept in memory.
// If maxSize > 0: bounded mode, the oldest session is evicted first.
// If maxSize <= 0: unbounded mode (no eviction, no size limit).
func WithMaxSize(maxSize int) Option {
	return func(s *inMemoryStore) {
		s.maxSize = maxSize
	}
}

// WithIDGenerator replaces the uuid generator. Used by tests for stable ids.
func WithIDGenerator(gen func() string) Option {
	return func(s *inMemoryStore) {
		if gen != nil {
			s.newID = gen
		}
	}
}

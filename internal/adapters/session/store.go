// Package session keeps per-client dashboard filter state in memory.
package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/okian/launchdash/internal/domain/types"
	"github.com/okian/launchdash/pkg/metrics"
)

// Store maps session ids to the filter state chosen by that client.
// Sessions are isolated: updating one never affects another.
type Store interface {
	// Create registers a new session holding state and returns its id.
	Create(ctx context.Context, state types.FilterState) string
	Get(ctx context.Context, id string) (types.FilterState, error)
	// Update applies fn to the stored state and saves the result.
	Update(ctx context.Context, id string, fn func(types.FilterState) types.FilterState) (types.FilterState, error)
	Delete(ctx context.Context, id string) error
	Size() int64
}

// node is one entry of the creation-ordered list. head is the newest,
// tail the oldest.
type node struct {
	id    string
	state types.FilterState
	prev  *node
	next  *node
}

func (n *node) reset() {
	n.id = ""
	n.state = types.FilterState{}
	n.prev = nil
	n.next = nil
}

// inMemoryStore implements Store with a map and a doubly linked list in
// creation order, so both deletion and eviction are O(1).
// For bounded mode (maxSize > 0): the oldest session is evicted when full.
// For unbounded mode (maxSize <= 0): sessions live until deleted.
type inMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*node
	head     *node
	tail     *node
	maxSize  int
	size     atomic.Int64
	nodePool sync.Pool
	newID    func() string
}

// NewInMemoryStore creates a new session store with configuration options.
func NewInMemoryStore(opts ...Option) Store {
	s := &inMemoryStore{
		maxSize: 10000,
		newID:   uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.sessions = make(map[string]*node)
	s.nodePool = sync.Pool{
		New: func() interface{} {
			return &node{}
		},
	}

	return s
}

func (s *inMemoryStore) Create(_ context.Context, state types.FilterState) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	if old, exists := s.sessions[id]; exists {
		// Generator collision, only possible with a custom generator.
		old.state = state
		return id
	}

	if s.maxSize > 0 && len(s.sessions) >= s.maxSize {
		s.evictOldest()
	}

	n := s.nodePool.Get().(*node)
	n.id = id
	n.state = state
	n.next = s.head
	if s.head != nil {
		s.head.prev = n
	} else {
		s.tail = n
	}
	s.head = n
	s.sessions[id] = n

	s.size.Add(1)
	metrics.RecordSessionCreated()
	metrics.UpdateActiveSessions(int(s.size.Load()))
	return id
}

func (s *inMemoryStore) Get(_ context.Context, id string) (types.FilterState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.sessions[id]
	if !ok {
		return types.FilterState{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return n.state, nil
}

func (s *inMemoryStore) Update(_ context.Context, id string, fn func(types.FilterState) types.FilterState) (types.FilterState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.sessions[id]
	if !ok {
		return types.FilterState{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	n.state = fn(n.state)
	metrics.RecordSessionUpdate()
	return n.state, nil
}

func (s *inMemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.sessions[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.unlink(n)
	metrics.UpdateActiveSessions(int(s.size.Load()))
	return nil
}

// unlink removes n from the map and the list and returns it to the pool.
// Must be called with s.mu held.
func (s *inMemoryStore) unlink(n *node) {
	delete(s.sessions, n.id)

	if n.prev != nil {
		n.prev.next = n.next
	} else {
		s.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		s.tail = n.prev
	}

	n.reset()
	s.nodePool.Put(n)
	s.size.Add(-1)
}

// evictOldest removes the tail of the list, the least recently created session.
// Must be called with s.mu held.
func (s *inMemoryStore) evictOldest() {
	if s.tail == nil {
		return
	}
	s.unlink(s.tail)
	metrics.RecordSessionEvicted()
}

// Size returns the current number of sessions.
func (s *inMemoryStore) Size() int64 {
	return s.size.Load()
}

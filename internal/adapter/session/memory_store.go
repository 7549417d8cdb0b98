package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry[T any] struct {
	value   T
	expires time.Time
}

// MemoryStore keeps state in process memory. Values are cloned on the way in
// and out so no caller shares slices with the stored copy.
type MemoryStore[T Cloner[T]] struct {
	mu      sync.Mutex
	entries map[string]memoryEntry[T]
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a new in-memory store with a sliding ttl.
func NewMemoryStore[T Cloner[T]](ttl time.Duration) *MemoryStore[T] {
	return &MemoryStore[T]{
		entries: make(map[string]memoryEntry[T]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns a copy of the stored state.
func (s *MemoryStore[T]) Get(_ context.Context, sessionID string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.lookup(sessionID)
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return entry.value.Clone(), nil
}

// Update applies fn under the store lock and replaces the stored state.
func (s *MemoryStore[T]) Update(ctx context.Context, sessionID string, fn UpdateFunc[T]) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, found := s.lookup(sessionID)
	current := zero
	if found {
		current = entry.value.Clone()
	}

	next, err := fn(current, found)
	if err != nil {
		return zero, err
	}

	s.entries[sessionID] = memoryEntry[T]{value: next.Clone(), expires: s.now().Add(s.ttl)}
	return next, nil
}

// Delete drops the state for sessionID.
func (s *MemoryStore[T]) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, sessionID)
	return nil
}

// lookup must be called with mu held.
func (s *MemoryStore[T]) lookup(sessionID string) (memoryEntry[T], bool) {
	entry, ok := s.entries[sessionID]
	if !ok {
		return entry, false
	}
	if s.ttl > 0 && s.now().After(entry.expires) {
		delete(s.entries, sessionID)
		return entry, false
	}
	return entry, true
}

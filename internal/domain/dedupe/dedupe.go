// Package dedupe remembers the outcome of keyed requests so a retried request
// replays the stored result instead of running twice.
package dedupe

import (
	"context"
	"sync"

	"github.com/okian/eventboard/internal/domain/model"
)

const defaultMaxSize = 1024

// Store maps idempotency keys to the record their first request produced.
type Store struct {
	mu      sync.Mutex
	entries map[string]model.Record
	order   []string // insertion order, oldest first
	maxSize int      // 0 or negative means unbounded
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]model.Record),
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Do returns the record remembered under key, with replayed set. Otherwise
// it runs fn and, when fn reports ok, remembers the result. A failed fn is
// not remembered, so a retry with the same key runs again. Calls for the same
// store are serialized, so concurrent retries of one key run fn once.
func (s *Store) Do(_ context.Context, key string, fn func() (model.Record, bool)) (rec model.Record, ok, replayed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, found := s.entries[key]; found {
		return prev.Clone(), true, true
	}

	rec, ok = fn()
	if !ok {
		return rec, false, false
	}
	if s.maxSize > 0 && len(s.entries) >= s.maxSize {
		s.evictOldest()
	}
	s.entries[key] = rec.Clone()
	s.order = append(s.order, key)
	return rec, true, false
}

// Size returns the number of remembered keys.
func (s *Store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// evictOldest must be called with s.mu held.
func (s *Store) evictOldest() {
	if len(s.order) == 0 {
		return
	}
	delete(s.entries, s.order[0])
	s.order = s.order[1:]
}

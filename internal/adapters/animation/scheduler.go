// Package animation schedules the staggered entrance of rendered items.
//
// Tasks belong to a generation. CancelAll stops every pending timer and opens
// a new generation; a timer from an older generation that already fired but
// has not run yet is discarded, so no stale callback touches a surface after
// CancelAll returns.
package animation

import (
	"sync"
	"time"
)

// Timer is the part of *time.Timer the scheduler needs.
type Timer interface {
	Stop() bool
}

// Clock creates timers. The real clock wraps time.AfterFunc.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// RealClock returns the wall clock.
func RealClock() Clock { return realClock{} }

// Scheduler owns a cancelable list of delayed tasks.
type Scheduler struct {
	mu         sync.Mutex
	clock      Clock
	generation uint64
	nextID     uint64
	pending    map[uint64]Timer
}

// Option applies a configuration option to the Scheduler.
type Option func(*Scheduler)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

// NewScheduler returns an idle scheduler.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:   RealClock(),
		pending: make(map[uint64]Timer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule runs fn after delay unless CancelAll is called first.
// fn runs with the scheduler locked and must not call back into it.
func (s *Scheduler) Schedule(delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gen := s.generation
	id := s.nextID
	s.nextID++

	s.pending[id] = s.clock.AfterFunc(delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.generation {
			return
		}
		delete(s.pending, id)
		fn()
	})
}

// CancelAll stops every pending task and returns how many were dropped.
func (s *Scheduler) CancelAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.pending)
	for id, t := range s.pending {
		t.Stop()
		delete(s.pending, id)
	}
	s.generation++
	return n
}

// Pending returns the number of tasks not yet run.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

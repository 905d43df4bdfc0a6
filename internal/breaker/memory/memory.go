// Package memory provides the default in-process breaker counter store.
// Counters reset on restart, which is the intended behavior.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/windrose-search/windrose/internal/breaker"
)

var _ breaker.CounterStore = (*Store)(nil)

type entry struct {
	count       int
	lastFailure time.Time
}

// Store is a mutex-guarded failure counter map with a rolling window.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	window  time.Duration
	now     func() time.Time
}

// New creates a memory store with the given rolling window.
func New(window time.Duration) *Store {
	if window <= 0 {
		window = breaker.DefaultWindow
	}
	return &Store{
		entries: make(map[string]entry),
		window:  window,
		now:     time.Now,
	}
}

// WithClock injects a clock for tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// RecordFailure increments the counter, restarting it when the window has
// elapsed since the previous failure.
func (s *Store) RecordFailure(_ context.Context, engineID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e := s.entries[engineID]
	if !e.lastFailure.IsZero() && now.Sub(e.lastFailure) > s.window {
		e.count = 0
	}
	e.count++
	e.lastFailure = now
	s.entries[engineID] = e
	return e.count, nil
}

// Failures returns the in-window count; an expired window reads as zero
// and lazily clears the entry.
func (s *Store) Failures(_ context.Context, engineID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[engineID]
	if !ok {
		return 0, nil
	}
	if s.now().Sub(e.lastFailure) > s.window {
		delete(s.entries, engineID)
		return 0, nil
	}
	return e.count, nil
}

// Reset clears the counter.
func (s *Store) Reset(_ context.Context, engineID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, engineID)
	return nil
}

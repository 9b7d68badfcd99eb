// Package store holds the serve mode's computed results in memory: the
// current run plus a bounded history of recent runs for the trend endpoint.
package store

import (
	"sync"
	"time"

	"github.com/roompulse/roompulse/internal/pipeline"
)

// Entry is one computed run together with the time it was stored.
type Entry struct {
	Result   *pipeline.Result
	StoredAt time.Time
}

// Store is a thread-safe holder of the latest run and a ring of past runs.
type Store struct {
	mu      sync.RWMutex
	current *Entry
	history []*Entry
	keep    int
	now     func() time.Time // injectable for deterministic tests
}

// New creates a Store that keeps at most keep historical runs.
func New(keep int) *Store {
	if keep < 1 {
		keep = 1
	}
	return &Store{keep: keep, now: time.Now}
}

// Put replaces the current run and appends it to the history, evicting the
// oldest entry once the ring is full. Callers must not modify res after Put.
func (s *Store) Put(res *pipeline.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := &Entry{Result: res, StoredAt: s.now()}
	s.current = e
	s.history = append(s.history, e)
	if len(s.history) > s.keep {
		s.history = s.history[len(s.history)-s.keep:]
	}
}

// Current returns the latest run and whether one exists yet.
func (s *Store) Current() (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.current != nil
}

// History returns the retained runs, oldest first.
func (s *Store) History() []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*Entry(nil), s.history...)
}

// Count returns the number of retained runs.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

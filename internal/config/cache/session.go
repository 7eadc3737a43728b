// Package cache provides the session value cache used to memoize resolved
// configuration values for the remainder of a client session.
package cache

import (
	"maps"
	"sync"
)

// Session memoizes resolved setting values by property key. Once written,
// an entry is never invalidated within the session: later changes to
// lower-priority sources are intentionally not observed.
//
// A read-compute-write race between goroutines resolving the same setting
// is tolerated; both walks see the same sources, converge on the same
// value, and the last write is indistinguishable from the first.
type Session struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewSession creates an empty session cache.
func NewSession() *Session {
	return &Session{m: make(map[string]string)}
}

// Get returns the memoized value for key and whether one is present.
func (s *Session) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok
}

// Put memoizes a resolved value.
func (s *Session) Put(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
}

// Len returns the number of memoized values.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// Snapshot returns a copy of the memoized values, for diagnostics.
func (s *Session) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.m)
}

package appconfig

import (
	"sync"
	"sync/atomic"
)

// Store guards the tenant configuration. Readers get an immutable snapshot;
// writers clone, mutate the clone and swap it in atomically, so a reader can
// never observe a half-applied injection.
type Store struct {
	mu      sync.Mutex // serializes writers
	current atomic.Pointer[Config]
}

// NewStore creates a store holding the default configuration.
func NewStore() *Store {
	s := &Store{}
	cfg := Defaults()
	s.current.Store(&cfg)
	return s
}

// Snapshot returns the current configuration. The returned value must be
// treated as read-only; it is shared between all readers of this snapshot.
func (s *Store) Snapshot() *Config {
	return s.current.Load()
}

// Update applies fn to a copy of the current configuration and publishes the
// result in one atomic swap.
func (s *Store) Update(fn func(*Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.Load().clone()
	fn(next)
	s.current.Store(next)
}

// Reset restores the default configuration.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := Defaults()
	s.current.Store(&cfg)
}

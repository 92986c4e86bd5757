package config

import "sync/atomic"

// Provider exposes the configuration currently in force
type Provider interface {
	Current() *DomainConfig
}

// Store holds the live DomainConfig and lets a watcher swap it atomically.
// Readers must treat the returned value as immutable.
type Store struct {
	current atomic.Pointer[DomainConfig]
}

// NewStore creates a store seeded with initial
func NewStore(initial *DomainConfig) *Store {
	s := &Store{}
	s.current.Store(initial.Clone())
	return s
}

// Current returns the configuration in force
func (s *Store) Current() *DomainConfig {
	return s.current.Load()
}

// Update validates next and makes it current. An invalid configuration leaves
// the previous one in place.
func (s *Store) Update(next *DomainConfig) error {
	if err := next.Validate(); err != nil {
		return err
	}
	s.current.Store(next.Clone())
	return nil
}

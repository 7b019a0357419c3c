package config

import "sync/atomic"

// Store publishes the live configuration snapshot. One writer (the
// IPC/reload path) replaces the pointer; any number of readers load it
// without locks. Readers must treat the returned Config as immutable.
type Store struct {
	current atomic.Pointer[Config]
}

func NewStore(cfg *Config) *Store {
	s := &Store{}
	s.current.Store(cfg)
	return s
}

// Current returns the live snapshot. Never nil.
func (s *Store) Current() *Config {
	return s.current.Load()
}

// Replace swaps in a new snapshot wholesale.
func (s *Store) Replace(cfg *Config) {
	s.current.Store(cfg)
}

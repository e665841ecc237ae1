// Package store persists redaction mappings between scrub and descrub.
// Mappings are immutable once saved; a mapping lives until the audit record
// that created it is purged, at which point Delete removes it.
//
// Two implementations:
//   - memory — mutex-guarded map, used in tests and one-shot pipelines.
//   - bolt   — embedded bbolt database, survives process restarts.
package store

import (
	"sync"

	"github.com/albertopd/secureprompt/internal/redact"
)

// Store holds mappings keyed by their mapping ID.
// All implementations must be safe for concurrent use.
type Store interface {
	// Save persists the mapping under id. Saving an existing id is an
	// overwrite and indicates a caller bug, but is not an error.
	Save(id string, m redact.Mapping) error

	// Get returns the mapping for id, reporting whether it exists.
	Get(id string) (redact.Mapping, bool, error)

	// Delete purges the mapping for id. Deleting a missing id is a no-op.
	Delete(id string) error

	// Close releases any resources held by the store.
	Close() error
}

type memory struct {
	mu       sync.RWMutex
	mappings map[string]redact.Mapping
}

// NewMemory returns an in-memory Store.
func NewMemory() Store {
	return &memory{mappings: make(map[string]redact.Mapping)}
}

func (s *memory) Save(id string, m redact.Mapping) error {
	copied := cloneMapping(m)
	s.mu.Lock()
	s.mappings[id] = copied
	s.mu.Unlock()
	return nil
}

func (s *memory) Get(id string) (redact.Mapping, bool, error) {
	s.mu.RLock()
	m, ok := s.mappings[id]
	s.mu.RUnlock()
	if !ok {
		return redact.Mapping{}, false, nil
	}
	return cloneMapping(m), true, nil
}

func (s *memory) Delete(id string) error {
	s.mu.Lock()
	delete(s.mappings, id)
	s.mu.Unlock()
	return nil
}

func (s *memory) Close() error { return nil }

// cloneMapping isolates stored mappings from caller mutations.
func cloneMapping(m redact.Mapping) redact.Mapping {
	c := m
	c.Entries = append([]redact.Entry(nil), m.Entries...)
	return c
}

package variant

import (
	"fmt"
	"sync"
)

// Store keeps finished units. Implementations must be thread-safe.
type Store interface {
	// Put stores a finished unit. Returns an error if the ID is already stored.
	Put(u *Unit) error

	// Get retrieves a unit by ID.
	Get(id ID) (*Unit, bool)
}

// MemoryStore is a map-backed Store.
type MemoryStore struct {
	mu    sync.RWMutex
	units map[ID]*Unit
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{units: make(map[ID]*Unit)}
}

// Put stores a unit.
func (s *MemoryStore) Put(u *Unit) error {
	if u == nil {
		return fmt.Errorf("unit cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.units[u.ID()]; exists {
		return fmt.Errorf("unit %s already exists", u.ID())
	}
	s.units[u.ID()] = u
	return nil
}

// Get retrieves a unit by ID.
func (s *MemoryStore) Get(id ID) (*Unit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.units[id]
	return u, ok
}

// Len returns the number of stored units.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.units)
}

package ratelimit

import (
	"sync"
	"time"
)

// MemoryStore is a process-local Store. Counters are not shared between
// instances of the service.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]Entry),
	}
}

// Update applies fn to the entry for key under the store lock
func (s *MemoryStore) Update(key string, fn func(entry Entry, exists bool) Entry) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.entries[key]
	next := fn(current, exists)
	s.entries[key] = next
	return next
}

// Get returns the entry for key
func (s *MemoryStore) Get(key string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	return e, ok
}

// DeleteExpired removes entries whose window ended at or before now
func (s *MemoryStore) DeleteExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if !now.Before(e.ResetAt) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

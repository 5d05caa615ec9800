package domain

import "sync"

// ReferenceLookup is the read side of the reference store.
type ReferenceLookup interface {
	Lookup(key int64) (string, bool)
}

// ReferenceStore maps a sku to its latest loyalty payload.
// It is written by the reference loader only, then frozen and shared
// read-only between enrichment workers.
type ReferenceStore struct {
	mu     sync.RWMutex
	values map[int64]string
	frozen bool
}

// NewReferenceStore creates an empty, writable ReferenceStore.
func NewReferenceStore() *ReferenceStore {
	return &ReferenceStore{
		values: make(map[int64]string),
	}
}

// Put stores rec, replacing any earlier value for the same key.
func (s *ReferenceStore) Put(rec ReferenceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frozen {
		return ErrStoreFrozen
	}
	s.values[rec.Key] = rec.Value
	return nil
}

// Freeze makes the store read-only. It is idempotent.
func (s *ReferenceStore) Freeze() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frozen = true
}

// Frozen reports whether the store has been frozen.
func (s *ReferenceStore) Frozen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frozen
}

// Lookup returns the value stored for key.
func (s *ReferenceStore) Lookup(key int64) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Len returns the number of distinct keys.
func (s *ReferenceStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

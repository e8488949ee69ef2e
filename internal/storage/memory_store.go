package storage

import (
	"context"
	"sync"

	"git.home.luguber.info/inful/hotelkeys/internal/registry"
)

// MemoryStore is an in-memory implementation of Store for testing.
type MemoryStore struct {
	mu       sync.Mutex
	snapshot *registry.Snapshot
	calls    MemoryCalls

	// SaveErr, when set, is returned by every Save and nothing is stored.
	SaveErr error
	// LoadErr, when set, is returned by every Load.
	LoadErr error
}

// MemoryCalls tracks method invocations for test verification.
type MemoryCalls struct {
	Load int
	Save int
}

// NewMemoryStore creates an empty store; Load reports registry.ErrNoSnapshot until the first Save.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryStoreWith creates a store that already holds snapshot.
func NewMemoryStoreWith(snapshot registry.Snapshot) *MemoryStore {
	s := snapshot.Clone()
	return &MemoryStore{snapshot: &s}
}

// Load returns a copy of the stored snapshot.
func (m *MemoryStore) Load(_ context.Context) (registry.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.Load++

	if m.LoadErr != nil {
		return registry.Snapshot{}, m.LoadErr
	}
	if m.snapshot == nil {
		return registry.Snapshot{}, registry.ErrNoSnapshot
	}
	return m.snapshot.Clone(), nil
}

// Save stores a copy of snapshot.
func (m *MemoryStore) Save(_ context.Context, snapshot registry.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.Save++

	if m.SaveErr != nil {
		return m.SaveErr
	}
	s := snapshot.Clone()
	m.snapshot = &s
	return nil
}

// Stored returns the last saved snapshot and whether one exists.
func (m *MemoryStore) Stored() (registry.Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snapshot == nil {
		return registry.Snapshot{}, false
	}
	return m.snapshot.Clone(), true
}

// Calls returns the invocation counters.
func (m *MemoryStore) Calls() MemoryCalls {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Location identifies the store in messages.
func (m *MemoryStore) Location() string {
	return "memory"
}

// Close releases resources.
func (m *MemoryStore) Close() error {
	return nil
}

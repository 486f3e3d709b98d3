package cart

import (
	"context"
	"fmt"
	"sync"
)

// Manager hands out one Store per storefront session, loading persisted
// lines on first use. Revisions live in memory only, so staleness
// tracking is scoped to the process lifetime.
type Manager struct {
	mu       sync.Mutex
	storage  Storage
	stores   map[string]*Store
	onMutate func(sessionID string, revision uint64)
}

// NewManager builds the registry. onMutate, when set, is attached to
// every store so dependent state can observe cart changes.
func NewManager(storage Storage, onMutate func(sessionID string, revision uint64)) (*Manager, error) {
	if storage == nil {
		return nil, fmt.Errorf("cart storage required")
	}
	return &Manager{
		storage:  storage,
		stores:   make(map[string]*Store),
		onMutate: onMutate,
	}, nil
}

// Get returns the session's store, creating and loading it on first
// access. A storage read failure on first load is returned; later calls
// retry the load.
func (m *Manager) Get(ctx context.Context, sessionID string) (*Store, error) {
	m.mu.Lock()
	store, ok := m.stores[sessionID]
	m.mu.Unlock()
	if ok {
		return store, nil
	}

	store, err := NewStore(sessionID, m.storage)
	if err != nil {
		return nil, err
	}
	if err := store.Load(ctx); err != nil {
		return nil, err
	}
	if m.onMutate != nil {
		id := sessionID
		store.OnMutate(func(revision uint64) {
			m.onMutate(id, revision)
		})
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.stores[sessionID]; ok {
		return existing, nil
	}
	m.stores[sessionID] = store
	return store, nil
}

// Drop forgets the session's in-memory store. Persisted lines are kept.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	delete(m.stores, sessionID)
	m.mu.Unlock()
}

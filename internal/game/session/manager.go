package session

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Manager serializes access to sessions held in a Store.
// All methods are safe for concurrent use.
type Manager struct {
	store Store

	mu    sync.Mutex
	locks map[string]*lockRef
}

type lockRef struct {
	mu   sync.Mutex
	refs int
}

// NewManager creates a Manager backed by store.
//
// Precondition: store must be non-nil.
func NewManager(store Store) *Manager {
	return &Manager{store: store, locks: make(map[string]*lockRef)}
}

// Create stores a new session.
//
// Postcondition: Returns an error if a session with the same ID already exists.
func (m *Manager) Create(ctx context.Context, s *Session) error {
	unlock := m.lock(s.ID)
	defer unlock()
	if _, err := m.store.Get(ctx, s.ID); err == nil {
		return fmt.Errorf("session %q already exists", s.ID)
	}
	return m.store.Put(ctx, s)
}

// Get returns a snapshot of the session with id.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	unlock := m.lock(id)
	defer unlock()
	return m.store.Get(ctx, id)
}

// Update loads the session, applies fn and stores the result. If fn returns an
// error the session is not written.
func (m *Manager) Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	unlock := m.lock(id)
	defer unlock()

	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	s.UpdatedAt = time.Now().UTC()
	if err := m.store.Put(ctx, s); err != nil {
		return nil, fmt.Errorf("storing session %q: %w", id, err)
	}
	return s, nil
}

// Delete removes the session with id.
func (m *Manager) Delete(ctx context.Context, id string) error {
	unlock := m.lock(id)
	defer unlock()
	return m.store.Delete(ctx, id)
}

func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	ref, ok := m.locks[id]
	if !ok {
		ref = &lockRef{}
		m.locks[id] = ref
	}
	ref.refs++
	m.mu.Unlock()

	ref.mu.Lock()
	return func() {
		ref.mu.Unlock()
		m.mu.Lock()
		ref.refs--
		if ref.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}

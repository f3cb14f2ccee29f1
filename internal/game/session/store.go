package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// ErrNotFound is returned when no session exists for an ID.
var ErrNotFound = errors.New("session: not found")

// Store persists sessions by ID. Implementations MUST be safe for concurrent use
// and MUST NOT retain the *Session passed to Put.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// Marshal encodes a session for a byte-oriented store.
func Marshal(s *Session) ([]byte, error) {
	return json.Marshal(s)
}

// Unmarshal decodes a session written by Marshal.
func Unmarshal(data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// MemoryStore keeps encoded sessions in a map.
type MemoryStore struct {
	mu sync.RWMutex
	m  map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: map[string][]byte{}}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.RLock()
	data, ok := s.m[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return Unmarshal(data)
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, sess *Session) error {
	data, err := Marshal(sess)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[sess.ID] = data
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
	return nil
}

// Len returns the number of stored sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

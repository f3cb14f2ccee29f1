package leaderboard

import (
	"context"
	"sync"
)

// MemoryStore keeps entries in a slice.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Top implements Store.
func (m *MemoryStore) Top(_ context.Context, limit int) ([]Entry, error) {
	m.mu.RLock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	m.mu.RUnlock()

	Sort(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Insert implements Store.
func (m *MemoryStore) Insert(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

// Raise implements Store. Among rows sharing e.Name it updates the one that
// ranks highest under Less.
func (m *MemoryStore) Raise(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	best := -1
	for i := range m.entries {
		if m.entries[i].Name != e.Name {
			continue
		}
		if best < 0 || Less(m.entries[i], m.entries[best]) {
			best = i
		}
	}
	if best < 0 {
		m.entries = append(m.entries, e)
		return nil
	}
	if e.Level > m.entries[best].Level {
		m.entries[best].Level = e.Level
		m.entries[best].CreatedAt = e.CreatedAt
	}
	return nil
}

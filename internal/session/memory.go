package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/soyeahso/telcoassist/internal/domain"
)

// MemoryStore is an in-memory Store used as the non-durable fallback when
// Redis is unavailable, and in tests. Entries expire lazily on Load.
type MemoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

type memoryEntry struct {
	payload  []byte
	deadline time.Time
}

// NewMemoryStore creates an in-memory store with the given TTL. A zero ttl
// uses DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{ttl: ttl, entries: make(map[string]memoryEntry)}
}

// Load returns the stored state, or nil if absent or expired.
func (m *MemoryStore) Load(_ context.Context, sessionID string) (*domain.DialogState, error) {
	m.mu.RLock()
	entry, ok := m.entries[sessionID]
	m.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.deadline) {
		m.mu.Lock()
		delete(m.entries, sessionID)
		m.mu.Unlock()
		return nil, nil
	}

	var state domain.DialogState
	if err := json.Unmarshal(entry.payload, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Save stores a JSON copy of the state so later mutations of the live
// object cannot leak into the stored snapshot.
func (m *MemoryStore) Save(_ context.Context, sessionID string, state *domain.DialogState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.entries[sessionID] = memoryEntry{payload: payload, deadline: time.Now().Add(m.ttl)}
	m.mu.Unlock()
	return nil
}

// Delete removes the stored state for a session.
func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.entries, sessionID)
	m.mu.Unlock()
	return nil
}

// Len reports the number of live entries. Used by tests.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

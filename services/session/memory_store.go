package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"haram/services/reservation"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore keeps sessions in process. Suitable for tests and single-node runs.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryStore) Save(_ context.Context, id string, st reservation.State, ttl time.Duration) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal reservation session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep()
	m.entries[id] = memoryEntry{data: data, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *MemoryStore) Load(_ context.Context, id string) (reservation.State, error) {
	m.mu.Lock()
	entry, ok := m.entries[id]
	if ok && !m.now().Before(entry.expiresAt) {
		delete(m.entries, id)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return reservation.State{}, ErrSessionNotFound
	}

	var st reservation.State
	if err := json.Unmarshal(entry.data, &st); err != nil {
		return reservation.State{}, fmt.Errorf("parse reservation session: %w", err)
	}
	return st, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, id)
	return nil
}

// sweep drops expired entries. Callers hold m.mu.
func (m *MemoryStore) sweep() {
	now := m.now()
	for id, entry := range m.entries {
		if !now.Before(entry.expiresAt) {
			delete(m.entries, id)
		}
	}
}

package persistence

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store implementation, used by tests and
// by any caller that wants persistence's interface without a database
// (e.g. the AI matchup runner, which plays many throwaway games).
type MemoryStore struct {
	mu    sync.RWMutex
	games map[uuid.UUID][]byte
	users map[uuid.UUID][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games: make(map[uuid.UUID][]byte),
		users: make(map[uuid.UUID][]byte),
	}
}

func (m *MemoryStore) FetchGame(ctx context.Context, id uuid.UUID) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.games[id]
	if !ok {
		return nil, fmt.Errorf("fetching game %s: not found", id)
	}
	return data, nil
}

func (m *MemoryStore) WriteGame(ctx context.Context, id uuid.UUID, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[id] = data
	return nil
}

func (m *MemoryStore) FetchUser(ctx context.Context, id uuid.UUID) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("fetching user %s: not found", id)
	}
	return data, nil
}

func (m *MemoryStore) WriteUser(ctx context.Context, id uuid.UUID, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id] = data
	return nil
}

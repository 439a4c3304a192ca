package app

import (
	"context"
	"sync"
)

// Store persists game sessions. Load returns ErrNotFound for unknown IDs.
type Store interface {
	Save(ctx context.Context, gs *GameState) error
	Load(ctx context.Context, id string) (*GameState, error)
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[string]GameState
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{games: make(map[string]GameState)}
}

func (m *MemoryStore) Save(_ context.Context, gs *GameState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[gs.ID] = *gs
	return nil
}

func (m *MemoryStore) Load(_ context.Context, id string) (*GameState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	gs, ok := m.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &gs, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[id]; !ok {
		return ErrNotFound
	}
	delete(m.games, id)
	return nil
}

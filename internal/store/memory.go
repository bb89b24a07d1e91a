// internal/store/memory.go
//
// In-memory implementation of the game Store.
// Active analysis games live here; sqlite (internal/history) keeps the
// durable copy and the HTTP layer restores from it on a miss.
//
// Characteristics:
//   - Stores *game.Game objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/letterpress/internal/game"
)

// ErrNotFound is returned by Get for unknown IDs.
var ErrNotFound = errors.New("game not found")

// Store defines the persistence interface for live games.
type Store interface {
	// Save persists or updates a game.
	Save(ctx context.Context, g *game.Game) error

	// Get retrieves a game by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Game, error)

	// Len is the number of live games.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex
	games map[string]*game.Game
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]*game.Game)}
}

func (m *memory) Save(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = g
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.games[id]; ok {
		return g, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

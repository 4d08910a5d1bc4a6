// apps/handle-solver/internal/store/memory.go
//
// In-memory registries for live solver sessions and judge games.
//
// Characteristics:
//   - Keyed by ID in maps guarded by one RWMutex each.
//   - Sessions hold engine state that cannot be rebuilt from the journal, so they
//     live here only and are lost when the process restarts.
//   - Get returns ErrNotFound for unknown IDs.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/game"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/session"
)

// ErrNotFound is returned for unknown session or game IDs.
var ErrNotFound = errors.New("not found")

// Sessions keeps live solver sessions.
type Sessions interface {
	Save(ctx context.Context, s *session.Session) error
	Get(ctx context.Context, id string) (*session.Session, error)
	Delete(ctx context.Context, id string) error
}

// Games keeps judge games.
type Games interface {
	Save(ctx context.Context, g *game.Game) error
	Get(ctx context.Context, id string) (*game.Game, error)
}

type memSessions struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
}

// NewMemorySessions constructs an in-memory Sessions.
func NewMemorySessions() Sessions {
	return &memSessions{sessions: make(map[string]*session.Session)}
}

func (m *memSessions) Save(ctx context.Context, s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memSessions) Get(ctx context.Context, id string) (*session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memSessions) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

type memGames struct {
	mu    sync.RWMutex
	games map[string]*game.Game
}

// NewMemoryGames constructs an in-memory Games.
func NewMemoryGames() Games {
	return &memGames{games: make(map[string]*game.Game)}
}

func (m *memGames) Save(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = g
	return nil
}

func (m *memGames) Get(ctx context.Context, id string) (*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.games[id]; ok {
		return g, nil
	}
	return nil, ErrNotFound
}

// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// This is a lightweight persistence layer used for ephemeral game sessions,
// primarily in development/testing, or when durability is not required.
//
// Characteristics:
//   - Stores *game.Game objects keyed by ID in a map, plus a last-touched time.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/robalobadob/yams/internal/game"
)

// ErrNotFound is returned when a game ID is unknown.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for games.
// Implementations are backed by memory (this file) or SQLite (sqlite.go).
type Store interface {
	// Save persists or updates a game state.
	Save(ctx context.Context, g *game.Game) error

	// Get retrieves a game by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Game, error)

	// ListByPlayer returns the games a player is seated at, most recently
	// updated first.
	ListByPlayer(ctx context.Context, player game.PlayerID) ([]*game.Game, error)

	// ListUnfinished returns every game a player is seated at that has not
	// ended, with no cap on the count.
	ListUnfinished(ctx context.Context, player game.PlayerID) ([]*game.Game, error)

	// Delete removes a game. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// Sweep deletes archived games and games not saved since cutoff.
	// It returns the number of games removed.
	Sweep(ctx context.Context, cutoff time.Time) (int, error)
}

type memEntry struct {
	g        *game.Game
	players  []game.PlayerID // seats as of the last Save
	ended    bool
	archived bool
	touched  time.Time
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex         // guards games map
	games map[string]*memEntry // keyed by Game.ID
	now   func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]*memEntry), now: time.Now}
}

// Save adds or updates the game in the map.
func (m *memory) Save(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = &memEntry{g: g, players: g.Players(), ended: g.Ended(), archived: g.Archived(), touched: m.now()}
	return nil
}

// Get looks up a game by ID.
func (m *memory) Get(ctx context.Context, id string) (*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.games[id]; ok {
		return e.g, nil
	}
	return nil, ErrNotFound
}

func (m *memory) ListByPlayer(ctx context.Context, player game.PlayerID) ([]*game.Game, error) {
	return m.list(player, false), nil
}

func (m *memory) ListUnfinished(ctx context.Context, player game.PlayerID) ([]*game.Game, error) {
	return m.list(player, true), nil
}

// list returns player's games, most recently saved first.
func (m *memory) list(player game.PlayerID, unfinished bool) []*game.Game {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var hits []*memEntry
	for _, e := range m.games {
		if unfinished && e.ended {
			continue
		}
		if slices.Contains(e.players, player) {
			hits = append(hits, e)
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].touched.After(hits[j].touched) })
	out := make([]*game.Game, len(hits))
	for i, e := range hits {
		out[i] = e.g
	}
	return out
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, id)
	return nil
}

func (m *memory) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.games {
		if e.archived || e.touched.Before(cutoff) {
			delete(m.games, id)
			n++
		}
	}
	return n, nil
}

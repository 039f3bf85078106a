package results

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/yams/internal/db"
	"github.com/robalobadob/yams/internal/game"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	conn, err := db.OpenMigrated(filepath.Join(t.TempDir(), "yams.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewStore(conn)
}

// finishedGame plays u1 and u2 to a resignation: u1 scores once, u2 resigns.
func finishedGame(t *testing.T) *game.Game {
	t.Helper()
	g := game.New(game.NewRandRoller(5))
	require.NoError(t, g.AddPlayer("u1"))
	require.NoError(t, g.AddPlayer("u2"))
	require.NoError(t, g.Start())
	require.NoError(t, g.Hold("u1"))
	_, err := g.EnterScore("u1", "max")
	require.NoError(t, err)
	require.NoError(t, g.Resign("u2"))
	require.True(t, g.CheckGameEnd())
	return g
}

func TestRecordGameAndLeaderboard(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	g := finishedGame(t)

	require.NoError(t, s.RecordGame(ctx, g, time.Now()))
	require.NoError(t, s.RecordGame(ctx, g, time.Now()), "second record is ignored")

	card, err := g.Card("u1")
	require.NoError(t, err)

	lb, err := s.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, lb, 1, "resigned players are not ranked")
	assert.Equal(t, "u1", lb[0].UserID)
	assert.Equal(t, card.Total, lb[0].Best)
	assert.Equal(t, 1, lb[0].Games)
	assert.Equal(t, 1, lb[0].Wins)

	mine, err := s.ForUser(ctx, "u2", 0)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.True(t, mine[0].Resigned)
	assert.False(t, mine[0].Winner)
}

func TestRecordGameRequiresEnd(t *testing.T) {
	s := newStore(t)
	g := game.New(nil)
	require.NoError(t, g.AddPlayer("u1"))

	err := s.RecordGame(context.Background(), g, time.Now())
	assert.ErrorIs(t, err, game.ErrInvalidStateTransition)
}

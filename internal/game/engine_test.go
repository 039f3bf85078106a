package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice PlayerID = "alice"
	bob   PlayerID = "bob"
	carol PlayerID = "carol"
)

func newStartedGame(t *testing.T, players ...PlayerID) *Game {
	t.Helper()
	g := New(NewRandRoller(1))
	for _, p := range players {
		require.NoError(t, g.AddPlayer(p))
	}
	require.NoError(t, g.Start())
	return g
}

// setDice forces the faces on the table.
func setDice(g *Game, faces ...int) {
	copy(g.dice.values[:], faces)
}

func TestStart(t *testing.T) {
	g := New(nil)
	assert.Equal(t, StageWaiting, g.Stage())
	assert.ErrorIs(t, g.Start(), ErrNoPlayers)

	require.NoError(t, g.AddPlayer(alice))
	require.NoError(t, g.AddPlayer(bob))
	require.NoError(t, g.Start())

	assert.Equal(t, StageRolling, g.Stage())
	assert.Equal(t, 1, g.Rolls())
	active, ok := g.ActivePlayer()
	require.True(t, ok)
	assert.Equal(t, alice, active)
	assert.Len(t, g.Dice(), NumDice)

	assert.ErrorIs(t, g.Start(), ErrInvalidStateTransition)
}

func TestAddPlayer(t *testing.T) {
	g := New(nil)
	require.NoError(t, g.AddPlayer(alice))
	assert.ErrorIs(t, g.AddPlayer(alice), ErrPlayerExists)

	for _, p := range []PlayerID{"p2", "p3", "p4", "p5"} {
		require.NoError(t, g.AddPlayer(p))
	}
	assert.ErrorIs(t, g.AddPlayer("p6"), ErrGameFull)

	require.NoError(t, g.Start())
	assert.ErrorIs(t, g.AddPlayer("late"), ErrInvalidStateTransition)
}

func TestThirdRollForcesScoring(t *testing.T) {
	g := newStartedGame(t, alice)

	require.NoError(t, g.Roll(alice, []int{0}))
	assert.Equal(t, StageRolling, g.Stage())
	assert.Equal(t, 2, g.Rolls())

	require.NoError(t, g.Roll(alice, []int{1, 2}))
	assert.Equal(t, StageScoring, g.Stage())
	assert.Equal(t, 3, g.Rolls())

	assert.ErrorIs(t, g.Roll(alice, []int{0}), ErrInvalidStateTransition)
}

func TestEmptyRollIsNotCounted(t *testing.T) {
	g := newStartedGame(t, alice)
	before := g.Dice()

	require.NoError(t, g.Roll(alice, nil))
	assert.Equal(t, 1, g.Rolls())
	assert.Equal(t, before, g.Dice())
}

func TestRollRejectsBadIndexesAtomically(t *testing.T) {
	g := newStartedGame(t, alice)
	before := g.Dice()

	assert.ErrorIs(t, g.Roll(alice, []int{0, 0}), ErrInvalidIndex)
	assert.ErrorIs(t, g.Roll(alice, []int{9}), ErrInvalidIndex)
	assert.ErrorIs(t, g.Roll(alice, []int{-1}), ErrInvalidIndex)
	assert.ErrorIs(t, g.Roll(alice, []int{0, 1, 2, 3, 4, 0}), ErrInvalidIndex)
	assert.Equal(t, 1, g.Rolls())
	assert.Equal(t, before, g.Dice())
}

func TestOnlyActivePlayerMayAct(t *testing.T) {
	g := newStartedGame(t, alice, bob)

	assert.ErrorIs(t, g.Roll(bob, []int{0}), ErrNotActivePlayer)
	assert.ErrorIs(t, g.Hold(bob), ErrNotActivePlayer)
	assert.ErrorIs(t, g.Roll("mallory", []int{0}), ErrUnknownPlayer)

	require.NoError(t, g.Hold(alice))
	_, err := g.EnterScore(bob, string(Yams))
	assert.ErrorIs(t, err, ErrNotActivePlayer)
}

func TestHold(t *testing.T) {
	g := newStartedGame(t, alice)
	require.NoError(t, g.Hold(alice))
	assert.Equal(t, StageScoring, g.Stage())
	assert.ErrorIs(t, g.Hold(alice), ErrInvalidStateTransition)
	assert.ErrorIs(t, g.Roll(alice, []int{0}), ErrInvalidStateTransition)
}

func TestEnterScoreOutsideScoring(t *testing.T) {
	g := newStartedGame(t, alice)
	_, err := g.EnterScore(alice, string(Poker))
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestEnterScorePassesTurn(t *testing.T) {
	g := newStartedGame(t, alice, bob)
	setDice(g, 4, 4, 4, 4, 2)
	require.NoError(t, g.Hold(alice))

	points, err := g.EnterScore(alice, string(Poker))
	require.NoError(t, err)
	assert.Equal(t, 56, points)

	assert.Equal(t, StageRolling, g.Stage())
	assert.Equal(t, 1, g.Rolls())
	active, _ := g.ActivePlayer()
	assert.Equal(t, bob, active)

	card, err := g.Card(alice)
	require.NoError(t, err)
	require.NotNil(t, card.Entries[Poker])
	assert.Equal(t, 56, *card.Entries[Poker])
}

func TestEnterScoreRejectsTakenCategory(t *testing.T) {
	g := newStartedGame(t, alice)
	setDice(g, 1, 1, 1, 1, 1)
	require.NoError(t, g.Hold(alice))
	_, err := g.EnterScore(alice, string(Yams))
	require.NoError(t, err)

	require.NoError(t, g.Hold(alice))
	_, err = g.EnterScore(alice, string(Yams))
	assert.ErrorIs(t, err, ErrCategoryAlreadySet)
	assert.Equal(t, StageScoring, g.Stage(), "failed score must not advance the game")

	card, _ := g.Card(alice)
	assert.Equal(t, 55, *card.Entries[Yams])
}

func TestEnterScoreUnknownCategory(t *testing.T) {
	g := newStartedGame(t, alice)
	require.NoError(t, g.Hold(alice))
	_, err := g.EnterScore(alice, "chance")
	assert.ErrorIs(t, err, ErrUnknownCategory)
	assert.Equal(t, StageScoring, g.Stage())
}

func TestMinMaxUseOwnCard(t *testing.T) {
	g := newStartedGame(t, alice)

	setDice(g, 2, 2, 2, 2, 2)
	require.NoError(t, g.Hold(alice))
	points, err := g.EnterScore(alice, string(Max))
	require.NoError(t, err)
	assert.Equal(t, 10, points)

	setDice(g, 3, 3, 3, 3, 3)
	require.NoError(t, g.Hold(alice))
	points, err = g.EnterScore(alice, string(Min))
	require.NoError(t, err)
	assert.Zero(t, points, "min above the recorded max scores nothing")

	card, _ := g.Card(alice)
	require.NotNil(t, card.Entries[Min])
	assert.Zero(t, *card.Entries[Min])
}

func TestFullGameEnds(t *testing.T) {
	g := newStartedGame(t, alice, bob)
	for _, cat := range Categories {
		for _, p := range []PlayerID{alice, bob} {
			require.NoError(t, g.Hold(p))
			_, err := g.EnterScore(p, string(cat))
			require.NoError(t, err)
		}
	}

	assert.True(t, g.Ended())
	assert.Equal(t, StageGameEnd, g.Stage())
	_, ok := g.ActivePlayer()
	assert.False(t, ok)
	assert.ErrorIs(t, g.Roll(alice, []int{0}), ErrInvalidStateTransition)
	assert.ErrorIs(t, g.Hold(alice), ErrInvalidStateTransition)
	_, err := g.EnterScore(alice, string(One))
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
	assert.NotEmpty(t, g.Winners())
}

func TestResignDefersEndToNextScore(t *testing.T) {
	g := newStartedGame(t, alice, bob)

	require.NoError(t, g.Resign(bob))
	assert.False(t, g.Ended(), "resigning alone never ends the game")

	require.NoError(t, g.Hold(alice))
	_, err := g.EnterScore(alice, string(Six))
	require.NoError(t, err)
	assert.True(t, g.Ended())
	assert.Equal(t, []PlayerID{alice}, g.Winners())
}

func TestResignActivePlayerPassesTurn(t *testing.T) {
	g := newStartedGame(t, alice, bob, carol)
	require.NoError(t, g.Roll(alice, []int{0}))

	require.NoError(t, g.Resign(alice))
	active, ok := g.ActivePlayer()
	require.True(t, ok)
	assert.Equal(t, bob, active)
	assert.Equal(t, StageRolling, g.Stage())
	assert.Equal(t, 1, g.Rolls())

	// rotation skips the resigned seat
	require.NoError(t, g.Hold(bob))
	_, err := g.EnterScore(bob, string(One))
	require.NoError(t, err)
	require.NoError(t, g.Hold(carol))
	_, err = g.EnterScore(carol, string(One))
	require.NoError(t, err)
	active, _ = g.ActivePlayer()
	assert.Equal(t, bob, active)
}

func TestSoloResignEndsOnCheck(t *testing.T) {
	g := newStartedGame(t, alice)
	require.NoError(t, g.Resign(alice))
	assert.False(t, g.Ended())

	assert.True(t, g.CheckGameEnd())
	assert.Equal(t, StageGameEnd, g.Stage())
	assert.Empty(t, g.Winners())
}

func TestCheckGameEndWhileRunning(t *testing.T) {
	g := newStartedGame(t, alice, bob)
	assert.False(t, g.CheckGameEnd())
	assert.Equal(t, StageRolling, g.Stage())
}

func TestResignRequiresGameInProgress(t *testing.T) {
	g := New(nil)
	require.NoError(t, g.AddPlayer(alice))
	assert.ErrorIs(t, g.Resign(alice), ErrInvalidStateTransition)

	require.NoError(t, g.Start())
	assert.ErrorIs(t, g.Resign("mallory"), ErrUnknownPlayer)
}

func TestQuit(t *testing.T) {
	g := New(nil)
	require.NoError(t, g.AddPlayer(alice))
	require.NoError(t, g.AddPlayer(bob))
	require.NoError(t, g.Quit(bob))
	assert.Equal(t, []PlayerID{alice}, g.Players())

	require.NoError(t, g.AddPlayer(bob))
	require.NoError(t, g.Start())
	require.NoError(t, g.Quit(bob))
	assert.True(t, g.CheckGameEnd())
	assert.False(t, g.Archived())

	require.NoError(t, g.Quit(alice))
	assert.True(t, g.Archived())
}

func TestView(t *testing.T) {
	g := newStartedGame(t, alice, bob)
	v := g.View()
	assert.Equal(t, g.ID, v.ID)
	assert.Equal(t, StageRolling, v.Stage)
	assert.Equal(t, alice, v.Active)
	require.Len(t, v.Players, 2)
	assert.Equal(t, bob, v.Players[1].ID)
	assert.Empty(t, v.Winners)
}

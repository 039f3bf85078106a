package game

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRestoreKeepsState(t *testing.T) {
	g := newStartedGame(t, alice, bob)
	setDice(g, 1, 1, 1, 1, 1)
	require.NoError(t, g.Hold(alice))
	_, err := g.EnterScore(alice, string(Full)) // explicit zero
	require.NoError(t, err)
	require.NoError(t, g.Roll(bob, []int{2}))

	snap := g.Snapshot()
	raw, err := json.Marshal(snap)
	require.NoError(t, err)

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(raw, &decoded))
	restored, err := Restore(decoded, NewRandRoller(3))
	require.NoError(t, err)

	if diff := cmp.Diff(g.View(), restored.View()); diff != "" {
		t.Errorf("restored view mismatch (-want +got):\n%s", diff)
	}

	card, err := restored.Card(alice)
	require.NoError(t, err)
	require.NotNil(t, card.Entries[Full], "explicit zero must survive the round trip")
	assert.Zero(t, *card.Entries[Full])
	assert.Nil(t, card.Entries[Yams])

	// the restored game keeps playing
	require.NoError(t, restored.Hold(bob))
	_, err = restored.EnterScore(bob, string(Yams))
	require.NoError(t, err)
	active, _ := restored.ActivePlayer()
	assert.Equal(t, alice, active)
}

func TestRestoreRejectsBadSnapshots(t *testing.T) {
	good := newStartedGame(t, alice).Snapshot()

	for name, mutate := range map[string]func(*Snapshot){
		"missing id":                  func(s *Snapshot) { s.ID = "" },
		"bad stage":                   func(s *Snapshot) { s.Stage = "dancing" },
		"bad rolls":                   func(s *Snapshot) { s.Rolls = 4 },
		"bad dice":                    func(s *Snapshot) { s.Dice = []int{1, 2, 3} },
		"bad face":                    func(s *Snapshot) { s.Dice = []int{0, 2, 3, 4, 5} },
		"bad active":                  func(s *Snapshot) { s.Active = 3 },
		"bad category":                func(s *Snapshot) { v := 1; s.Players[0].Scores = map[Category]*int{"chance": &v} },
		"dup player":                  func(s *Snapshot) { s.Players = append(s.Players, s.Players[0]) },
		"rolling with all rolls used": func(s *Snapshot) { s.Rolls = MaxRolls },
		"rolling with no roll":        func(s *Snapshot) { s.Rolls = 0 },
		"waiting with rolls":          func(s *Snapshot) { s.Stage = StageWaiting },
		"scoring with no roll":        func(s *Snapshot) { s.Stage, s.Rolls = StageScoring, 0 },
		"in progress without players": func(s *Snapshot) { s.Players = nil; s.Active = 0 },
	} {
		t.Run(name, func(t *testing.T) {
			s := good
			s.Dice = append([]int(nil), good.Dice...)
			s.Players = append([]PlayerSnapshot(nil), good.Players...)
			mutate(&s)
			_, err := Restore(s, nil)
			assert.ErrorIs(t, err, ErrInvalidSnapshot)
		})
	}
}

func TestRestoreRejectsResignedActiveSeat(t *testing.T) {
	g := newStartedGame(t, alice, bob)
	s := g.Snapshot()
	s.Players = append([]PlayerSnapshot(nil), s.Players...)
	s.Players[0].Resigned = true // alice is active

	_, err := Restore(s, nil)
	assert.ErrorIs(t, err, ErrInvalidSnapshot)

	// Everyone resigned before the end check is a state play can reach.
	s.Players[1].Resigned = true
	restored, err := Restore(s, nil)
	require.NoError(t, err)
	assert.True(t, restored.CheckGameEnd())
}

func TestRestoreAcceptsEveryPlayedStage(t *testing.T) {
	g := newStartedGame(t, alice)
	for i := 0; i < 3; i++ {
		_, err := Restore(g.Snapshot(), nil)
		require.NoError(t, err, "stage %s rolls %d", g.Stage(), g.Rolls())
		if g.Stage() == StageRolling {
			require.NoError(t, g.Roll(alice, []int{0}))
		}
	}
	require.Equal(t, StageScoring, g.Stage())
	require.Equal(t, MaxRolls, g.Rolls())
	require.NoError(t, g.Resign(alice))
	require.True(t, g.CheckGameEnd())
	_, err := Restore(g.Snapshot(), nil)
	require.NoError(t, err)
}

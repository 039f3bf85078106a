package game

import (
	"fmt"
	"slices"
)

// Snapshot is everything needed to rebuild a Game. Score values are nil while
// unset so that an explicit zero survives a round trip.
type Snapshot struct {
	ID      string           `json:"id"`
	Dice    []int            `json:"dice"`
	Stage   Stage            `json:"stage"`
	Rolls   int              `json:"rolls"`
	Active  int              `json:"active"`
	Players []PlayerSnapshot `json:"players"`
}

// PlayerSnapshot is one seat in a Snapshot.
type PlayerSnapshot struct {
	ID       PlayerID          `json:"id"`
	Resigned bool              `json:"resigned"`
	Quit     bool              `json:"quit"`
	Scores   map[Category]*int `json:"scores"`
}

// Snapshot captures the game's state.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		ID:      g.ID,
		Dice:    g.dice.Values(),
		Stage:   g.round.stage,
		Rolls:   g.round.rolls,
		Active:  g.active,
		Players: make([]PlayerSnapshot, 0, len(g.players)),
	}
	for _, p := range g.players {
		s.Players = append(s.Players, PlayerSnapshot{
			ID:       p.ID,
			Resigned: p.Resigned,
			Quit:     p.Quit,
			Scores:   p.Card.View().Entries,
		})
	}
	return s
}

// Restore rebuilds a Game from s. A nil roller uses DefaultRoller.
func Restore(s Snapshot, r Roller) (*Game, error) {
	if r == nil {
		r = DefaultRoller
	}
	if s.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidSnapshot)
	}
	if !s.Stage.valid() {
		return nil, fmt.Errorf("%w: stage %q", ErrInvalidSnapshot, s.Stage)
	}
	if !rollsAllowed(s.Stage, s.Rolls) {
		return nil, fmt.Errorf("%w: %d rolls while %s", ErrInvalidSnapshot, s.Rolls, s.Stage)
	}
	if len(s.Players) > MaxPlayers {
		return nil, fmt.Errorf("%w: %d players", ErrInvalidSnapshot, len(s.Players))
	}
	if len(s.Players) > 0 && (s.Active < 0 || s.Active >= len(s.Players)) {
		return nil, fmt.Errorf("%w: active index %d", ErrInvalidSnapshot, s.Active)
	}
	dice, err := DiceFromValues(s.Dice, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	g := &Game{
		ID:     s.ID,
		dice:   dice,
		round:  Round{stage: s.Stage, rolls: s.Rolls},
		active: s.Active,
		roller: r,
	}
	for _, ps := range s.Players {
		if g.player(ps.ID) != nil {
			return nil, fmt.Errorf("%w: duplicate player %s", ErrInvalidSnapshot, ps.ID)
		}
		card := NewScoreCard()
		for cat, v := range ps.Scores {
			if v == nil {
				continue
			}
			if err := card.Record(cat, *v); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
			}
		}
		g.players = append(g.players, &Player{ID: ps.ID, Card: card, Resigned: ps.Resigned, Quit: ps.Quit})
	}
	if g.InProgress() {
		if len(g.players) == 0 {
			return nil, fmt.Errorf("%w: %s without players", ErrInvalidSnapshot, s.Stage)
		}
		if !g.players[g.active].active() && slices.ContainsFunc(g.players, (*Player).active) {
			return nil, fmt.Errorf("%w: active seat %d has resigned", ErrInvalidSnapshot, s.Active)
		}
	}
	return g, nil
}

// rollsAllowed reports whether a round in stage can have taken rolls.
func rollsAllowed(stage Stage, rolls int) bool {
	switch stage {
	case StageWaiting:
		return rolls == 0
	case StageRolling:
		return rolls >= 1 && rolls < MaxRolls
	case StageScoring:
		return rolls >= 1 && rolls <= MaxRolls
	}
	return rolls >= 0 && rolls <= MaxRolls
}

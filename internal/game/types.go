// internal/game/types.go
//
// Core type definitions for the Yam's game engine.
// Defines:
//   - Stage: coarse lifecycle of a game (waiting/rolling/scoring/game_end).
//   - PlayerID: opaque reference to a participant, owned by the caller.
//   - Player: a participant's seat in one game (score card + withdrawal flags).

package game

// Stage represents where a game is in its lifecycle.
// Possible values:
//   - "waiting":  created, players may still join.
//   - "rolling":  the active player may roll (up to three times) or hold.
//   - "scoring":  the active player must pick an available category.
//   - "game_end": terminal; no further rolls or scores are accepted.
type Stage string

const (
	StageWaiting Stage = "waiting"
	StageRolling Stage = "rolling"
	StageScoring Stage = "scoring"
	StageGameEnd Stage = "game_end"
)

// valid reports whether s is one of the four known stages.
func (s Stage) valid() bool {
	switch s {
	case StageWaiting, StageRolling, StageScoring, StageGameEnd:
		return true
	}
	return false
}

// PlayerID identifies a participant. The engine never interprets it.
type PlayerID string

const (
	// MaxPlayers bounds how many players may sit at one game.
	MaxPlayers = 5
	// MaxRolls is the number of rolls a player gets per round.
	MaxRolls = 3
)

// Player is one seat at a game.
type Player struct {
	ID       PlayerID
	Card     *ScoreCard
	Resigned bool // withdrawn from play; skipped by turn rotation
	Quit     bool // left the game entirely (implies Resigned while in progress)
}

// active reports whether the player still takes turns.
func (p *Player) active() bool { return !p.Resigned }

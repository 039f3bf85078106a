package game

import "fmt"

// Round governs one player's turn: rolling up to MaxRolls times, then scoring.
//
// Transitions:
//
//	waiting  -> rolling   start
//	rolling  -> rolling   roll (rolls < MaxRolls)
//	rolling  -> scoring   hold, or the MaxRolls-th roll
//	scoring  -> rolling   next round
//	scoring  -> game_end  end of game
type Round struct {
	stage Stage
	rolls int
}

// NewRound returns a round machine in the waiting stage.
func NewRound() Round { return Round{stage: StageWaiting} }

func (r *Round) Stage() Stage { return r.stage }

// Rolls is the number of rolls taken in the current round.
func (r *Round) Rolls() int { return r.rolls }

func (r *Round) start() error {
	if r.stage != StageWaiting {
		return transitionErr("start", r.stage)
	}
	r.stage, r.rolls = StageRolling, 0
	return nil
}

// checkRoll fails unless another roll is legal.
func (r *Round) checkRoll() error {
	if r.stage != StageRolling || r.rolls >= MaxRolls {
		return transitionErr("roll", r.stage)
	}
	return nil
}

// rolled counts a completed roll; the last allowed roll forces scoring.
func (r *Round) rolled() {
	r.rolls++
	if r.rolls >= MaxRolls {
		r.stage = StageScoring
	}
}

func (r *Round) hold() error {
	if r.stage != StageRolling {
		return transitionErr("hold", r.stage)
	}
	r.stage = StageScoring
	return nil
}

func (r *Round) checkScore() error {
	if r.stage != StageScoring {
		return transitionErr("score", r.stage)
	}
	return nil
}

func (r *Round) next() {
	r.stage, r.rolls = StageRolling, 0
}

func (r *Round) end() {
	r.stage = StageGameEnd
}

func transitionErr(op string, from Stage) error {
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidStateTransition, op, from)
}

package game

import "errors"

// Rejected operations. Callers match them with errors.Is; the engine wraps
// them with detail via fmt.Errorf("%w").
var (
	ErrInvalidIndex           = errors.New("invalid dice index")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrUnknownCategory        = errors.New("unknown category")
	ErrCategoryAlreadySet     = errors.New("category already set")

	ErrNotActivePlayer = errors.New("not the active player")
	ErrUnknownPlayer   = errors.New("unknown player")
	ErrPlayerExists    = errors.New("player already in game")
	ErrGameFull        = errors.New("game is full")
	ErrNoPlayers       = errors.New("game has no players")
	ErrInvalidDice     = errors.New("invalid dice values")
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

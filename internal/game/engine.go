// internal/game/engine.go
//
// Core game engine for a single Yam's game.
// Responsibilities:
//   - Seat players while waiting, then start the first round.
//   - Validate and apply rolls, holds and score entries for the active player.
//   - Rotate turns round-robin over players who have not resigned.
//   - Detect the end of the game.
//
// Notes:
//   - Every operation names the acting player; there is no ambient "current user".
//   - Operations validate fully before mutating, so a rejected call leaves the
//     game untouched.
//   - The engine is not safe for concurrent use; callers serialize access.
package game

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Game holds the state of one game: dice, round state and one seat per player.
type Game struct {
	ID      string
	dice    *DiceSet
	round   Round
	players []*Player
	active  int
	roller  Roller
}

// New constructs a waiting game. A nil roller uses DefaultRoller.
func New(r Roller) *Game {
	if r == nil {
		r = DefaultRoller
	}
	return &Game{
		ID:     uuid.NewString(),
		dice:   NewDiceSet(r),
		round:  NewRound(),
		roller: r,
	}
}

// AddPlayer seats a player with a fresh score card. Only legal while waiting.
func (g *Game) AddPlayer(id PlayerID) error {
	if g.round.stage != StageWaiting {
		return transitionErr("join", g.round.stage)
	}
	if g.player(id) != nil {
		return fmt.Errorf("%w: %s", ErrPlayerExists, id)
	}
	if len(g.players) >= MaxPlayers {
		return ErrGameFull
	}
	g.players = append(g.players, &Player{ID: id, Card: NewScoreCard()})
	return nil
}

// Start moves a waiting game to rolling and performs the first roll for the
// first player.
func (g *Game) Start() error {
	if g.round.stage != StageWaiting {
		return transitionErr("start", g.round.stage)
	}
	if len(g.players) == 0 {
		return ErrNoPlayers
	}
	_ = g.round.start()
	g.active = 0
	g.beginRound()
	return nil
}

// Roll re-rolls the dice at indexes for the active player. The third roll of a
// round moves the game to scoring. An empty index list changes nothing.
func (g *Game) Roll(id PlayerID, indexes []int) error {
	if err := g.round.checkRoll(); err != nil {
		return err
	}
	if err := g.checkTurn(id); err != nil {
		return err
	}
	if err := g.dice.Roll(indexes); err != nil {
		return err
	}
	if len(indexes) > 0 {
		g.round.rolled()
	}
	return nil
}

// Hold ends the rolling phase early.
func (g *Game) Hold(id PlayerID) error {
	if g.round.stage != StageRolling {
		return transitionErr("hold", g.round.stage)
	}
	if err := g.checkTurn(id); err != nil {
		return err
	}
	return g.round.hold()
}

// EnterScore scores the current dice in the named category on the active
// player's card, then either ends the game or hands the dice to the next
// player. It returns the points recorded.
func (g *Game) EnterScore(id PlayerID, name string) (int, error) {
	if err := g.round.checkScore(); err != nil {
		return 0, err
	}
	cat, err := ParseCategory(name)
	if err != nil {
		return 0, err
	}
	if err := g.checkTurn(id); err != nil {
		return 0, err
	}
	card := g.players[g.active].Card
	if !card.IsAvailable(cat) {
		return 0, fmt.Errorf("%w: %s", ErrCategoryAlreadySet, cat)
	}

	var opp Opposing
	if o, ok := cat.opposite(); ok {
		opp.Value, opp.Set = card.Value(o)
	}
	points, err := Score(cat, g.dice.Values(), opp)
	if err != nil {
		return 0, err
	}
	if err := card.Record(cat, points); err != nil {
		return 0, err
	}

	if g.isGameEnd() {
		g.round.end()
		return points, nil
	}
	if g.advance() {
		g.round.next()
		g.beginRound()
	}
	return points, nil
}

// Resign withdraws a player from turn rotation. It never ends the game on its
// own; CheckGameEnd or the next EnterScore does. When the active player
// resigns the dice pass to the next remaining player.
func (g *Game) Resign(id PlayerID) error {
	if !g.InProgress() {
		return transitionErr("resign", g.round.stage)
	}
	p := g.player(id)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}
	if p.Resigned {
		return nil
	}
	wasActive := g.players[g.active] == p
	p.Resigned = true
	if wasActive && g.advance() {
		g.round.next()
		g.beginRound()
	}
	return nil
}

// Quit removes a player from a waiting game, resigns them from a game in
// progress, and marks them as gone once the game has ended.
func (g *Game) Quit(id PlayerID) error {
	p := g.player(id)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}
	switch g.round.stage {
	case StageWaiting:
		g.players = slices.DeleteFunc(g.players, func(q *Player) bool { return q == p })
		return nil
	case StageRolling, StageScoring:
		if err := g.Resign(id); err != nil {
			return err
		}
	}
	p.Quit = true
	return nil
}

// CheckGameEnd ends a game in progress when an end condition holds and
// reports whether the game is over.
func (g *Game) CheckGameEnd() bool {
	if g.InProgress() && g.isGameEnd() {
		g.round.end()
	}
	return g.Ended()
}

// isGameEnd: the lone player resigned, all but one player resigned, or every
// remaining player's card is complete.
func (g *Game) isGameEnd() bool {
	n := len(g.players)
	resigned := 0
	for _, p := range g.players {
		if p.Resigned {
			resigned++
		}
	}
	switch {
	case n == 0:
		return false
	case n == 1 && resigned == 1:
		return true
	case n > 1 && resigned >= n-1:
		return true
	}
	for _, p := range g.players {
		if p.active() && !p.Card.IsComplete() {
			return false
		}
	}
	return true
}

// advance moves the turn to the next player who has not resigned, wrapping
// around. It reports false if nobody is left to play.
func (g *Game) advance() bool {
	n := len(g.players)
	for step := 1; step <= n; step++ {
		i := (g.active + step) % n
		if g.players[i].active() {
			g.active = i
			return true
		}
	}
	return false
}

// beginRound rolls all five dice as the round's first roll.
func (g *Game) beginRound() {
	g.dice.rollAll()
	g.round.rolled()
}

func (g *Game) checkTurn(id PlayerID) error {
	if len(g.players) == 0 {
		return ErrNoPlayers
	}
	p := g.players[g.active]
	if p.ID != id || !p.active() {
		if g.player(id) == nil {
			return fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
		}
		return fmt.Errorf("%w: %s", ErrNotActivePlayer, id)
	}
	return nil
}

func (g *Game) player(id PlayerID) *Player {
	for _, p := range g.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// ----------------------------- accessors -----------------------------------

func (g *Game) Stage() Stage { return g.round.stage }

// Rolls is the number of rolls taken in the current round.
func (g *Game) Rolls() int { return g.round.rolls }

// Dice returns the current faces in die order.
func (g *Game) Dice() []int { return g.dice.Values() }

// ActivePlayer returns the player entitled to act, if the game is in progress.
func (g *Game) ActivePlayer() (PlayerID, bool) {
	if !g.InProgress() || len(g.players) == 0 {
		return "", false
	}
	p := g.players[g.active]
	if !p.active() {
		return "", false
	}
	return p.ID, true
}

// Players lists seated players in turn order.
func (g *Game) Players() []PlayerID {
	out := make([]PlayerID, len(g.players))
	for i, p := range g.players {
		out[i] = p.ID
	}
	return out
}

// HasPlayer reports whether id is seated at this game.
func (g *Game) HasPlayer(id PlayerID) bool { return g.player(id) != nil }

// Card returns a read-only view of a player's score card.
func (g *Game) Card(id PlayerID) (CardView, error) {
	p := g.player(id)
	if p == nil {
		return CardView{}, fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}
	return p.Card.View(), nil
}

func (g *Game) InProgress() bool {
	return g.round.stage == StageRolling || g.round.stage == StageScoring
}

func (g *Game) Ended() bool { return g.round.stage == StageGameEnd }

// Archived reports whether the game ended and every player has left it.
func (g *Game) Archived() bool {
	if !g.Ended() {
		return false
	}
	for _, p := range g.players {
		if !p.Quit {
			return false
		}
	}
	return true
}

// Winners returns the players with the highest total among those who did not
// resign. Empty until the game has ended.
func (g *Game) Winners() []PlayerID {
	if !g.Ended() {
		return nil
	}
	best := -1
	var out []PlayerID
	for _, p := range g.players {
		if p.Resigned {
			continue
		}
		switch t := p.Card.Total(); {
		case t > best:
			best, out = t, []PlayerID{p.ID}
		case t == best:
			out = append(out, p.ID)
		}
	}
	return out
}

// internal/httpserver/routes_game.go
//
// Game endpoints. All of them require auth; the signed-in user is the player.
//   - POST /games              → create a game and seat the caller
//   - GET  /games/mine         → games the caller is seated at
//   - GET  /games/{id}         → current view
//   - POST /games/{id}/join    → take a seat while waiting
//   - POST /games/{id}/start   → start the game
//   - POST /games/{id}/roll    → re-roll the dice at the given indexes
//   - POST /games/{id}/hold    → stop rolling
//   - POST /games/{id}/score   → enter the dice in a category
//   - POST /games/{id}/resign  → resign, then check for game end
//   - POST /games/{id}/quit    → leave the game
//   - GET  /results/mine       → the caller's finished games
//
// Every handler touching a game runs under that game's lock.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/yams/internal/game"
	"github.com/robalobadob/yams/internal/results"
	"github.com/robalobadob/yams/internal/store"
)

type newGameReq struct {
	Start bool `json:"start"` // start immediately (solo play)
}

type rollReq struct {
	Dice []int `json:"dice"` // indexes 0..4 to re-roll
}

type scoreReq struct {
	Category string `json:"category"`
}

type scoreRes struct {
	Points int       `json:"points"`
	Game   game.View `json:"game"`
}

func (s *Server) mountGameRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth())

		r.Post("/games", s.handleNewGame)
		r.Get("/games/mine", s.handleMyGames)
		r.Get("/games/{id}", s.handleGetGame)
		r.Get("/results/mine", s.handleMyResults)

		r.Post("/games/{id}/join", func(w http.ResponseWriter, r *http.Request) {
			s.move(w, r, false, func(g *game.Game, me game.PlayerID) error {
				return g.AddPlayer(me)
			})
		})
		r.Post("/games/{id}/start", func(w http.ResponseWriter, r *http.Request) {
			s.move(w, r, true, func(g *game.Game, _ game.PlayerID) error {
				return g.Start()
			})
		})
		r.Post("/games/{id}/roll", func(w http.ResponseWriter, r *http.Request) {
			var body rollReq
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, "invalid_json")
				return
			}
			s.move(w, r, true, func(g *game.Game, me game.PlayerID) error {
				return g.Roll(me, body.Dice)
			})
		})
		r.Post("/games/{id}/hold", func(w http.ResponseWriter, r *http.Request) {
			s.move(w, r, true, func(g *game.Game, me game.PlayerID) error {
				return g.Hold(me)
			})
		})
		r.Post("/games/{id}/score", s.handleScore)
		r.Post("/games/{id}/resign", func(w http.ResponseWriter, r *http.Request) {
			s.move(w, r, true, func(g *game.Game, me game.PlayerID) error {
				if err := g.Resign(me); err != nil {
					return err
				}
				g.CheckGameEnd()
				return nil
			})
		})
		r.Post("/games/{id}/quit", func(w http.ResponseWriter, r *http.Request) {
			s.move(w, r, true, func(g *game.Game, me game.PlayerID) error {
				if err := g.Quit(me); err != nil {
					return err
				}
				g.CheckGameEnd()
				return nil
			})
		})
	})
}

// handleNewGame quits the caller's unfinished games, then creates a new game
// with the caller seated.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	// An empty body means defaults.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	me := game.PlayerID(currentUser(r).ID)

	if err := s.leaveUnfinished(r.Context(), me); err != nil {
		log.Error().Err(err).Str("user_id", string(me)).Msg("leave unfinished games")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	g := game.New(nil)
	_ = g.AddPlayer(me) // a new game always has room
	if req.Start {
		_ = g.Start()
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	log.Info().Str("game_id", g.ID).Str("user_id", string(me)).Msg("game created")
	writeJSON(w, http.StatusCreated, g.View())
}

// leaveUnfinished quits every game me is seated at that has not ended yet.
func (s *Server) leaveUnfinished(ctx context.Context, me game.PlayerID) error {
	games, err := s.store.ListUnfinished(ctx, me)
	if err != nil {
		return err
	}
	for _, listed := range games {
		if err := s.leave(ctx, listed.ID, me); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) leave(ctx context.Context, id string, me game.PlayerID) error {
	unlock := s.locks.lock(id)
	defer unlock()
	g, err := s.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if g.Ended() || !g.HasPlayer(me) {
		return nil
	}
	if err := g.Quit(me); err != nil {
		return err
	}
	g.CheckGameEnd()
	return s.commit(ctx, g, false)
}

// handleMyGames lists the caller's games, most recent first.
func (s *Server) handleMyGames(w http.ResponseWriter, r *http.Request) {
	me := game.PlayerID(currentUser(r).ID)
	games, err := s.store.ListByPlayer(r.Context(), me)
	if err != nil {
		log.Error().Err(err).Msg("list games")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	out := make([]game.View, 0, len(games))
	for _, listed := range games {
		v, err := s.view(r.Context(), listed.ID)
		if errors.Is(err, store.ErrNotFound) {
			continue // swept meanwhile
		}
		if err != nil {
			log.Error().Err(err).Msg("load game")
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
		out = append(out, v)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	v, err := s.view(r.Context(), id)
	if err != nil {
		writeStoreError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// view renders a game under its lock.
func (s *Server) view(ctx context.Context, id string) (game.View, error) {
	unlock := s.locks.lock(id)
	defer unlock()
	g, err := s.store.Get(ctx, id)
	if err != nil {
		return game.View{}, err
	}
	return g.View(), nil
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var body scoreReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	var points int
	v, ok := s.apply(w, r, true, func(g *game.Game, me game.PlayerID) error {
		var err error
		points, err = g.EnterScore(me, body.Category)
		return err
	})
	if ok {
		writeJSON(w, http.StatusOK, scoreRes{Points: points, Game: v})
	}
}

func (s *Server) handleMyResults(w http.ResponseWriter, r *http.Request) {
	rows, err := s.results.ForUser(r.Context(), currentUser(r).ID, 0)
	if err != nil {
		log.Error().Err(err).Msg("results")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if rows == nil {
		rows = []results.Result{}
	}
	writeJSON(w, http.StatusOK, rows)
}

// move applies fn and responds with the resulting view.
func (s *Server) move(w http.ResponseWriter, r *http.Request, seated bool, fn func(*game.Game, game.PlayerID) error) {
	if v, ok := s.apply(w, r, seated, fn); ok {
		writeJSON(w, http.StatusOK, v)
	}
}

// apply loads the game named in the URL, runs fn for the caller under the
// game's lock and persists the result. When seated is set the caller must
// already be a player. On failure it writes the error response and returns
// false.
func (s *Server) apply(w http.ResponseWriter, r *http.Request, seated bool, fn func(*game.Game, game.PlayerID) error) (game.View, bool) {
	id := chi.URLParam(r, "id")
	me := game.PlayerID(currentUser(r).ID)

	unlock := s.locks.lock(id)
	defer unlock()

	g, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, id, err)
		return game.View{}, false
	}
	if seated && !g.HasPlayer(me) {
		writeError(w, http.StatusForbidden, "not_in_game")
		return game.View{}, false
	}
	wasEnded := g.Ended()
	if err := fn(g, me); err != nil {
		writeGameError(w, err)
		return game.View{}, false
	}
	if err := s.commit(r.Context(), g, wasEnded); err != nil {
		log.Error().Err(err).Str("game_id", id).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return game.View{}, false
	}
	return g.View(), true
}

// commit saves g, records results if it just ended and pushes the new view
// to subscribers. The caller holds the game's lock.
func (s *Server) commit(ctx context.Context, g *game.Game, wasEnded bool) error {
	if err := s.store.Save(ctx, g); err != nil {
		return err
	}
	if !wasEnded && g.Ended() {
		// Best effort: a failed insert does not undo the move.
		if err := s.results.RecordGame(ctx, g, s.now()); err != nil {
			log.Warn().Err(err).Str("game_id", g.ID).Msg("record results")
		} else {
			log.Info().Str("game_id", g.ID).Strs("winners", playerIDs(g.Winners())).Msg("game ended")
		}
	}
	s.feed.publish(g.View())
	return nil
}

func playerIDs(ids []game.PlayerID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func writeStoreError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "game_not_found")
		return
	}
	log.Error().Err(err).Str("game_id", id).Msg("load game")
	writeError(w, http.StatusInternalServerError, "db_error")
}

// writeGameError maps engine errors to HTTP statuses.
func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrInvalidIndex):
		writeError(w, http.StatusBadRequest, "invalid_index")
	case errors.Is(err, game.ErrUnknownCategory):
		writeError(w, http.StatusBadRequest, "unknown_category")
	case errors.Is(err, game.ErrCategoryAlreadySet):
		writeError(w, http.StatusConflict, "category_already_set")
	case errors.Is(err, game.ErrInvalidStateTransition):
		writeError(w, http.StatusConflict, "invalid_state")
	case errors.Is(err, game.ErrPlayerExists):
		writeError(w, http.StatusConflict, "already_joined")
	case errors.Is(err, game.ErrGameFull):
		writeError(w, http.StatusConflict, "game_full")
	case errors.Is(err, game.ErrNoPlayers):
		writeError(w, http.StatusConflict, "no_players")
	case errors.Is(err, game.ErrNotActivePlayer):
		writeError(w, http.StatusForbidden, "not_your_turn")
	case errors.Is(err, game.ErrUnknownPlayer):
		writeError(w, http.StatusForbidden, "not_in_game")
	default:
		log.Error().Err(err).Msg("game move")
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}

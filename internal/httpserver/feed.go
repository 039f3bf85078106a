// internal/httpserver/feed.go
//
// Live game feed over WebSocket.
// Responsibilities:
//   - Upgrade GET /games/{id}/ws and send the current game view.
//   - Push a fresh view to every subscriber after each successful mutation.
//   - Drop subscribers whose socket closes or fails a write.
//
// Clients never send moves over the socket; all moves go through the JSON API.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/yams/internal/game"
	"github.com/robalobadob/yams/internal/store"
)

const feedWriteWait = 5 * time.Second

// feedEvent is the envelope pushed to subscribers.
type feedEvent struct {
	Type  string    `json:"type"`
	Event game.View `json:"event"`
}

type subscriber struct {
	user string
	conn *websocket.Conn
	mu   sync.Mutex // serializes writes on conn
}

func (sub *subscriber) send(data []byte) error {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	_ = sub.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
	return sub.conn.WriteMessage(websocket.TextMessage, data)
}

// feed fans game views out to WebSocket subscribers, keyed by game ID.
type feed struct {
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	subs     map[string]map[*subscriber]struct{}
}

func newFeed(origin string) *feed {
	return &feed{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				o := r.Header.Get("Origin")
				return o == "" || o == origin
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		subs: make(map[string]map[*subscriber]struct{}),
	}
}

func (f *feed) subscribe(gameID string, sub *subscriber) {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.subs[gameID]
	if !ok {
		set = make(map[*subscriber]struct{})
		f.subs[gameID] = set
	}
	set[sub] = struct{}{}
}

func (f *feed) unsubscribe(gameID string, sub *subscriber) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if set, ok := f.subs[gameID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(f.subs, gameID)
		}
	}
}

// count reports the number of subscribers for a game.
func (f *feed) count(gameID string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs[gameID])
}

// publish sends v to every subscriber of its game.
func (f *feed) publish(v game.View) {
	data, err := json.Marshal(feedEvent{Type: "state", Event: v})
	if err != nil {
		log.Warn().Err(err).Str("game_id", v.ID).Msg("encode feed event")
		return
	}
	f.mu.RLock()
	subs := make([]*subscriber, 0, len(f.subs[v.ID]))
	for sub := range f.subs[v.ID] {
		subs = append(subs, sub)
	}
	f.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.send(data); err != nil {
			log.Warn().
				Err(err).
				Str("user_id", sub.user).
				Str("game_id", v.ID).
				Msg("Failed to push game state")
			_ = sub.conn.Close()
		}
	}
}

// closeAll closes every open socket. Read loops then unsubscribe themselves.
func (f *feed) closeAll() {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, set := range f.subs {
		for sub := range set {
			sub.mu.Lock()
			_ = sub.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(time.Second))
			sub.mu.Unlock()
			_ = sub.conn.Close()
		}
	}
}

// handleFeed upgrades the request and streams the game's state until the
// client disconnects. Any signed-in user may watch.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	u := currentUser(r)

	unlock := s.locks.lock(id)
	g, err := s.store.Get(r.Context(), id)
	var v game.View
	if err == nil {
		v = g.View()
	}
	unlock()
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "game_not_found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("game_id", id).Msg("load game")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	conn, err := s.feed.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		log.Warn().Err(err).Str("game_id", id).Msg("WebSocket upgrade failed")
		return
	}
	sub := &subscriber{user: u.ID, conn: conn}
	s.feed.subscribe(id, sub)
	log.Info().Str("user_id", u.ID).Str("game_id", id).Msg("WebSocket connected")

	defer func() {
		s.feed.unsubscribe(id, sub)
		_ = conn.Close()
		log.Info().Str("user_id", u.ID).Str("game_id", id).Msg("WebSocket disconnected")
	}()

	if data, err := json.Marshal(feedEvent{Type: "state", Event: v}); err == nil {
		if err := sub.send(data); err != nil {
			return
		}
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("user_id", u.ID).Str("game_id", id).Msg("WebSocket unexpected close error")
			}
			return
		}
	}
}

package httpserver

import "sync"

// gameLocks hands out one mutex per game ID. Entries are reference counted
// and dropped once no request holds or waits for them.
type gameLocks struct {
	mu    sync.Mutex
	locks map[string]*gameLock
}

type gameLock struct {
	mu   sync.Mutex
	refs int
}

func newGameLocks() *gameLocks {
	return &gameLocks{locks: make(map[string]*gameLock)}
}

// lock blocks until the caller owns game id and returns the release func.
func (l *gameLocks) lock(id string) (unlock func()) {
	l.mu.Lock()
	gl, ok := l.locks[id]
	if !ok {
		gl = &gameLock{}
		l.locks[id] = gl
	}
	gl.refs++
	l.mu.Unlock()

	gl.mu.Lock()
	return func() {
		gl.mu.Unlock()
		l.mu.Lock()
		gl.refs--
		if gl.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

// size reports how many games currently have a lock entry.
func (l *gameLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

package httpserver

import (
	"context"
	"sync"

	"github.com/robalobadob/numerix/apps/go-server/internal/game"
)

// active is a player's current session and the cancel func of its countdown.
type active struct {
	sess   *game.Session
	cancel context.CancelFunc
}

// sessionTable holds at most one active session per player.
type sessionTable struct {
	mu sync.Mutex
	m  map[string]*active
}

func newSessionTable() *sessionTable {
	return &sessionTable{m: make(map[string]*active)}
}

// put installs sess for player and abandons the previous one.
func (t *sessionTable) put(player string, sess *game.Session, cancel context.CancelFunc) {
	t.mu.Lock()
	prev := t.m[player]
	t.m[player] = &active{sess: sess, cancel: cancel}
	t.mu.Unlock()
	if prev != nil && prev.cancel != nil {
		prev.cancel()
	}
}

// get returns the player's session if its ID matches id.
func (t *sessionTable) get(player, id string) (*game.Session, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	a, ok := t.m[player]
	if !ok || a.sess.ID != id {
		return nil, false
	}
	return a.sess, true
}

// drop abandons the player's session.
func (t *sessionTable) drop(player string) {
	t.mu.Lock()
	a := t.m[player]
	delete(t.m, player)
	t.mu.Unlock()
	if a != nil && a.cancel != nil {
		a.cancel()
	}
}

func (t *sessionTable) closeAll() {
	t.mu.Lock()
	all := t.m
	t.m = make(map[string]*active)
	t.mu.Unlock()
	for _, a := range all {
		if a.cancel != nil {
			a.cancel()
		}
	}
}

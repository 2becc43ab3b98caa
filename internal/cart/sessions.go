package cart

import (
	"sync"

	"github.com/google/uuid"
)

// SessionStore keeps one cart per browser session, keyed by an opaque
// session identifier. Carts live only in memory: a successful checkout or
// an explicit clear empties them, and a restart forgets them, matching the
// ephemeral contract of the cart. Access to the map is guarded because
// different sessions are served by concurrent request handlers; each cart
// itself stays single-session.
type SessionStore struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewSessionStore() *SessionStore {
	return &SessionStore{carts: make(map[string]*Cart)}
}

// NewSessionID mints an opaque cart session identifier.
func NewSessionID() string { return uuid.NewString() }

// Get returns the cart for the session, creating it on first use.
func (s *SessionStore) Get(sessionID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[sessionID]
	if !ok {
		c = New()
		s.carts[sessionID] = c
	}
	return c
}

// Drop forgets the session's cart entirely.
func (s *SessionStore) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}

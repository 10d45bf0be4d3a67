package cart

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/qrmenu-backend/internal/platform/logging"
)

// Customer holds the contact details typed in at checkout.
type Customer struct {
	Name    string `json:"name"`
	Number  string `json:"number"`
	Address string `json:"address"`
}

// Session is one visitor's cart and customer details for one shop. Carts
// live in memory only and are lost on restart.
type Session struct {
	mu       sync.Mutex
	cart     Cart
	customer Customer
	touched  time.Time
}

// Do runs fn with exclusive access to the cart and customer details.
func (s *Session) Do(fn func(c *Cart, cu *Customer)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = time.Now()
	fn(&s.cart, &s.customer)
}

// View is a point-in-time copy of a session.
type View struct {
	Items    []Item   `json:"items"`
	Count    int      `json:"count"`
	Total    float64  `json:"total"`
	Customer Customer `json:"customer"`
}

func (s *Session) View() View {
	var v View
	s.Do(func(c *Cart, cu *Customer) {
		v = View{Items: c.Items(), Count: c.Count(), Total: c.Total(), Customer: *cu}
	})
	return v
}

type sessionKey struct {
	id     string
	shopID uuid.UUID
}

// Sessions owns every live session, keyed by visitor and shop.
type Sessions struct {
	mu       sync.Mutex
	sessions map[sessionKey]*Session
}

func NewSessions() *Sessions {
	return &Sessions{sessions: make(map[sessionKey]*Session)}
}

// Get returns the session for the visitor at shopID, creating it if needed.
func (s *Sessions) Get(sessionID string, shopID uuid.UUID) *Session {
	key := sessionKey{id: strings.TrimSpace(sessionID), shopID: shopID}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[key]
	if !ok {
		sess = &Session{touched: time.Now()}
		s.sessions[key] = sess
	}
	return sess
}

// Prune drops sessions untouched for longer than idle and returns how many
// were removed.
func (s *Sessions) Prune(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, sess := range s.sessions {
		sess.mu.Lock()
		stale := sess.touched.Before(cutoff)
		sess.mu.Unlock()
		if stale {
			delete(s.sessions, key)
			removed++
		}
	}
	return removed
}

// Len is the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// PruneLoop calls Prune every interval until ctx is done.
func (s *Sessions) PruneLoop(ctx context.Context, interval, idle time.Duration) {
	log := logging.For("cart")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Prune(idle); n > 0 {
				log.Debug().Int("removed", n).Int("live", s.Len()).Msg("pruned idle carts")
			}
		}
	}
}

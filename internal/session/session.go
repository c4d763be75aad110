// Package session holds the per-customer state of a conversation with the
// interpreter and a registry of live sessions.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/HienLe2004/menuq/internal/order"
	"github.com/google/uuid"
)

// Session is the state of one customer's conversation. Its cart is only ever
// touched while the session lock is held.
type Session struct {
	ID      uuid.UUID
	Created time.Time

	mu   sync.Mutex
	cart *order.Cart
}

// New creates a Session with a fresh ID and an empty cart.
func New() (*Session, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("could not generate ID: %w", err)
	}

	return &Session{
		ID:      id,
		Created: time.Now(),
		cart:    order.NewCart(),
	}, nil
}

// Do calls fn with the session cart while holding the session lock. The cart
// must not be retained after fn returns.
func (s *Session) Do(fn func(cart *order.Cart)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(s.cart)
}

// Reset empties the cart.
func (s *Session) Reset() {
	s.Do(func(cart *order.Cart) {
		cart.Clear()
	})
}

// Registry maps session IDs to live sessions. It is safe for concurrent use.
// The zero value is ready to use.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// Create makes a new session and registers it.
func (r *Registry) Create() (*Session, error) {
	s, err := New()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sessions == nil {
		r.sessions = map[uuid.UUID]*Session{}
	}
	r.sessions[s.ID] = s
	return s, nil
}

// Get returns the session with the given ID. It returns false if there is no
// such session.
func (r *Registry) Get(id uuid.UUID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	return s, ok
}

// Delete removes the session with the given ID. It returns false if there was
// no such session.
func (r *Registry) Delete(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}

// Resume returns the live session with the given ID, registering a new one
// with an empty cart if there is none. It is for sessions whose ID was handed
// out earlier, such as by a server process that has since exited; their carts
// are gone and are not brought back. The second return value is true if the
// session was created.
func (r *Registry) Resume(id uuid.UUID, created time.Time) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		return s, false
	}

	s := &Session{
		ID:      id,
		Created: created,
		cart:    order.NewCart(),
	}

	if r.sessions == nil {
		r.sessions = map[uuid.UUID]*Session{}
	}
	r.sessions[id] = s
	return s, true
}

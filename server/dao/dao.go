// Package dao provides data access objects for use in the MenuQ server.
package dao

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store holds all the repositories.
type Store interface {
	Sessions() SessionRepository
	Utterances() UtteranceRepository
	Close() error
}

// Session is the stored record of a customer session. The cart itself is not
// stored here; see Utterance.Cart.
type Session struct {
	ID         uuid.UUID
	Strategy   string
	Created    time.Time
	LastActive time.Time
}

// CartLine is one line of a cart as it was after an utterance was processed.
type CartLine struct {
	Item       string
	Quantity   int
	Attributes []string
	Time       string
	Price      int
}

// Utterance is one processed line of a session transcript along with the
// output of every stage and the state of the cart after it was executed.
type Utterance struct {
	ID          uuid.UUID
	SessionID   uuid.UUID
	Input       string
	Structure   string
	Semantics   string
	DBOperation string
	LogicalForm string
	Answer      string
	Cart        []CartLine
	Created     time.Time
}

type SessionRepository interface {

	// Create creates a new Session. If s.ID is the zero UUID, a new ID is
	// generated; otherwise the given ID is used. Created and LastActive are
	// set automatically.
	Create(ctx context.Context, s Session) (Session, error)
	GetByID(ctx context.Context, id uuid.UUID) (Session, error)
	GetAll(ctx context.Context) ([]Session, error)
	Update(ctx context.Context, id uuid.UUID, s Session) (Session, error)
	Delete(ctx context.Context, id uuid.UUID) (Session, error)
	Close() error
}

type UtteranceRepository interface {

	// Create creates a new Utterance. The ID and Created fields are set
	// automatically.
	Create(ctx context.Context, u Utterance) (Utterance, error)
	GetByID(ctx context.Context, id uuid.UUID) (Utterance, error)

	// GetAllBySession returns the transcript of a session, oldest first.
	GetAllBySession(ctx context.Context, sessionID uuid.UUID) ([]Utterance, error)

	// DeleteAllBySession removes the transcript of a session and returns the
	// removed utterances.
	DeleteAllBySession(ctx context.Context, sessionID uuid.UUID) ([]Utterance, error)
	Close() error
}

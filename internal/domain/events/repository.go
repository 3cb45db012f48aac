package events

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("event not found")
	ErrFull          = errors.New("event has reached maximum capacity of participants")
	ErrUserNotFound  = errors.New("user not found")
	ErrNotRegistered = errors.New("user is not registered for event")
)

// Participant is a reference to a user on an event's participant set. The
// event does not own the user lifecycle, only the membership.
type Participant struct {
	ID       string
	Username string
}

type Event struct {
	ID              string
	Name            string
	Date            time.Time
	Location        string
	MaxParticipants int
	Participants    []Participant
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasParticipant reports membership by user id. Participants form a set: one
// entry per user regardless of how often registration is attempted.
func (e *Event) HasParticipant(userID string) bool {
	for _, p := range e.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}

// IsFull reports whether the participant set has reached capacity.
func (e *Event) IsFull() bool {
	return len(e.Participants) >= e.MaxParticipants
}

type CreateParams struct {
	ID              string
	Name            string
	Date            time.Time
	Location        string
	MaxParticipants int
}

// UpdateParams replaces event fields wholesale; the participant set is left
// untouched.
type UpdateParams struct {
	Name            string
	Date            time.Time
	Location        string
	MaxParticipants int
}

// Repository persists events and their participant sets. GetForUpdate must
// return the event with the row held for the duration of the surrounding
// WithTx, so that the capacity invariant survives concurrent registrations.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	GetForUpdate(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context) ([]Event, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Event, error)
	Delete(ctx context.Context, id string) error
	AddParticipant(ctx context.Context, eventID, userID string) error
	RemoveParticipant(ctx context.Context, eventID, userID string) error

	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
}

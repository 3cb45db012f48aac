package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/evento-labs/server/internal/domain/ids"
	"github.com/evento-labs/server/internal/domain/users"
)

// UserDirectory resolves user references when mutating participant sets.
// users.Repository satisfies it.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*users.User, error)
}

type Service struct {
	repo  Repository
	users UserDirectory
}

func NewService(repo Repository, users UserDirectory) *Service {
	return &Service{repo: repo, users: users}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Event, error) {
	if params.ID == "" {
		id, err := ids.NewEventID()
		if err != nil {
			return nil, fmt.Errorf("mint event id: %w", err)
		}
		params.ID = id
	}
	return s.repo.Create(ctx, params)
}

func (s *Service) GetByID(ctx context.Context, id string) (*Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Event, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*Event, error) {
	return s.repo.Update(ctx, id, params)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Register adds a user to an event's participant set. The capacity check runs
// against the row held for update and happens before the user lookup, so a
// full event reports ErrFull even for a nonexistent user. Adding an existing
// participant is a no-op.
func (s *Service) Register(ctx context.Context, eventID, userID string) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		event, err := repo.GetForUpdate(ctx, eventID)
		if err != nil {
			return err
		}
		if event.IsFull() {
			return ErrFull
		}

		if err := s.lookupUser(ctx, userID); err != nil {
			return err
		}

		if event.HasParticipant(userID) {
			return nil
		}
		return repo.AddParticipant(ctx, event.ID, userID)
	})
}

// Unregister removes a user from an event's participant set.
func (s *Service) Unregister(ctx context.Context, eventID, userID string) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		event, err := repo.GetForUpdate(ctx, eventID)
		if err != nil {
			return err
		}

		if err := s.lookupUser(ctx, userID); err != nil {
			return err
		}

		if !event.HasParticipant(userID) {
			return ErrNotRegistered
		}
		return repo.RemoveParticipant(ctx, event.ID, userID)
	})
}

func (s *Service) lookupUser(ctx context.Context, userID string) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user %s: %w", userID, err)
	}
	return nil
}

// Package memory implements storage.Repository with in-process maps. It backs
// unit tests and local development; transactional semantics are provided by
// serializing WithTx blocks behind a single mutex.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/evento-labs/server/internal/domain/events"
	"github.com/evento-labs/server/internal/domain/users"
	"github.com/evento-labs/server/internal/storage"
)

type Repository struct {
	events *EventRepository
	users  *UserRepository
}

func NewRepository() *Repository {
	shared := &state{
		users:        make(map[string]users.User),
		usernames:    make(map[string]string),
		events:       make(map[string]events.Event),
		participants: make(map[string]map[string]time.Time),
	}
	return &Repository{
		events: &EventRepository{state: shared},
		users:  &UserRepository{state: shared},
	}
}

func (r *Repository) Events() events.Repository { return r.events }

func (r *Repository) Users() users.Repository { return r.users }

func (r *Repository) Ping(ctx context.Context) error { return nil }

var _ storage.Repository = (*Repository)(nil)

// state is shared between the two repositories so participant references stay
// consistent with the user table.
type state struct {
	mu sync.RWMutex
	// txMu serializes WithTx blocks: the memory store's stand-in for the
	// per-event row lock the postgres store takes.
	txMu sync.Mutex

	users        map[string]users.User
	usernames    map[string]string // username -> id
	events       map[string]events.Event
	participants map[string]map[string]time.Time // event id -> user id -> registered at
}

type UserRepository struct {
	state *state
}

func (r *UserRepository) Create(ctx context.Context, params users.CreateParams) (*users.User, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	if _, exists := r.state.usernames[params.Username]; exists {
		return nil, users.ErrUsernameTaken
	}

	user := users.User{
		ID:           params.ID,
		Username:     params.Username,
		PasswordHash: params.PasswordHash,
		Role:         params.Role,
		CreatedAt:    time.Now().UTC(),
	}
	r.state.users[user.ID] = user
	r.state.usernames[user.Username] = user.ID

	copied := user
	return &copied, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*users.User, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	user, ok := r.state.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	copied := user
	return &copied, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	id, ok := r.state.usernames[username]
	if !ok {
		return nil, users.ErrNotFound
	}
	user := r.state.users[id]
	copied := user
	return &copied, nil
}

func (r *UserRepository) List(ctx context.Context) ([]users.User, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	list := make([]users.User, 0, len(r.state.users))
	for _, user := range r.state.users {
		list = append(list, user)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Username < list[j].Username })
	return list, nil
}

type EventRepository struct {
	state *state
}

func (r *EventRepository) Create(ctx context.Context, params events.CreateParams) (*events.Event, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	now := time.Now().UTC()
	event := events.Event{
		ID:              params.ID,
		Name:            params.Name,
		Date:            params.Date,
		Location:        params.Location,
		MaxParticipants: params.MaxParticipants,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	r.state.events[event.ID] = event
	r.state.participants[event.ID] = make(map[string]time.Time)

	return r.loadLocked(event.ID)
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*events.Event, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()
	return r.loadLocked(id)
}

// GetForUpdate matches GetByID here; isolation comes from the WithTx mutex.
func (r *EventRepository) GetForUpdate(ctx context.Context, id string) (*events.Event, error) {
	return r.GetByID(ctx, id)
}

func (r *EventRepository) List(ctx context.Context) ([]events.Event, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	list := make([]events.Event, 0, len(r.state.events))
	for id := range r.state.events {
		event, err := r.loadLocked(id)
		if err != nil {
			return nil, err
		}
		list = append(list, *event)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *EventRepository) Update(ctx context.Context, id string, params events.UpdateParams) (*events.Event, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	event, ok := r.state.events[id]
	if !ok {
		return nil, events.ErrNotFound
	}

	event.Name = params.Name
	event.Date = params.Date
	event.Location = params.Location
	event.MaxParticipants = params.MaxParticipants
	event.UpdatedAt = time.Now().UTC()
	r.state.events[id] = event

	return r.loadLocked(id)
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	if _, ok := r.state.events[id]; !ok {
		return events.ErrNotFound
	}
	delete(r.state.events, id)
	delete(r.state.participants, id)
	return nil
}

func (r *EventRepository) AddParticipant(ctx context.Context, eventID, userID string) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	members, ok := r.state.participants[eventID]
	if !ok {
		return events.ErrNotFound
	}
	if _, exists := members[userID]; !exists {
		members[userID] = time.Now().UTC()
	}
	return nil
}

func (r *EventRepository) RemoveParticipant(ctx context.Context, eventID, userID string) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	members, ok := r.state.participants[eventID]
	if !ok {
		return events.ErrNotFound
	}
	if _, exists := members[userID]; !exists {
		return events.ErrNotRegistered
	}
	delete(members, userID)
	return nil
}

func (r *EventRepository) WithTx(ctx context.Context, fn func(context.Context, events.Repository) error) error {
	r.state.txMu.Lock()
	defer r.state.txMu.Unlock()
	return fn(ctx, r)
}

// loadLocked assembles an event with its participant set; callers hold mu.
func (r *EventRepository) loadLocked(id string) (*events.Event, error) {
	event, ok := r.state.events[id]
	if !ok {
		return nil, events.ErrNotFound
	}

	members := r.state.participants[id]
	participants := make([]events.Participant, 0, len(members))
	for userID := range members {
		username := ""
		if user, ok := r.state.users[userID]; ok {
			username = user.Username
		}
		participants = append(participants, events.Participant{ID: userID, Username: username})
	}
	sort.Slice(participants, func(i, j int) bool {
		return members[participants[i].ID].Before(members[participants[j].ID])
	})
	event.Participants = participants

	copied := event
	return &copied, nil
}

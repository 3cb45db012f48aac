package events_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/evento-labs/server/internal/domain/events"
	"github.com/evento-labs/server/internal/domain/users"
	"github.com/evento-labs/server/internal/storage/memory"
)

func newFixture(t *testing.T) (*events.Service, *users.Service) {
	t.Helper()
	repo := memory.NewRepository()
	userService := users.NewService(repo.Users())
	eventService := events.NewService(repo.Events(), repo.Users())
	return eventService, userService
}

func seedUser(t *testing.T, svc *users.Service, username string) *users.User {
	t.Helper()
	user, err := svc.Register(context.Background(), users.RegisterParams{
		Username: username,
		Password: "correct horse battery staple",
		Role:     "USER",
	})
	require.NoError(t, err)
	return user
}

func seedEvent(t *testing.T, svc *events.Service, name string, capacity int) *events.Event {
	t.Helper()
	event, err := svc.Create(context.Background(), events.CreateParams{
		Name:            name,
		Date:            time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC),
		Location:        "Lisbon",
		MaxParticipants: capacity,
	})
	require.NoError(t, err)
	return event
}

func TestCreateMintsULID(t *testing.T) {
	eventService, _ := newFixture(t)

	event := seedEvent(t, eventService, "GopherCon", 100)
	require.Len(t, event.ID, 26)
	require.Equal(t, "GopherCon", event.Name)
	require.Empty(t, event.Participants)
}

func TestGetByIDNotFound(t *testing.T) {
	eventService, _ := newFixture(t)

	_, err := eventService.GetByID(context.Background(), "01HQZX3Y4K6F7G8H9J0K1M2N3P")
	require.ErrorIs(t, err, events.ErrNotFound)
}

func TestUpdateReplacesFieldsWholesale(t *testing.T) {
	eventService, userService := newFixture(t)

	event := seedEvent(t, eventService, "GopherCon", 2)
	user := seedUser(t, userService, "alice")
	require.NoError(t, eventService.Register(context.Background(), event.ID, user.ID))

	updated, err := eventService.Update(context.Background(), event.ID, events.UpdateParams{
		Name:            "GopherCon EU",
		Date:            time.Date(2027, 1, 5, 0, 0, 0, 0, time.UTC),
		Location:        "Berlin",
		MaxParticipants: 5,
	})
	require.NoError(t, err)
	require.Equal(t, "GopherCon EU", updated.Name)
	require.Equal(t, "Berlin", updated.Location)
	require.Equal(t, 5, updated.MaxParticipants)
	// participant set survives field updates
	require.Len(t, updated.Participants, 1)
}

func TestUpdateNotFound(t *testing.T) {
	eventService, _ := newFixture(t)

	_, err := eventService.Update(context.Background(), "01HQZX3Y4K6F7G8H9J0K1M2N3P", events.UpdateParams{
		Name: "ghost", Date: time.Now(), Location: "nowhere", MaxParticipants: 1,
	})
	require.ErrorIs(t, err, events.ErrNotFound)
}

func TestDelete(t *testing.T) {
	eventService, _ := newFixture(t)

	event := seedEvent(t, eventService, "GopherCon", 10)
	require.NoError(t, eventService.Delete(context.Background(), event.ID))

	_, err := eventService.GetByID(context.Background(), event.ID)
	require.ErrorIs(t, err, events.ErrNotFound)

	require.ErrorIs(t, eventService.Delete(context.Background(), event.ID), events.ErrNotFound)
}

func TestRegisterUnknownEvent(t *testing.T) {
	eventService, userService := newFixture(t)
	user := seedUser(t, userService, "alice")

	err := eventService.Register(context.Background(), "01HQZX3Y4K6F7G8H9J0K1M2N3P", user.ID)
	require.ErrorIs(t, err, events.ErrNotFound)
}

func TestRegisterUnknownUser(t *testing.T) {
	eventService, _ := newFixture(t)
	event := seedEvent(t, eventService, "GopherCon", 10)

	err := eventService.Register(context.Background(), event.ID, "no-such-user")
	require.ErrorIs(t, err, events.ErrUserNotFound)
}

func TestRegisterFullEventBeforeUserLookup(t *testing.T) {
	eventService, userService := newFixture(t)
	event := seedEvent(t, eventService, "Tiny meetup", 1)
	alice := seedUser(t, userService, "alice")
	require.NoError(t, eventService.Register(context.Background(), event.ID, alice.ID))

	// capacity is checked before the user lookup: a full event reports full
	// even for a userId that does not exist
	err := eventService.Register(context.Background(), event.ID, "no-such-user")
	require.ErrorIs(t, err, events.ErrFull)
}

func TestRegisterIsIdempotent(t *testing.T) {
	eventService, userService := newFixture(t)
	event := seedEvent(t, eventService, "GopherCon", 5)
	alice := seedUser(t, userService, "alice")

	require.NoError(t, eventService.Register(context.Background(), event.ID, alice.ID))
	require.NoError(t, eventService.Register(context.Background(), event.ID, alice.ID))

	got, err := eventService.GetByID(context.Background(), event.ID)
	require.NoError(t, err)
	require.Len(t, got.Participants, 1)
	require.Equal(t, alice.ID, got.Participants[0].ID)
	require.Equal(t, "alice", got.Participants[0].Username)
}

func TestUnregisterNotRegistered(t *testing.T) {
	eventService, userService := newFixture(t)
	event := seedEvent(t, eventService, "GopherCon", 5)
	alice := seedUser(t, userService, "alice")
	bob := seedUser(t, userService, "bob")
	require.NoError(t, eventService.Register(context.Background(), event.ID, alice.ID))

	err := eventService.Unregister(context.Background(), event.ID, bob.ID)
	require.ErrorIs(t, err, events.ErrNotRegistered)

	// participant set unchanged
	got, err := eventService.GetByID(context.Background(), event.ID)
	require.NoError(t, err)
	require.Len(t, got.Participants, 1)
}

func TestUnregisterUnknownUser(t *testing.T) {
	eventService, _ := newFixture(t)
	event := seedEvent(t, eventService, "GopherCon", 5)

	err := eventService.Unregister(context.Background(), event.ID, "no-such-user")
	require.ErrorIs(t, err, events.ErrUserNotFound)
}

func TestRegisterUnregisterRoundTrip(t *testing.T) {
	eventService, userService := newFixture(t)
	event := seedEvent(t, eventService, "GopherCon", 5)
	alice := seedUser(t, userService, "alice")

	require.NoError(t, eventService.Register(context.Background(), event.ID, alice.ID))
	require.NoError(t, eventService.Unregister(context.Background(), event.ID, alice.ID))

	got, err := eventService.GetByID(context.Background(), event.ID)
	require.NoError(t, err)
	require.Empty(t, got.Participants)
}

func TestCapacityScenario(t *testing.T) {
	// maxParticipants=1: register A ok, register B full, unregister A,
	// register B ok
	eventService, userService := newFixture(t)
	event := seedEvent(t, eventService, "Last slot", 1)
	alice := seedUser(t, userService, "alice")
	bob := seedUser(t, userService, "bob")

	ctx := context.Background()
	require.NoError(t, eventService.Register(ctx, event.ID, alice.ID))

	err := eventService.Register(ctx, event.ID, bob.ID)
	require.ErrorIs(t, err, events.ErrFull)

	require.NoError(t, eventService.Unregister(ctx, event.ID, alice.ID))
	require.NoError(t, eventService.Register(ctx, event.ID, bob.ID))

	got, err := eventService.GetByID(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, got.Participants, 1)
	require.Equal(t, bob.ID, got.Participants[0].ID)
}

func TestConcurrentRegistrationHoldsCapacityInvariant(t *testing.T) {
	eventService, userService := newFixture(t)
	const capacity = 5
	event := seedEvent(t, eventService, "Oversubscribed", capacity)

	var contenders []*users.User
	for _, name := range []string{"u1", "u2", "u3", "u4", "u5", "u6", "u7", "u8", "u9", "u10", "u11", "u12"} {
		contenders = append(contenders, seedUser(t, userService, name))
	}

	errs := make(chan error, len(contenders))
	var wg sync.WaitGroup
	for _, user := range contenders {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			errs <- eventService.Register(context.Background(), event.ID, userID)
		}(user.ID)
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, events.ErrFull)
	}
	require.Equal(t, capacity, succeeded)

	got, err := eventService.GetByID(context.Background(), event.ID)
	require.NoError(t, err)
	require.Len(t, got.Participants, capacity)
}

func TestSeedUserPasswordIsHashed(t *testing.T) {
	_, userService := newFixture(t)
	user := seedUser(t, userService, "alice")
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct horse battery staple")))
}

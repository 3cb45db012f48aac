package users_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/evento-labs/server/internal/auth"
	"github.com/evento-labs/server/internal/domain/users"
	"github.com/evento-labs/server/internal/storage/memory"
)

func newService(t *testing.T) *users.Service {
	t.Helper()
	return users.NewService(memory.NewRepository().Users())
}

func TestRegister(t *testing.T) {
	svc := newService(t)

	user, err := svc.Register(context.Background(), users.RegisterParams{
		Username: "alice",
		Password: "s3cret-passw0rd",
		Role:     "ADMIN",
	})
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "alice", user.Username)
	require.Equal(t, auth.RoleAdmin, user.Role)
	require.NotEqual(t, "s3cret-passw0rd", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-passw0rd")))
}

func TestRegisterInvalidRole(t *testing.T) {
	svc := newService(t)

	_, err := svc.Register(context.Background(), users.RegisterParams{
		Username: "alice",
		Password: "s3cret-passw0rd",
		Role:     "SUPERUSER",
	})
	require.ErrorIs(t, err, users.ErrInvalidRole)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newService(t)

	_, err := svc.Register(context.Background(), users.RegisterParams{
		Username: "alice", Password: "s3cret-passw0rd", Role: "USER",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), users.RegisterParams{
		Username: "alice", Password: "another-passw0rd", Role: "ADMIN",
	})
	require.ErrorIs(t, err, users.ErrUsernameTaken)
}

func TestGetByID(t *testing.T) {
	svc := newService(t)

	created, err := svc.Register(context.Background(), users.RegisterParams{
		Username: "alice", Password: "s3cret-passw0rd", Role: "USER",
	})
	require.NoError(t, err)

	found, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, created.Username, found.Username)

	_, err = svc.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, users.ErrNotFound)
}

func TestGetByUsername(t *testing.T) {
	svc := newService(t)

	_, err := svc.GetByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, users.ErrNotFound)

	_, err = svc.Register(context.Background(), users.RegisterParams{
		Username: "alice", Password: "s3cret-passw0rd", Role: "USER",
	})
	require.NoError(t, err)

	found, err := svc.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, "alice", found.Username)
}

func TestList(t *testing.T) {
	svc := newService(t)
	for _, name := range []string{"carol", "alice", "bob"} {
		_, err := svc.Register(context.Background(), users.RegisterParams{
			Username: name, Password: "s3cret-passw0rd", Role: "USER",
		})
		require.NoError(t, err)
	}

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "alice", list[0].Username)
	require.Equal(t, "bob", list[1].Username)
	require.Equal(t, "carol", list[2].Username)
}

func TestAuthenticate(t *testing.T) {
	svc := newService(t)
	_, err := svc.Register(context.Background(), users.RegisterParams{
		Username: "alice", Password: "s3cret-passw0rd", Role: "USER",
	})
	require.NoError(t, err)

	user, err := svc.Authenticate(context.Background(), "alice", "s3cret-passw0rd")
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)

	_, err = svc.Authenticate(context.Background(), "alice", "wrong-password")
	require.ErrorIs(t, err, users.ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "ghost", "s3cret-passw0rd")
	require.ErrorIs(t, err, users.ErrInvalidCredentials)
}

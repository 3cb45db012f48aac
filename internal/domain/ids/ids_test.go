package ids

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewEventID(t *testing.T) {
	id, err := NewEventID()
	require.NoError(t, err)
	require.Len(t, id, 26)
	require.True(t, IsULID(id))
}

func TestNewEventIDUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id, err := NewEventID()
		require.NoError(t, err)
		_, dup := seen[id]
		require.False(t, dup, "duplicate ULID %s", id)
		seen[id] = struct{}{}
	}
}

func TestNewUserID(t *testing.T) {
	id := NewUserID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
}

func TestValidateULID(t *testing.T) {
	id, err := NewEventID()
	require.NoError(t, err)
	require.NoError(t, ValidateULID(id))
	require.NoError(t, ValidateULID("  "+id+" "))

	require.ErrorIs(t, ValidateULID("not-a-ulid"), ErrInvalidULID)
	require.ErrorIs(t, ValidateULID(""), ErrInvalidULID)
	require.ErrorIs(t, ValidateULID(NewUserID()), ErrInvalidULID)
}

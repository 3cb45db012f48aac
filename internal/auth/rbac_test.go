package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input string
		role  Role
		ok    bool
	}{
		{"ADMIN", RoleAdmin, true},
		{"USER", RoleUser, true},
		{"admin", RoleAdmin, true},
		{" user ", RoleUser, true},
		{"EDITOR", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		role, ok := ParseRole(tt.input)
		require.Equal(t, tt.ok, ok, "input %q", tt.input)
		require.Equal(t, tt.role, role, "input %q", tt.input)
	}
}

func TestJoinSplitAuthorities(t *testing.T) {
	joined := JoinAuthorities([]Role{RoleAdmin, RoleUser})
	require.Equal(t, "ADMIN USER", joined)

	roles := SplitAuthorities(joined)
	require.Equal(t, []Role{RoleAdmin, RoleUser}, roles)
}

func TestSplitAuthoritiesDropsUnknown(t *testing.T) {
	roles := SplitAuthorities("ADMIN ROLE_SUPER USER")
	require.Equal(t, []Role{RoleAdmin, RoleUser}, roles)
}

func TestHasAnyRole(t *testing.T) {
	require.True(t, HasAnyRole("ADMIN", RoleAdmin))
	require.True(t, HasAnyRole("ADMIN USER", RoleUser))
	require.True(t, HasAnyRole("USER", RoleAdmin, RoleUser))
	require.False(t, HasAnyRole("USER", RoleAdmin))
	require.False(t, HasAnyRole("", RoleAdmin, RoleUser))
	require.False(t, HasAnyRole("ADMIN"))
}

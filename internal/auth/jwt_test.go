package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestGenerateValidateRoundTrip(t *testing.T) {
	manager := NewTokenManager(testSecret, time.Hour)

	token, err := manager.Generate("alice", RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Subject)
	require.Equal(t, Issuer, claims.Issuer)
	require.Equal(t, "ADMIN", claims.Authorities)
}

func TestGenerateMultipleAuthorities(t *testing.T) {
	manager := NewTokenManager(testSecret, time.Hour)

	token, err := manager.Generate("bob", RoleAdmin, RoleUser)
	require.NoError(t, err)

	claims, err := manager.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "ADMIN USER", claims.Authorities)
	require.True(t, HasAnyRole(claims.Authorities, RoleUser))
}

func TestGenerateEmptySubject(t *testing.T) {
	manager := NewTokenManager(testSecret, time.Hour)

	_, err := manager.Generate("", RoleUser)
	require.ErrorIs(t, err, ErrTokenCreation)
}

func TestGenerateMissingSecret(t *testing.T) {
	manager := NewTokenManager("", time.Hour)

	_, err := manager.Generate("alice", RoleUser)
	require.ErrorIs(t, err, ErrTokenCreation)
}

func TestValidateExpiredToken(t *testing.T) {
	manager := NewTokenManager(testSecret, -time.Minute)

	token, err := manager.Generate("alice", RoleUser)
	require.NoError(t, err)

	_, err = manager.Validate(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateWrongSecret(t *testing.T) {
	issuing := NewTokenManager(testSecret, time.Hour)
	verifying := NewTokenManager("another-secret-another-secret-00", time.Hour)

	token, err := issuing.Generate("alice", RoleUser)
	require.NoError(t, err)

	_, err = verifying.Validate(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateWrongIssuer(t *testing.T) {
	manager := NewTokenManager(testSecret, time.Hour)
	foreign := &TokenManager{secret: []byte(testSecret), expiry: time.Hour, issuer: "someone-else"}

	token, err := foreign.Generate("alice", RoleUser)
	require.NoError(t, err)

	_, err = manager.Validate(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateMalformed(t *testing.T) {
	manager := NewTokenManager(testSecret, time.Hour)

	for _, token := range []string{"", "   ", "not-a-jwt", "a.b.c"} {
		_, err := manager.Validate(token)
		require.ErrorIs(t, err, ErrTokenInvalid, "token %q", token)
	}
}

func TestExtractSubject(t *testing.T) {
	manager := NewTokenManager(testSecret, time.Hour)

	token, err := manager.Generate("carol", RoleUser)
	require.NoError(t, err)

	subject, ok := manager.ExtractSubject(token)
	require.True(t, ok)
	require.Equal(t, "carol", subject)

	_, ok = manager.ExtractSubject("garbage")
	require.False(t, ok)
}

func TestTokenFromHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		token  string
		ok     bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", true},
		{"missing header", "", "", false},
		{"wrong scheme", "Basic abc", "", false},
		{"lowercase scheme", "bearer abc", "", false},
		{"prefix only", "Bearer ", "", false},
		{"padded token", "Bearer   abc  ", "abc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, ok := TokenFromHeader(tt.header)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.token, token)
		})
	}
}

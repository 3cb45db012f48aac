package auth

import "strings"

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

func ParseRole(value string) (Role, bool) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case string(RoleAdmin):
		return RoleAdmin, true
	case string(RoleUser):
		return RoleUser, true
	default:
		return "", false
	}
}

// JoinAuthorities renders roles as the space-joined authorities claim.
func JoinAuthorities(roles []Role) string {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, string(role))
	}
	return strings.Join(names, " ")
}

// SplitAuthorities parses an authorities claim back into roles, dropping
// anything unrecognized.
func SplitAuthorities(authorities string) []Role {
	fields := strings.Fields(authorities)
	roles := make([]Role, 0, len(fields))
	for _, field := range fields {
		if role, ok := ParseRole(field); ok {
			roles = append(roles, role)
		}
	}
	return roles
}

// HasAnyRole reports whether the authorities claim grants at least one of the
// allowed roles.
func HasAnyRole(authorities string, allowed ...Role) bool {
	if len(allowed) == 0 {
		return false
	}
	for _, held := range SplitAuthorities(authorities) {
		for _, candidate := range allowed {
			if held == candidate {
				return true
			}
		}
	}
	return false
}

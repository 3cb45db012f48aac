package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/evento-labs/server/internal/api/problem"
	"github.com/evento-labs/server/internal/auth"
	"github.com/evento-labs/server/internal/domain/users"
)

// UserDirectory resolves a token subject to a stored user. users.Service
// satisfies it.
type UserDirectory interface {
	GetByUsername(ctx context.Context, username string) (*users.User, error)
}

// Principal is the request-scoped identity populated by Authenticate.
type Principal struct {
	User        *users.User
	Authorities string
}

type contextKeyPrincipal struct{}

func contextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, contextKeyPrincipal{}, p)
}

// PrincipalFrom returns the authenticated principal, or nil when the request
// carried no valid token.
func PrincipalFrom(r *http.Request) *Principal {
	if r == nil {
		return nil
	}
	if p, ok := r.Context().Value(contextKeyPrincipal{}).(*Principal); ok {
		return p
	}
	return nil
}

// Authenticate runs once per request before any handler. A request without a
// bearer token passes through unauthenticated and the per-route role check
// decides its fate. A request with a token is either resolved to a principal
// or rejected here.
func Authenticate(manager *auth.TokenManager, directory UserDirectory, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := auth.TokenFromHeader(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := manager.Validate(token)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Token expired", err, env)
					return
				}
				problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Invalid token", err, env)
				return
			}

			user, err := directory.GetByUsername(r.Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, users.ErrNotFound) {
					// A syntactically valid token for a user that no longer
					// exists is forbidden, not unauthorized.
					problem.Write(w, r, http.StatusForbidden, problem.TypeForbidden, "User does not have permission", problem.ErrForbidden, env)
					return
				}
				problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, env)
				return
			}

			principal := &Principal{User: user, Authorities: claims.Authorities}
			next.ServeHTTP(w, r.WithContext(contextWithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireRole is the per-route authorization policy: no principal is 401,
// a principal without any of the allowed roles is 403.
func RequireRole(env string, allowed ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFrom(r)
			if p == nil {
				problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Authentication required", problem.ErrUnauthorized, env)
				return
			}
			if !auth.HasAnyRole(p.Authorities, allowed...) {
				problem.Write(w, r, http.StatusForbidden, problem.TypeForbidden, "Insufficient permissions", problem.ErrForbidden, env)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

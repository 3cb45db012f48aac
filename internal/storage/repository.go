// Package storage groups data access by domain behind a single repository
// surface. The server core never talks to a concrete store directly; it only
// sees these interfaces.
package storage

import (
	"context"

	"github.com/evento-labs/server/internal/domain/events"
	"github.com/evento-labs/server/internal/domain/users"
)

type Repository interface {
	Events() events.Repository
	Users() users.Repository

	// Ping reports whether the underlying store is reachable.
	Ping(ctx context.Context) error
}

package users

import (
	"context"
	"errors"
	"time"

	"github.com/evento-labs/server/internal/auth"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User is a credential record. Identity is immutable once created: there is
// no update operation, and nothing in the API deletes users.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         auth.Role
	CreatedAt    time.Time
}

type CreateParams struct {
	ID           string
	Username     string
	PasswordHash string
	Role         auth.Role
}

// Repository is the credential store. Username uniqueness is enforced by the
// store at creation time; a duplicate surfaces as ErrUsernameTaken.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]User, error)
}

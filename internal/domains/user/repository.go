package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the data access contract for accounts.
type Repository interface {
	// Create inserts a new user.
	// Returns ErrUsernameAlreadyExists on a duplicate username.
	Create(ctx context.Context, user *User) error

	// FindByID returns ErrUserNotFound when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByUsername is case-sensitive and returns ErrUserNotFound when absent.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByIDs returns the users that exist, keyed by id.
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*User, error)

	// Update saves full name, initials and role.
	Update(ctx context.Context, user *User) error
}

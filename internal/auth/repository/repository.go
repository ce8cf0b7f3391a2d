package repository

import (
	"context"
	"errors"

	authdomain "feedhub-backend/internal/auth/domain"
)

// ErrDuplicateEmail is returned by Create when the email is already registered
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository defines data access for the credential store
type UserRepository interface {
	// Create assigns an ID and timestamps and inserts the user.
	// It returns ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, user *authdomain.User) error

	// FindByEmail returns nil, nil when no user has the email
	FindByEmail(ctx context.Context, email string) (*authdomain.User, error)

	// FindByID returns nil, nil when the user does not exist.
	// The owned-post list is loaded in insertion order.
	FindByID(ctx context.Context, id string) (*authdomain.User, error)

	// UpdateStatus returns false when no user matched
	UpdateStatus(ctx context.Context, id, status string) (bool, error)
}

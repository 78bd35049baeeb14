package auth

import (
	"context"

	"shopledger/internal/core/id"
)

// Repository defines persistence operations for users.
type Repository interface {
	// Create inserts a new user
	Create(ctx context.Context, user *User) error

	// Update modifies a user (with optimistic locking)
	Update(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, userID id.ID) (*User, error)

	// GetByEmail retrieves a user by email (NotFound when absent)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

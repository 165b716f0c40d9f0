package repositories

import (
	"context"

	"gridiron/internal/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	// Create creates a new user in the database
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by their ID
	GetByID(ctx context.Context, id uint) (*models.User, error)

	// GetByEmail retrieves a user by their email address
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// IncrementTokenVersion invalidates every token issued so far
	IncrementTokenVersion(ctx context.Context, userID uint) error

	// TouchLogin records a successful login
	TouchLogin(ctx context.Context, userID uint) error

	// Delete removes the user row permanently
	Delete(ctx context.Context, userID uint) error
}

// UserCache is the subset of the redis cache the user repository needs.
type UserCache interface {
	GetUser(ctx context.Context, userID uint) (*models.User, error)
	CacheUser(ctx context.Context, user *models.User) error
	InvalidateUser(ctx context.Context, userID uint) error
}

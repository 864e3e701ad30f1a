package repository

import (
	"context"
	"medreminder/internal/domain/entity"
)

// UserFilter narrows a user listing.
type UserFilter struct {
	Skip     int
	Limit    int
	IsDoctor *bool
}

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// FindByID retrieves a user by ID.
	FindByID(ctx context.Context, id uint) (*entity.User, error)
	// FindByEmail retrieves a user by email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// List retrieves users matching the filter, ordered by ID.
	List(ctx context.Context, filter UserFilter) ([]*entity.User, error)
	// Create creates a new user.
	Create(ctx context.Context, user *entity.User) error
}

package service

import (
	"context"
	"medreminder/internal/application/dto"
)

// UserService defines the interface for user-related business logic.
type UserService interface {
	// CreateUser registers a user. Returns ErrEmailTaken if the email is in use.
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	// GetUser finds a user by ID. Returns ErrUserNotFound if absent.
	GetUser(ctx context.Context, id uint) (*dto.UserResponse, error)
	// ListUsers lists users matching the query.
	ListUsers(ctx context.Context, query dto.ListUsersQuery) ([]dto.UserResponse, error)
}

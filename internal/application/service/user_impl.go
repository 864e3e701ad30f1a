package service

import (
	"context"
	"errors"
	"fmt"
	"medreminder/internal/application/dto"
	"medreminder/internal/domain/entity"
	"medreminder/internal/domain/repository"
	appErrors "medreminder/internal/pkg/errors"
	"medreminder/internal/pkg/logger"
	"medreminder/internal/pkg/password"
	"strings"

	"gorm.io/gorm"
)

// Listing bounds shared by the user and appointment services.
const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

func listWindow(skip, limit int) (int, int, error) {
	if skip < 0 || limit < 0 {
		return 0, 0, fmt.Errorf("%w: skip and limit must not be negative", appErrors.ErrInvalidInput)
	}
	if limit == 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return skip, limit, nil
}

type userService struct {
	userRepo repository.UserRepository
	log      logger.Logger
}

// NewUserService creates a new instance of UserService implementation.
func NewUserService(userRepo repository.UserRepository, log logger.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log,
	}
}

// CreateUser registers a user with a bcrypt-hashed password.
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	_, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil, appErrors.ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.Error(fmt.Sprintf("Failed to look up email %s", email), err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrInternalServer, err)
	}

	user := &entity.User{
		Email:          email,
		HashedPassword: hashed,
		IsActive:       true,
		IsDoctor:       req.IsDoctor,
		Name:           strings.TrimSpace(req.Name),
		Phone:          strings.TrimSpace(req.Phone),
		WhatsApp:       strings.TrimSpace(req.WhatsApp),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.log.Error("Failed to create user", err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}

	s.log.Info(fmt.Sprintf("Created user %d (doctor: %t)", user.ID, user.IsDoctor))
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// GetUser finds a user by ID.
func (s *userService) GetUser(ctx context.Context, id uint) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		s.log.Error(fmt.Sprintf("Failed to get user %d", id), err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// ListUsers lists users matching the query.
func (s *userService) ListUsers(ctx context.Context, query dto.ListUsersQuery) ([]dto.UserResponse, error) {
	skip, limit, err := listWindow(query.Skip, query.Limit)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.List(ctx, repository.UserFilter{Skip: skip, Limit: limit, IsDoctor: query.IsDoctor})
	if err != nil {
		s.log.Error("Failed to list users", err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return dto.ToUserResponseList(users), nil
}

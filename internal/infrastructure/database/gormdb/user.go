package gormdb

import (
	"context"
	"errors"
	"fmt"
	"medreminder/internal/domain/entity"
	"medreminder/internal/domain/repository"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a user by ID.
func (r *userRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with ID %d not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to find user by id %d: %w", id, err)
	}
	return &user, nil
}

// FindByEmail retrieves a user by email address.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with email %s not found: %w", email, err)
		}
		return nil, fmt.Errorf("failed to find user by email %s: %w", email, err)
	}
	return &user, nil
}

// List retrieves users matching the filter.
func (r *userRepository) List(ctx context.Context, filter repository.UserFilter) ([]*entity.User, error) {
	var users []*entity.User
	q := r.db.WithContext(ctx).Order("id asc")
	if filter.IsDoctor != nil {
		q = q.Where("is_doctor = ?", *filter.IsDoctor)
	}
	q = paginate(q, filter.Skip, filter.Limit)
	if err := q.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Create creates a new user.
func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.Email, err)
	}
	return nil
}

func paginate(q *gorm.DB, skip, limit int) *gorm.DB {
	if skip > 0 {
		q = q.Offset(skip)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}

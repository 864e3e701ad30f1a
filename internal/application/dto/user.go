package dto

import (
	"medreminder/internal/domain/entity"
)

// CreateUserRequest is the DTO for registering a patient or doctor.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone" validate:"omitempty,e164"`
	WhatsApp string `json:"whatsapp" validate:"omitempty,e164"`
	IsDoctor bool   `json:"is_doctor"`
}

// ListUsersQuery holds the optional filters of a user listing.
type ListUsersQuery struct {
	Skip     int
	Limit    int
	IsDoctor *bool
}

// UserResponse is the DTO for sending user information to the client.
type UserResponse struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	WhatsApp string `json:"whatsapp,omitempty"`
	IsDoctor bool   `json:"is_doctor"`
	IsActive bool   `json:"is_active"`
}

// ToUserResponse converts an entity.User to a UserResponse DTO.
func ToUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Phone:    u.Phone,
		WhatsApp: u.WhatsApp,
		IsDoctor: u.IsDoctor,
		IsActive: u.IsActive,
	}
}

// ToUserResponseList converts a slice of entity.User to a slice of UserResponse DTOs.
func ToUserResponseList(users []*entity.User) []UserResponse {
	list := make([]UserResponse, len(users))
	for i, u := range users {
		list[i] = ToUserResponse(u)
	}
	return list
}

package dto

import (
	"time"

	"github.com/afrimoni/remit_backend/internal/core/domain"
)

// RegisterUserRequest defines the data needed to register a local user.
type RegisterUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required,e164"`
	Country  string `json:"country" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest defines password login credentials.
type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest defines the fields a user may change on their profile.
type UpdateUserRequest struct {
	Name    *string `json:"name,omitempty"`
	Country *string `json:"country,omitempty"`
}

// UserResponse defines the data returned for a user.
type UserResponse struct {
	UserID    string    `json:"userID"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToUserResponse converts a domain.User to UserResponse.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		Name:      u.Name,
		Phone:     u.Phone,
		Country:   u.Country,
		CreatedAt: u.CreatedAt,
	}
}

package dto

import (
	"time"

	"github.com/yigit/learnsphere/internal/app/models"
)

// SignupRequest represents a user registration request. UserType falls back to student.
type SignupRequest struct {
	Email     string   `json:"email" binding:"required,email" example:"ada@example.com"`
	Password  string   `json:"password" binding:"required,min=8" example:"s3cretpass"`
	Name      string   `json:"name" binding:"required" example:"Ada Lovelace"`
	UserType  string   `json:"userType" example:"student"`
	Interests []string `json:"interests,omitempty" example:"programming,design"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	UserType string `json:"userType,omitempty"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID        int64           `json:"id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Role      models.RoleType `json:"role"`
	Interests []string        `json:"interests"`
}

// NewUserResponse maps a user model onto its public view
func NewUserResponse(u *models.User) UserResponse {
	interests := u.Interests
	if interests == nil {
		interests = []string{}
	}
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Interests: interests,
	}
}

// SignupResponse carries the new account and its first token
type SignupResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// LoginResponse represents successful authentication
type LoginResponse struct {
	Token     string          `json:"token"`
	Role      models.RoleType `json:"role" example:"student"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

// SessionResponse describes the caller's current session
type SessionResponse struct {
	UserID    int64           `json:"userId"`
	Email     string          `json:"email"`
	Role      models.RoleType `json:"role"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

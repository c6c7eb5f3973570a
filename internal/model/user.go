package model

import "time"

// Role values for User.Role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a renter or an admin account.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Phone        *string   `json:"phone,omitempty"`
	Points       int       `json:"points"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}

// RegisterRequest is the DTO for POST /api/auth/register.
type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	FullName string  `json:"full_name" validate:"required,notblank,min=2,max=255"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=7,max=32"`
}

// LoginRequest is the DTO for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest is the DTO for PUT /api/auth/profile.
// Nil fields are left unchanged.
type UpdateProfileRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,notblank,min=2,max=255"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=7,max=32"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

package dto

import (
	"time"

	"comercia/internal/domain/auth"
)

// RegisterRequest for user registration.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// LoginRequest for authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest for token rotation.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// UserResponse is the public shape of a user account.
type UserResponse struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	FirstName  string     `json:"firstName,omitempty"`
	LastName   string     `json:"lastName,omitempty"`
	Role       string     `json:"role"`
	IsActive   bool       `json:"isActive"`
	IsAdmin    bool       `json:"isAdmin,omitempty"`
	BusinessID *string    `json:"businessId,omitempty"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// FromUser maps a user to its response shape, hiding credentials and
// lockout bookkeeping.
func FromUser(u *auth.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		IsAdmin:   u.IsAdmin,
		LastLogin: u.LastLoginAt,
		CreatedAt: u.CreatedAt,
	}
	if u.BusinessID != nil {
		s := u.BusinessID.String()
		resp.BusinessID = &s
	}
	return resp
}

// LoginResponse bundles the token pair with the authenticated user.
type LoginResponse struct {
	Tokens *auth.TokenPair `json:"tokens"`
	User   UserResponse    `json:"user"`
}

package models

import "github.com/golang-jwt/jwt/v5"

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,loose_email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the sign-up payload sent as {"user": {...}}.
type RegisterRequest struct {
	Name                 string   `json:"name" validate:"required"`
	Email                string   `json:"email" validate:"required,loose_email"`
	Password             string   `json:"password" validate:"required,min=6"`
	PasswordConfirmation string   `json:"password_confirmation" validate:"required,eqfield=Password"`
	Role                 UserRole `json:"user_type" validate:"required,oneof=admin teacher"`
	SchoolID             string   `json:"school_id" validate:"required"`
	Address              string   `json:"address,omitempty" validate:"required_if=Role teacher"`
	Phone                string   `json:"phone,omitempty"`
}

// AuthResponse is returned by login and registration.
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Claims are carried by tokens the dev API issues.
type Claims struct {
	UserID   string   `json:"user_id"`
	SchoolID string   `json:"school_id"`
	Role     UserRole `json:"user_type"`
	jwt.RegisteredClaims
}

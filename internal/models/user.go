package models

import "time"

// UserRole represents the roles known to the grade API.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleTeacher UserRole = "teacher"
)

// User is the profile returned by the API and cached alongside the session token.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"user_type"`
	SchoolID  string    `json:"school_id"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user has full access.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UpdateUserInput holds a partial profile update.
type UpdateUserInput struct {
	Name                 *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Email                *string `json:"email,omitempty" validate:"omitempty,loose_email"`
	Password             *string `json:"password,omitempty" validate:"omitempty,min=6"`
	PasswordConfirmation *string `json:"password_confirmation,omitempty"`
	Address              *string `json:"address,omitempty"`
	Phone                *string `json:"phone,omitempty"`
}

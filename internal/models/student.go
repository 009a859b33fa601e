package models

import "time"

// Student represents a learner registered in a school.
type Student struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	RegistrationNumber string    `json:"registration_number"`
	Phone              string    `json:"phone,omitempty"`
	SchoolID           string    `json:"school_id"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// StudentInput is the create payload sent as {"student": {...}}.
type StudentInput struct {
	Name               string `json:"name" validate:"required"`
	Email              string `json:"email" validate:"required,loose_email"`
	RegistrationNumber string `json:"registration_number" validate:"required"`
	Phone              string `json:"phone,omitempty"`
}

// StudentUpdate is a partial update.
type StudentUpdate struct {
	Name               *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Email              *string `json:"email,omitempty" validate:"omitempty,loose_email"`
	RegistrationNumber *string `json:"registration_number,omitempty" validate:"omitempty,min=1"`
	Phone              *string `json:"phone,omitempty"`
}

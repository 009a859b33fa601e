package models

import "time"

// School owns every other entity in the API.
type School struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SchoolInput is the create payload sent as {"school": {...}}.
type SchoolInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,loose_email"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// SchoolUpdate is a partial update.
type SchoolUpdate struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Email   *string `json:"email,omitempty" validate:"omitempty,loose_email"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
}

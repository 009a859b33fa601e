package models

import "time"

// Session is the persisted {token, user} pair for the signed-in identity.
type Session struct {
	Token   string    `json:"token"`
	User    User      `json:"user"`
	SavedAt time.Time `json:"saved_at"`
}

// TokenInfo exposes unverified claims of a bearer token for display only.
type TokenInfo struct {
	Subject   string
	IssuedAt  *time.Time
	ExpiresAt *time.Time
}

package session

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/sma-gradebook/internal/models"
)

// Inspect reads the claims of a JWT bearer token without verifying it. It is
// for display only; opaque tokens return an error and should be ignored.
func Inspect(token string) (models.TokenInfo, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return models.TokenInfo{}, err
	}
	info := models.TokenInfo{Subject: claims.Subject}
	if claims.IssuedAt != nil {
		t := claims.IssuedAt.Time
		info.IssuedAt = &t
	}
	if claims.ExpiresAt != nil {
		t := claims.ExpiresAt.Time
		info.ExpiresAt = &t
	}
	return info, nil
}

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-gradebook/internal/models"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
	"github.com/noah-isme/sma-gradebook/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

// TokenValidator verifies bearer tokens.
type TokenValidator interface {
	ValidateToken(token string) (*models.Claims, error)
}

// JWT protects routes by requiring a valid access token.
func JWT(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := bearerClaims(c, validator)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

func bearerClaims(c *gin.Context, validator TokenValidator) (*models.Claims, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, appErrors.ErrUnauthorized
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header")
	}
	return validator.ValidateToken(strings.TrimSpace(parts[1]))
}

// Claims returns the claims stored by JWT, or nil.
func Claims(c *gin.Context) *models.Claims {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	claims, _ := value.(*models.Claims)
	return claims
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-gradebook/internal/middleware"
	"github.com/noah-isme/sma-gradebook/internal/models"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
	"github.com/noah-isme/sma-gradebook/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.Claims {
	return middleware.Claims(c)
}

// bindJSON decodes the request body into dst and answers 400 on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation, "invalid payload"))
		return false
	}
	return true
}

package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-gradebook/internal/devapi"
	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/pkg/response"
)

// UserHandler manages the users of a school, teachers included.
type UserHandler struct {
	accounts *devapi.Accounts
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(accounts *devapi.Accounts) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// List handles GET /users[?user_type=].
func (h *UserHandler) List(c *gin.Context) {
	role := models.UserRole(strings.ToLower(strings.TrimSpace(c.Query("user_type"))))
	response.JSON(c, http.StatusOK, h.accounts.List(claimsFromContext(c), role))
}

// Get handles GET /users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.accounts.Get(claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user)
}

type userUpdateEnvelope struct {
	User models.UpdateUserInput `json:"user"`
}

// Update handles PUT /users/:id.
func (h *UserHandler) Update(c *gin.Context) {
	var body userUpdateEnvelope
	if !bindJSON(c, &body) {
		return
	}
	user, err := h.accounts.Update(claimsFromContext(c), c.Param("id"), body.User)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user)
}

// Delete handles DELETE /users/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.accounts.Delete(claimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

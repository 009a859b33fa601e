package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-gradebook/internal/devapi"
	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/pkg/response"
)

// AuthHandler serves sign-in, sign-up and the profile.
type AuthHandler struct {
	accounts *devapi.Accounts
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(accounts *devapi.Accounts) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Login handles POST /users/login with a bare {email, password} body.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.accounts.Login(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}

type userEnvelope struct {
	User models.RegisterRequest `json:"user"`
}

// Register handles POST /users. Anyone may sign up; teachers created by an
// administrator arrive through the same route.
func (h *AuthHandler) Register(c *gin.Context) {
	var body userEnvelope
	if !bindJSON(c, &body) {
		return
	}
	res, err := h.accounts.Register(body.User)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// Me handles GET /users/me.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.accounts.Me(claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user)
}

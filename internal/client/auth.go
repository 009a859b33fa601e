package client

import (
	"context"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/noah-isme/sma-gradebook/internal/models"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
)

// Login exchanges credentials for a token. It does not persist anything.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	body, err := c.do(ctx, call{method: http.MethodPost, path: "/users/login", body: req, public: true})
	if err != nil {
		return nil, err
	}
	resp, err := decodeAuth(body)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, appErrors.ErrUnexpectedResponse
	}
	return resp, nil
}

// Register creates a user account. Any token in the response is returned but
// never applied to the session.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	body, err := c.do(ctx, call{method: http.MethodPost, path: "/users", body: map[string]interface{}{"user": req}, public: true})
	if err != nil {
		return nil, err
	}
	return decodeAuth(body)
}

// Me returns the profile of the token holder.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	body, err := c.do(ctx, call{method: http.MethodGet, path: "/users/me"})
	if err != nil {
		return nil, err
	}
	user, err := decodeOne(body, "user", normalizeUser)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// decodeAuth accepts {"user": {...}, "token": "..."} and a bare user record.
func decodeAuth(body []byte) (*models.AuthResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, appErrors.ErrUnexpectedResponse
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, appErrors.ErrUnexpectedResponse
	}
	userNode := root.Get("user")
	if !userNode.IsObject() {
		userNode = root
	}
	return &models.AuthResponse{
		User:  normalizeUser(userNode),
		Token: root.Get("token").String(),
	}, nil
}

package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/noah-isme/sma-gradebook/internal/models"
)

// ListUsers returns users, optionally restricted to one role.
func (c *Client) ListUsers(ctx context.Context, role models.UserRole) ([]models.User, error) {
	var query url.Values
	if role != "" {
		query = url.Values{"user_type": []string{string(role)}}
	}
	body, err := c.do(ctx, call{method: http.MethodGet, path: "/users", query: query})
	if err != nil {
		return nil, err
	}
	return decodeList(body, "users", normalizeUser)
}

// GetUser fetches a user by ID.
func (c *Client) GetUser(ctx context.Context, id string) (*models.User, error) {
	body, err := c.do(ctx, call{method: http.MethodGet, path: entityPath("users", id), route: "/users/:id"})
	if err != nil {
		return nil, err
	}
	user, err := decodeOne(body, "user", normalizeUser)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies a partial update.
func (c *Client) UpdateUser(ctx context.Context, id string, in models.UpdateUserInput) (*models.User, error) {
	body, err := c.do(ctx, call{
		method: http.MethodPut,
		path:   entityPath("users", id),
		route:  "/users/:id",
		body:   map[string]interface{}{"user": in},
	})
	if err != nil {
		return nil, err
	}
	user, err := decodeOne(body, "user", normalizeUser)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a user.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	_, err := c.do(ctx, call{method: http.MethodDelete, path: entityPath("users", id), route: "/users/:id"})
	return err
}

type teacherPayload struct {
	models.TeacherInput
	Role models.UserRole `json:"user_type"`
}

// CreateTeacher creates a user with the teacher role.
func (c *Client) CreateTeacher(ctx context.Context, in models.TeacherInput) (*models.Teacher, error) {
	payload := teacherPayload{TeacherInput: in, Role: models.RoleTeacher}
	body, err := c.do(ctx, call{method: http.MethodPost, path: "/users", body: map[string]interface{}{"user": payload}})
	if err != nil {
		return nil, err
	}
	user, err := decodeAuth(body)
	if err != nil {
		return nil, err
	}
	return &user.User, nil
}

// ListTeachers returns users with the teacher role.
func (c *Client) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	return c.ListUsers(ctx, models.RoleTeacher)
}

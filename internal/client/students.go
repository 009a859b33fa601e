package client

import (
	"context"
	"net/http"

	"github.com/noah-isme/sma-gradebook/internal/models"
)

// ListStudents returns every student visible to the caller.
func (c *Client) ListStudents(ctx context.Context) ([]models.Student, error) {
	body, err := c.do(ctx, call{method: http.MethodGet, path: "/students"})
	if err != nil {
		return nil, err
	}
	return decodeList(body, "students", normalizeStudent)
}

// GetStudent fetches a student by ID.
func (c *Client) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	body, err := c.do(ctx, call{method: http.MethodGet, path: entityPath("students", id), route: "/students/:id"})
	if err != nil {
		return nil, err
	}
	student, err := decodeOne(body, "student", normalizeStudent)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// CreateStudent registers a student.
func (c *Client) CreateStudent(ctx context.Context, in models.StudentInput) (*models.Student, error) {
	body, err := c.do(ctx, call{method: http.MethodPost, path: "/students", body: map[string]interface{}{"student": in}})
	if err != nil {
		return nil, err
	}
	student, err := decodeOne(body, "student", normalizeStudent)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// UpdateStudent applies a partial update.
func (c *Client) UpdateStudent(ctx context.Context, id string, in models.StudentUpdate) (*models.Student, error) {
	body, err := c.do(ctx, call{
		method: http.MethodPut,
		path:   entityPath("students", id),
		route:  "/students/:id",
		body:   map[string]interface{}{"student": in},
	})
	if err != nil {
		return nil, err
	}
	student, err := decodeOne(body, "student", normalizeStudent)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// DeleteStudent removes a student.
func (c *Client) DeleteStudent(ctx context.Context, id string) error {
	_, err := c.do(ctx, call{method: http.MethodDelete, path: entityPath("students", id), route: "/students/:id"})
	return err
}

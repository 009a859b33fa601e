package client

import (
	"context"
	"net/http"

	"github.com/noah-isme/sma-gradebook/internal/models"
)

// ListPublicSchools is the unauthenticated listing used during sign-up.
func (c *Client) ListPublicSchools(ctx context.Context) ([]models.School, error) {
	body, err := c.do(ctx, call{method: http.MethodGet, path: "/schools/public", public: true})
	if err != nil {
		return nil, err
	}
	return decodeList(body, "schools", normalizeSchool)
}

// ListSchools returns the schools visible to the caller.
func (c *Client) ListSchools(ctx context.Context) ([]models.School, error) {
	body, err := c.do(ctx, call{method: http.MethodGet, path: "/schools"})
	if err != nil {
		return nil, err
	}
	return decodeList(body, "schools", normalizeSchool)
}

// GetSchool fetches a school by ID.
func (c *Client) GetSchool(ctx context.Context, id string) (*models.School, error) {
	body, err := c.do(ctx, call{method: http.MethodGet, path: entityPath("schools", id), route: "/schools/:id"})
	if err != nil {
		return nil, err
	}
	school, err := decodeOne(body, "school", normalizeSchool)
	if err != nil {
		return nil, err
	}
	return &school, nil
}

// CreateSchool registers a school. The API accepts this without a token so an
// administrator can create their school before their account exists.
func (c *Client) CreateSchool(ctx context.Context, in models.SchoolInput) (*models.School, error) {
	body, err := c.do(ctx, call{method: http.MethodPost, path: "/schools", body: map[string]interface{}{"school": in}})
	if err != nil {
		return nil, err
	}
	school, err := decodeOne(body, "school", normalizeSchool)
	if err != nil {
		return nil, err
	}
	return &school, nil
}

// UpdateSchool applies a partial update.
func (c *Client) UpdateSchool(ctx context.Context, id string, in models.SchoolUpdate) (*models.School, error) {
	body, err := c.do(ctx, call{
		method: http.MethodPut,
		path:   entityPath("schools", id),
		route:  "/schools/:id",
		body:   map[string]interface{}{"school": in},
	})
	if err != nil {
		return nil, err
	}
	school, err := decodeOne(body, "school", normalizeSchool)
	if err != nil {
		return nil, err
	}
	return &school, nil
}

// DeleteSchool removes a school.
func (c *Client) DeleteSchool(ctx context.Context, id string) error {
	_, err := c.do(ctx, call{method: http.MethodDelete, path: entityPath("schools", id), route: "/schools/:id"})
	return err
}

package client

import (
	"context"
	"net/http"

	"github.com/noah-isme/sma-gradebook/internal/models"
)

// ListSubjects returns every subject visible to the caller.
func (c *Client) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	body, err := c.do(ctx, call{method: http.MethodGet, path: "/subjects"})
	if err != nil {
		return nil, err
	}
	return decodeList(body, "subjects", normalizeSubject)
}

// GetSubject fetches a subject by ID.
func (c *Client) GetSubject(ctx context.Context, id string) (*models.Subject, error) {
	body, err := c.do(ctx, call{method: http.MethodGet, path: entityPath("subjects", id), route: "/subjects/:id"})
	if err != nil {
		return nil, err
	}
	subject, err := decodeOne(body, "subject", normalizeSubject)
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

// CreateSubject registers a subject.
func (c *Client) CreateSubject(ctx context.Context, in models.SubjectInput) (*models.Subject, error) {
	body, err := c.do(ctx, call{method: http.MethodPost, path: "/subjects", body: map[string]interface{}{"subject": in}})
	if err != nil {
		return nil, err
	}
	subject, err := decodeOne(body, "subject", normalizeSubject)
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

// UpdateSubject applies a partial update.
func (c *Client) UpdateSubject(ctx context.Context, id string, in models.SubjectUpdate) (*models.Subject, error) {
	body, err := c.do(ctx, call{
		method: http.MethodPut,
		path:   entityPath("subjects", id),
		route:  "/subjects/:id",
		body:   map[string]interface{}{"subject": in},
	})
	if err != nil {
		return nil, err
	}
	subject, err := decodeOne(body, "subject", normalizeSubject)
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

// DeleteSubject removes a subject.
func (c *Client) DeleteSubject(ctx context.Context, id string) error {
	_, err := c.do(ctx, call{method: http.MethodDelete, path: entityPath("subjects", id), route: "/subjects/:id"})
	return err
}

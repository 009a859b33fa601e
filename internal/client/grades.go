package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/noah-isme/sma-gradebook/internal/models"
)

const gradeRoute = "/grades/:id"

// ListGrades returns grades, narrowed by the optional filter.
func (c *Client) ListGrades(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error) {
	query := url.Values{}
	if filter.StudentID != "" {
		query.Set("student_id", filter.StudentID)
	}
	if filter.SubjectID != "" {
		query.Set("subject_id", filter.SubjectID)
	}
	body, err := c.do(ctx, call{method: http.MethodGet, path: "/grades", query: query})
	if err != nil {
		return nil, err
	}
	return decodeList(body, "grades", normalizeGrade)
}

// GetGrade fetches a grade by ID.
func (c *Client) GetGrade(ctx context.Context, id string) (*models.Grade, error) {
	body, err := c.do(ctx, call{method: http.MethodGet, path: entityPath("grades", id), route: gradeRoute})
	if err != nil {
		return nil, err
	}
	return c.grade(body)
}

// CreateGrade creates the grade of one student in one subject.
func (c *Client) CreateGrade(ctx context.Context, in models.CreateGradeInput) (*models.Grade, error) {
	body, err := c.do(ctx, call{method: http.MethodPost, path: "/grades", body: map[string]interface{}{"grade": in}})
	if err != nil {
		return nil, err
	}
	return c.grade(body)
}

// AddScore appends one score to a grade.
func (c *Client) AddScore(ctx context.Context, id string, in models.AddScoreInput) (*models.Grade, error) {
	return c.putGrade(ctx, id, in)
}

// UpdateScore replaces the score at a position.
func (c *Client) UpdateScore(ctx context.Context, id string, in models.UpdateScoreInput) (*models.Grade, error) {
	return c.putGrade(ctx, id, in)
}

// ReplaceScores replaces the whole score list.
func (c *Client) ReplaceScores(ctx context.Context, id string, in models.UpdateAllScoresInput) (*models.Grade, error) {
	return c.putGrade(ctx, id, in)
}

// DeleteGrade removes a grade.
func (c *Client) DeleteGrade(ctx context.Context, id string) error {
	_, err := c.do(ctx, call{method: http.MethodDelete, path: entityPath("grades", id), route: gradeRoute})
	return err
}

func (c *Client) putGrade(ctx context.Context, id string, payload interface{}) (*models.Grade, error) {
	body, err := c.do(ctx, call{
		method: http.MethodPut,
		path:   entityPath("grades", id),
		route:  gradeRoute,
		body:   map[string]interface{}{"grade": payload},
	})
	if err != nil {
		return nil, err
	}
	return c.grade(body)
}

func (c *Client) grade(body []byte) (*models.Grade, error) {
	grade, err := decodeOne(body, "grade", normalizeGrade)
	if err != nil {
		return nil, err
	}
	return &grade, nil
}

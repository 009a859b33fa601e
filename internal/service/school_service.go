package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/pkg/validation"
)

type schoolAPI interface {
	ListPublicSchools(ctx context.Context) ([]models.School, error)
	ListSchools(ctx context.Context) ([]models.School, error)
	GetSchool(ctx context.Context, id string) (*models.School, error)
	CreateSchool(ctx context.Context, in models.SchoolInput) (*models.School, error)
	UpdateSchool(ctx context.Context, id string, in models.SchoolUpdate) (*models.School, error)
	DeleteSchool(ctx context.Context, id string) error
}

// SchoolService manages schools.
type SchoolService struct {
	api       schoolAPI
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSchoolService constructs the school service.
func NewSchoolService(api schoolAPI, validate *validator.Validate, logger *zap.Logger) *SchoolService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchoolService{api: api, validator: validation.Register(validate), logger: logger}
}

// ListPublic returns the schools shown during sign-up. No session is needed.
func (s *SchoolService) ListPublic(ctx context.Context) ([]models.School, error) {
	return s.api.ListPublicSchools(ctx)
}

// List returns the schools visible to the caller.
func (s *SchoolService) List(ctx context.Context) ([]models.School, error) {
	return s.api.ListSchools(ctx)
}

// Get returns a school by ID.
func (s *SchoolService) Get(ctx context.Context, id string) (*models.School, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	return s.api.GetSchool(ctx, id)
}

// Create registers a school.
func (s *SchoolService) Create(ctx context.Context, in models.SchoolInput) (*models.School, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(s.validator, in); err != nil {
		return nil, err
	}
	return s.api.CreateSchool(ctx, in)
}

// Update applies a partial update. Administrators only.
func (s *SchoolService) Update(ctx context.Context, actor *models.User, id string, in models.SchoolUpdate) (*models.School, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := requireID(id); err != nil {
		return nil, err
	}
	if err := validation.Struct(s.validator, in); err != nil {
		return nil, err
	}
	return s.api.UpdateSchool(ctx, id, in)
}

// Delete removes a school. Administrators only.
func (s *SchoolService) Delete(ctx context.Context, actor *models.User, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := requireID(id); err != nil {
		return err
	}
	return s.api.DeleteSchool(ctx, id)
}

package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-gradebook/internal/models"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
	"github.com/noah-isme/sma-gradebook/pkg/validation"
)

type studentAPI interface {
	ListStudents(ctx context.Context) ([]models.Student, error)
	GetStudent(ctx context.Context, id string) (*models.Student, error)
	CreateStudent(ctx context.Context, in models.StudentInput) (*models.Student, error)
	UpdateStudent(ctx context.Context, id string, in models.StudentUpdate) (*models.Student, error)
	DeleteStudent(ctx context.Context, id string) error
}

// StudentService handles student use-cases.
type StudentService struct {
	api       studentAPI
	validator *validator.Validate
	logger    *zap.Logger
	searches  Latest
}

// NewStudentService constructs the student service.
func NewStudentService(api studentAPI, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{api: api, validator: validation.Register(validate), logger: logger}
}

// List returns every student.
func (s *StudentService) List(ctx context.Context) ([]models.Student, error) {
	return s.api.ListStudents(ctx)
}

// Search lists students matching query by name or registration number. A
// search overtaken by a newer one returns ErrSuperseded.
func (s *StudentService) Search(ctx context.Context, query string) ([]models.Student, error) {
	ticket := s.searches.Next()
	students, err := s.api.ListStudents(ctx)
	if !s.searches.Current(ticket) {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	return FilterStudents(students, query), nil
}

// FilterStudents matches query against name and registration number,
// ignoring case. An empty query matches everything.
func FilterStudents(students []models.Student, query string) []models.Student {
	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Student, 0, len(students))
	for _, st := range students {
		if needle == "" ||
			strings.Contains(strings.ToLower(st.Name), needle) ||
			strings.Contains(strings.ToLower(st.RegistrationNumber), needle) {
			out = append(out, st)
		}
	}
	return out
}

// Get returns a student by ID.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	return s.api.GetStudent(ctx, id)
}

// Create registers a student.
func (s *StudentService) Create(ctx context.Context, in models.StudentInput) (*models.Student, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.RegistrationNumber = strings.TrimSpace(in.RegistrationNumber)
	if err := validation.Struct(s.validator, in); err != nil {
		return nil, err
	}
	student, err := s.api.CreateStudent(ctx, in)
	if err != nil {
		s.logger.Info("create student failed", zap.Error(err))
		return nil, err
	}
	return student, nil
}

// Update applies a partial update.
func (s *StudentService) Update(ctx context.Context, id string, in models.StudentUpdate) (*models.Student, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	if err := validation.Struct(s.validator, in); err != nil {
		return nil, err
	}
	return s.api.UpdateStudent(ctx, id, in)
}

// Delete removes a student.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return s.api.DeleteStudent(ctx, id)
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return appErrors.WithMessages(appErrors.ErrValidation, "id is required")
	}
	return nil
}

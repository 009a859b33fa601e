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

type subjectAPI interface {
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	GetSubject(ctx context.Context, id string) (*models.Subject, error)
	CreateSubject(ctx context.Context, in models.SubjectInput) (*models.Subject, error)
	UpdateSubject(ctx context.Context, id string, in models.SubjectUpdate) (*models.Subject, error)
	DeleteSubject(ctx context.Context, id string) error
}

// SubjectService handles subject use-cases.
type SubjectService struct {
	api       subjectAPI
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService constructs the subject service.
func NewSubjectService(api subjectAPI, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{api: api, validator: validation.Register(validate), logger: logger}
}

// List returns every subject.
func (s *SubjectService) List(ctx context.Context) ([]models.Subject, error) {
	return s.api.ListSubjects(ctx)
}

// Get returns a subject by ID.
func (s *SubjectService) Get(ctx context.Context, id string) (*models.Subject, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	return s.api.GetSubject(ctx, id)
}

// Create registers a subject. A teacher always owns the subjects they create;
// an administrator must name the teacher.
func (s *SubjectService) Create(ctx context.Context, actor *models.User, in models.SubjectInput) (*models.Subject, error) {
	if actor == nil {
		return nil, appErrors.ErrNotAuthenticated
	}
	if actor.Role == models.RoleTeacher {
		in.TeacherID = actor.ID
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Code = strings.TrimSpace(in.Code)
	if err := validation.Struct(s.validator, in); err != nil {
		return nil, err
	}
	subject, err := s.api.CreateSubject(ctx, in)
	if err != nil {
		s.logger.Info("create subject failed", zap.Error(err))
		return nil, err
	}
	return subject, nil
}

// Update applies a partial update. Teachers cannot reassign a subject.
func (s *SubjectService) Update(ctx context.Context, actor *models.User, id string, in models.SubjectUpdate) (*models.Subject, error) {
	if actor == nil {
		return nil, appErrors.ErrNotAuthenticated
	}
	if err := requireID(id); err != nil {
		return nil, err
	}
	if actor.Role == models.RoleTeacher && in.TeacherID != nil && *in.TeacherID != actor.ID {
		return nil, appErrors.ErrForbidden
	}
	if err := validation.Struct(s.validator, in); err != nil {
		return nil, err
	}
	if in.PassingAverage != nil && in.RecoveryAverage != nil && *in.RecoveryAverage > *in.PassingAverage {
		return nil, appErrors.WithMessages(appErrors.ErrValidation, "recovery_average must not exceed passing_average")
	}
	return s.api.UpdateSubject(ctx, id, in)
}

// Delete removes a subject.
func (s *SubjectService) Delete(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return s.api.DeleteSubject(ctx, id)
}

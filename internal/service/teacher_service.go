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

type teacherAPI interface {
	ListTeachers(ctx context.Context) ([]models.Teacher, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	CreateTeacher(ctx context.Context, in models.TeacherInput) (*models.Teacher, error)
	UpdateUser(ctx context.Context, id string, in models.UpdateUserInput) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// TeacherService manages teacher accounts. Only administrators may use it.
type TeacherService struct {
	api       teacherAPI
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs the teacher service.
func NewTeacherService(api teacherAPI, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{api: api, validator: validation.Register(validate), logger: logger}
}

func requireAdmin(actor *models.User) error {
	if actor == nil {
		return appErrors.ErrNotAuthenticated
	}
	if !actor.IsAdmin() {
		return appErrors.ErrForbidden
	}
	return nil
}

// List returns every teacher.
func (s *TeacherService) List(ctx context.Context, actor *models.User) ([]models.Teacher, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.api.ListTeachers(ctx)
}

// Get returns a teacher by ID.
func (s *TeacherService) Get(ctx context.Context, actor *models.User, id string) (*models.Teacher, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := requireID(id); err != nil {
		return nil, err
	}
	return s.api.GetUser(ctx, id)
}

// Create registers a teacher in the administrator's school unless another
// school is given.
func (s *TeacherService) Create(ctx context.Context, actor *models.User, in models.TeacherInput) (*models.Teacher, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.SchoolID) == "" {
		in.SchoolID = actor.SchoolID
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(s.validator, in); err != nil {
		return nil, err
	}
	teacher, err := s.api.CreateTeacher(ctx, in)
	if err != nil {
		s.logger.Info("create teacher failed", zap.Error(err))
		return nil, err
	}
	return teacher, nil
}

// Update applies a partial update.
func (s *TeacherService) Update(ctx context.Context, actor *models.User, id string, in models.TeacherUpdate) (*models.Teacher, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := requireID(id); err != nil {
		return nil, err
	}
	if err := validateUserUpdate(s.validator, in); err != nil {
		return nil, err
	}
	return s.api.UpdateUser(ctx, id, in)
}

// Delete removes a teacher.
func (s *TeacherService) Delete(ctx context.Context, actor *models.User, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := requireID(id); err != nil {
		return err
	}
	return s.api.DeleteUser(ctx, id)
}

// TeacherName resolves a teacher ID against a loaded list.
func TeacherName(teachers []models.Teacher, id string) string {
	for _, t := range teachers {
		if t.ID == id {
			return t.Name
		}
	}
	return UnknownTeacher
}

package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-gradebook/internal/models"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
	"github.com/noah-isme/sma-gradebook/pkg/validation"
)

type userAPI interface {
	ListUsers(ctx context.Context, role models.UserRole) ([]models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, in models.UpdateUserInput) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// UserService manages user accounts.
type UserService struct {
	api       userAPI
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs the user service.
func NewUserService(api userAPI, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{api: api, validator: validation.Register(validate), logger: logger}
}

// List returns users of every role.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.api.ListUsers(ctx, "")
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	return s.api.GetUser(ctx, id)
}

// Update applies a partial update.
func (s *UserService) Update(ctx context.Context, id string, in models.UpdateUserInput) (*models.User, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	if err := validateUserUpdate(s.validator, in); err != nil {
		return nil, err
	}
	return s.api.UpdateUser(ctx, id, in)
}

// Delete removes a user.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return s.api.DeleteUser(ctx, id)
}

func validateUserUpdate(v *validator.Validate, in models.UpdateUserInput) error {
	if err := validation.Struct(v, in); err != nil {
		return err
	}
	if in.Password != nil {
		if in.PasswordConfirmation == nil || *in.PasswordConfirmation != *in.Password {
			return appErrors.ErrPasswordMismatch
		}
	}
	return nil
}

package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/internal/session"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
	"github.com/noah-isme/sma-gradebook/pkg/validation"
)

type authAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Me(ctx context.Context) (*models.User, error)
	CreateSchool(ctx context.Context, in models.SchoolInput) (*models.School, error)
	ListPublicSchools(ctx context.Context) ([]models.School, error)
}

// AuthService handles sign-in, sign-up and the session lifecycle.
type AuthService struct {
	api       authAPI
	guard     *session.Guard
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthService constructs the auth service.
func NewAuthService(api authAPI, guard *session.Guard, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{api: api, guard: guard, validator: validation.Register(validate), logger: logger}
}

// Login authenticates and persists the session. A session that cannot be
// saved fails the login.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if err := validation.Struct(s.validator, req); err != nil {
		return nil, err
	}

	resp, err := s.api.Login(ctx, req)
	if err != nil {
		s.logger.Info("login failed", zap.String("email", req.Email), zap.Error(err))
		return nil, loginError(err)
	}

	if err := s.guard.Manager().Save(ctx, resp.Token, resp.User); err != nil {
		s.logger.Error("persist session", zap.Error(err))
		return nil, err
	}
	s.guard.SignedIn(resp.User)
	s.logger.Info("signed in", zap.String("user_id", resp.User.ID), zap.String("role", string(resp.User.Role)))
	return resp, nil
}

// loginError hides which credential was wrong.
func loginError(err error) error {
	switch appErrors.KindOf(err) {
	case appErrors.KindUnauthorized, appErrors.KindNotFound:
		return appErrors.Wrap(err, appErrors.ErrInvalidCredentials, appErrors.ErrInvalidCredentials.Message)
	default:
		return err
	}
}

// Register creates an account. It never signs the new user in.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if err := validation.Struct(s.validator, req); err != nil {
		return nil, err
	}
	resp, err := s.api.Register(ctx, req)
	if err != nil {
		s.logger.Info("registration failed", zap.String("email", req.Email), zap.Error(err))
		return nil, registrationError(err)
	}
	return &resp.User, nil
}

// registrationError reports a request that got no response as a failure to
// reach the server.
func registrationError(err error) error {
	if appErrors.IsKind(err, appErrors.KindNetwork) {
		return appErrors.Wrap(err, appErrors.ErrCannotConnect, "")
	}
	return err
}

// RegisterTeacher registers a teacher in an existing school.
func (s *AuthService) RegisterTeacher(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	req.Role = models.RoleTeacher
	return s.Register(ctx, req)
}

// RegisterAdmin creates the school and then its administrator. Both payloads
// are validated before anything is sent. If the user cannot be created the
// school is returned with the error.
func (s *AuthService) RegisterAdmin(ctx context.Context, school models.SchoolInput, req models.RegisterRequest) (*models.School, *models.User, error) {
	req.Role = models.RoleAdmin
	if err := validation.Struct(s.validator, school); err != nil {
		return nil, nil, err
	}
	// school_id is only known once the school exists
	pending := req
	pending.SchoolID = "pending"
	if err := validation.Struct(s.validator, pending); err != nil {
		return nil, nil, err
	}

	created, err := s.api.CreateSchool(ctx, school)
	if err != nil {
		s.logger.Info("school creation failed", zap.String("school", school.Name), zap.Error(err))
		return nil, nil, registrationError(err)
	}

	req.SchoolID = created.ID
	user, err := s.Register(ctx, req)
	if err != nil {
		s.logger.Warn("school created without administrator", zap.String("school_id", created.ID), zap.Error(err))
		return created, nil, err
	}
	return created, user, nil
}

// PublicSchools lists the schools a teacher can join during sign-up.
func (s *AuthService) PublicSchools(ctx context.Context) ([]models.School, error) {
	return s.api.ListPublicSchools(ctx)
}

// Logout clears the session.
func (s *AuthService) Logout(ctx context.Context) {
	s.guard.SignOut(ctx)
}

// CurrentUser returns the cached user of the session.
func (s *AuthService) CurrentUser(ctx context.Context) (*models.User, error) {
	return s.guard.Require(ctx)
}

// Profile fetches the profile from the API and refreshes the cached copy.
func (s *AuthService) Profile(ctx context.Context) (*models.User, error) {
	if _, err := s.guard.Require(ctx); err != nil {
		return nil, err
	}
	user, err := s.api.Me(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.guard.RefreshUser(ctx, *user); err != nil {
		s.logger.Warn("cache refreshed profile", zap.Error(err))
	}
	return user, nil
}

// IsAuthenticated reports whether a token is stored.
func (s *AuthService) IsAuthenticated(ctx context.Context) bool {
	return s.guard.Manager().IsAuthenticated(ctx)
}

// Token exposes unverified claims of the stored token.
func (s *AuthService) Token(ctx context.Context) (models.TokenInfo, error) {
	token, ok := s.guard.Token(ctx)
	if !ok {
		return models.TokenInfo{}, appErrors.ErrNotAuthenticated
	}
	return session.Inspect(token)
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/internal/repository"
	"github.com/noah-isme/sma-gradebook/internal/session"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
)

type brokenStore struct {
	*repository.MemoryStore
}

func (brokenStore) Set(ctx context.Context, key, value string) error {
	return errors.New("disk full")
}

func newAuth(api *fakeAPI, store repository.KeyValueStore) (*AuthService, *session.Guard) {
	guard := session.NewGuard(session.NewManager(store, "", nil), nil)
	return NewAuthService(api, guard, validator.New(), nil), guard
}

func validRegistration() models.RegisterRequest {
	return models.RegisterRequest{
		Name:                 "Carla",
		Email:                "carla@escola.br",
		Password:             "secret1",
		PasswordConfirmation: "secret1",
		SchoolID:             "s1",
		Address:              "Rua A, 1",
	}
}

func TestLoginPersistsSession(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{auth: &models.AuthResponse{Token: "abc", User: *teacher()}}
	svc, guard := newAuth(api, repository.NewMemoryStore())

	resp, err := svc.Login(ctx, models.LoginRequest{Email: "t@escola.br", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.Token)
	assert.True(t, svc.IsAuthenticated(ctx))
	assert.Equal(t, session.StateAuthenticated, guard.State())

	token, ok := guard.Token(ctx)
	require.True(t, ok)
	assert.Equal(t, "abc", token)

	user, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t1", user.ID)
}

func TestLoginFailsWhenSessionCannotBeSaved(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{auth: &models.AuthResponse{Token: "abc", User: *teacher()}}
	svc, guard := newAuth(api, brokenStore{repository.NewMemoryStore()})

	_, err := svc.Login(ctx, models.LoginRequest{Email: "t@escola.br", Password: "pw"})
	assert.ErrorIs(t, err, appErrors.ErrStorage)
	assert.False(t, svc.IsAuthenticated(ctx))
	assert.NotEqual(t, session.StateAuthenticated, guard.State())
}

func TestLoginMapsRejectionToInvalidCredentials(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{loginErr: appErrors.ErrUnauthorized}
	svc, _ := newAuth(api, repository.NewMemoryStore())

	_, err := svc.Login(ctx, models.LoginRequest{Email: "t@escola.br", Password: "wrong"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	api.loginErr = appErrors.ErrServiceUnavailable
	_, err = svc.Login(ctx, models.LoginRequest{Email: "t@escola.br", Password: "wrong"})
	assert.ErrorIs(t, err, appErrors.ErrServiceUnavailable)
}

func TestLoginValidatesLocally(t *testing.T) {
	api := &fakeAPI{}
	svc, _ := newAuth(api, repository.NewMemoryStore())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "not-an-email", Password: "pw"})
	assert.True(t, appErrors.IsKind(err, appErrors.KindValidation))
	assert.Zero(t, api.count("Login"))
}

func TestRegisterDoesNotSignIn(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{}
	svc, _ := newAuth(api, repository.NewMemoryStore())

	user, err := svc.RegisterTeacher(ctx, validRegistration())
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, user.Role)
	assert.Equal(t, models.RoleTeacher, api.lastReg.Role)
	assert.False(t, svc.IsAuthenticated(ctx))
}

func TestRegisterTeacherNeedsAddress(t *testing.T) {
	api := &fakeAPI{}
	svc, _ := newAuth(api, repository.NewMemoryStore())

	req := validRegistration()
	req.Address = ""
	_, err := svc.RegisterTeacher(context.Background(), req)
	assert.True(t, appErrors.IsKind(err, appErrors.KindValidation))

	req = validRegistration()
	req.PasswordConfirmation = "other"
	_, err = svc.RegisterTeacher(context.Background(), req)
	assert.True(t, appErrors.IsKind(err, appErrors.KindValidation))
	assert.Zero(t, api.count("Register"))
}

func TestRegisterAdminCreatesSchoolFirst(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{}
	svc, _ := newAuth(api, repository.NewMemoryStore())

	req := validRegistration()
	req.SchoolID = ""
	req.Address = ""
	school, user, err := svc.RegisterAdmin(ctx, models.SchoolInput{Name: "Escola", Email: "contato@escola.br"}, req)
	require.NoError(t, err)
	assert.Equal(t, []string{"CreateSchool", "Register"}, api.callLog())
	assert.Equal(t, "school-new", school.ID)
	assert.Equal(t, "school-new", user.SchoolID)
	assert.Equal(t, models.RoleAdmin, api.lastReg.Role)
}

func TestRegisterAdminReturnsSchoolOnUserFailure(t *testing.T) {
	api := &fakeAPI{mutateErr: appErrors.WithMessages(appErrors.ErrConflict, "email already taken")}
	svc, _ := newAuth(api, repository.NewMemoryStore())

	req := validRegistration()
	req.SchoolID = ""
	school, user, err := svc.RegisterAdmin(context.Background(), models.SchoolInput{Name: "Escola", Email: "contato@escola.br"}, req)
	require.Error(t, err)
	require.NotNil(t, school)
	assert.Nil(t, user)
	assert.Equal(t, "school-new", school.ID)
}

func TestRegisterWithoutResponseReadsAsCannotConnect(t *testing.T) {
	api := &fakeAPI{mutateErr: appErrors.FromTransport(errors.New("dial tcp: connection refused"))}
	svc, _ := newAuth(api, repository.NewMemoryStore())

	_, err := svc.RegisterTeacher(context.Background(), validRegistration())
	assert.ErrorIs(t, err, appErrors.ErrCannotConnect)
	assert.Equal(t, appErrors.MsgCannotConnect, appErrors.UserMessage(err))

	api.mutateErr = appErrors.ErrServiceUnavailable
	_, err = svc.RegisterTeacher(context.Background(), validRegistration())
	assert.Equal(t, appErrors.MsgServiceUnavailable, appErrors.UserMessage(err))
}

func TestRegisterAdminValidatesBeforeSending(t *testing.T) {
	api := &fakeAPI{}
	svc, _ := newAuth(api, repository.NewMemoryStore())

	req := validRegistration()
	req.Password = "123"
	req.PasswordConfirmation = "123"
	_, _, err := svc.RegisterAdmin(context.Background(), models.SchoolInput{Name: "Escola", Email: "contato@escola.br"}, req)
	assert.True(t, appErrors.IsKind(err, appErrors.KindValidation))
	assert.Empty(t, api.callLog())
}

func TestLogoutAndProfile(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{auth: &models.AuthResponse{Token: "abc", User: *teacher()}}
	svc, guard := newAuth(api, repository.NewMemoryStore())

	_, err := svc.Profile(ctx)
	assert.ErrorIs(t, err, appErrors.ErrNotAuthenticated)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "t@escola.br", Password: "pw"})
	require.NoError(t, err)

	api.auth.User.Name = "Teacher Renamed"
	user, err := svc.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Teacher Renamed", user.Name)
	assert.Equal(t, "Teacher Renamed", guard.User().Name)

	svc.Logout(ctx)
	assert.False(t, svc.IsAuthenticated(ctx))
	_, err = svc.Token(ctx)
	assert.ErrorIs(t, err, appErrors.ErrNotAuthenticated)
}

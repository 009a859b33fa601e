package handler

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-gradebook/internal/client"
	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/internal/repository"
	"github.com/noah-isme/sma-gradebook/internal/service"
	"github.com/noah-isme/sma-gradebook/internal/session"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
	"github.com/noah-isme/sma-gradebook/pkg/validation"
)

type stack struct {
	guard    *session.Guard
	auth     *service.AuthService
	grades   *service.GradeService
	students *service.StudentService
	subjects *service.SubjectService
	teachers *service.TeacherService
}

func newStack(t *testing.T) *stack {
	t.Helper()
	srv := httptest.NewServer(newTestRouter(t))
	t.Cleanup(srv.Close)

	guard := session.NewGuard(session.NewManager(repository.NewMemoryStore(), "", nil), nil)
	api := client.New(srv.URL, 2*time.Second, guard)
	v := validation.New()
	return &stack{
		guard:    guard,
		auth:     service.NewAuthService(api, guard, v, nil),
		grades:   service.NewGradeService(api, v, nil),
		students: service.NewStudentService(api, v, nil),
		subjects: service.NewSubjectService(api, v, nil),
		teachers: service.NewTeacherService(api, v, nil),
	}
}

func TestClientAgainstDevAPI(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)

	school, admin, err := s.auth.RegisterAdmin(ctx,
		models.SchoolInput{Name: "Escola Modelo", Email: "modelo@escola.br"},
		models.RegisterRequest{Name: "Dir", Email: "dir@escola.br", Password: "secret1", PasswordConfirmation: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, school.ID, admin.SchoolID)
	assert.False(t, s.auth.IsAuthenticated(ctx), "registration must not sign in")

	_, err = s.auth.Login(ctx, models.LoginRequest{Email: "dir@escola.br", Password: "secret1"})
	require.NoError(t, err)
	actor, err := s.auth.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, actor.Role)

	info, err := s.auth.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, actor.ID, info.Subject)
	require.NotNil(t, info.ExpiresAt)

	prof, err := s.teachers.Create(ctx, actor, models.TeacherInput{
		Name: "Prof", Email: "prof@escola.br", Password: "secret1", PasswordConfirmation: "secret1", Address: "Rua B",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, prof.ID)

	student, err := s.students.Create(ctx, models.StudentInput{Name: "Ana", Email: "ana@aluno.br", RegistrationNumber: "77"})
	require.NoError(t, err)
	subject, err := s.subjects.Create(ctx, actor, models.SubjectInput{
		Name: "Geografia", Code: "GEO", NumberOfGrades: 2, PassingAverage: 7, RecoveryAverage: 5, TeacherID: prof.ID,
	})
	require.NoError(t, err)

	board, err := s.grades.LoadBoard(ctx, models.GradeFilter{})
	require.NoError(t, err)
	grade, err := s.grades.SubmitCreate(ctx, board, models.CreateGradeInput{StudentID: student.ID, SubjectID: subject.ID, Scores: []float64{6}})
	require.NoError(t, err)
	assert.Equal(t, models.GradeIncomplete, grade.Status)
	require.Len(t, board.Grades, 1, "board reloads after a mutation")
	assert.Equal(t, "Ana", board.StudentName(grade.StudentID))

	_, err = s.grades.SubmitCreate(ctx, board, models.CreateGradeInput{StudentID: student.ID, SubjectID: subject.ID, Scores: []float64{9}})
	var conflict *service.GradeConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, grade.ID, conflict.Existing.ID)

	grade, err = s.grades.AddScore(ctx, board, grade.ID, 9)
	require.NoError(t, err)
	assert.Equal(t, []float64{6, 9}, grade.Scores)
	assert.InDelta(t, 7.5, grade.Average, 0.0001)
	assert.Equal(t, models.GradeApproved, grade.Status)

	grade, err = s.grades.UpdateScore(ctx, board, grade.ID, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, models.GradeRecovery, grade.Status)

	_, err = s.grades.UpdateScore(ctx, board, grade.ID, 2, 4)
	assert.ErrorIs(t, err, appErrors.ErrOutOfRange)

	rows := board.Rows(models.GradeFilter{SubjectID: subject.ID})
	require.Len(t, rows, 1)
	assert.Equal(t, "Geografia", rows[0].SubjectName)
	assert.Equal(t, "6.0, 4.0", rows[0].ScoreList())
}

func TestRejectedTokenSignsOut(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)

	_, _, err := s.auth.RegisterAdmin(ctx,
		models.SchoolInput{Name: "Escola", Email: "e@escola.br"},
		models.RegisterRequest{Name: "Dir", Email: "dir@escola.br", Password: "secret1", PasswordConfirmation: "secret1"})
	require.NoError(t, err)
	_, err = s.auth.Login(ctx, models.LoginRequest{Email: "dir@escola.br", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, s.guard.Manager().Save(ctx, "forged", *s.guard.User()))
	_, err = s.students.List(ctx)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
	assert.Equal(t, session.StateUnauthenticated, s.guard.State())
	assert.False(t, s.auth.IsAuthenticated(ctx))
}

func TestWrongPasswordReadsAsInvalidCredentials(t *testing.T) {
	s := newStack(t)
	_, err := s.auth.Login(context.Background(), models.LoginRequest{Email: "ghost@escola.br", Password: "secret1"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
	assert.Equal(t, appErrors.MsgInvalidCredentials, appErrors.UserMessage(err))
}

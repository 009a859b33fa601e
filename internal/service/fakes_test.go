package service

import (
	"context"
	"sync"

	"github.com/noah-isme/sma-gradebook/internal/models"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
)

// fakeAPI stands in for *client.Client. Every call is recorded by name.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	grades   []models.Grade
	students []models.Student
	subjects []models.Subject
	schools  []models.School
	users    []models.User

	gradesErr   error
	studentsErr error
	subjectsErr error
	mutateErr   error
	loginErr    error

	auth *models.AuthResponse

	// beforeListStudents runs inside ListStudents, before it returns.
	beforeListStudents func()

	lastCreate  *models.CreateGradeInput
	lastAdd     *models.AddScoreInput
	lastUpdate  *models.UpdateScoreInput
	lastReplace *models.UpdateAllScoresInput
	lastTeacher *models.TeacherInput
	lastSchool  *models.SchoolInput
	lastReg     *models.RegisterRequest
}

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeAPI) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) ListGrades(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error) {
	f.record("ListGrades")
	if f.gradesErr != nil {
		return nil, f.gradesErr
	}
	out := make([]models.Grade, 0, len(f.grades))
	for _, g := range f.grades {
		if filter.Matches(g) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeAPI) GetGrade(ctx context.Context, id string) (*models.Grade, error) {
	f.record("GetGrade")
	for _, g := range f.grades {
		if g.ID == id {
			out := g
			return &out, nil
		}
	}
	return nil, appErrors.ErrNotFound
}

func (f *fakeAPI) CreateGrade(ctx context.Context, in models.CreateGradeInput) (*models.Grade, error) {
	f.record("CreateGrade")
	f.lastCreate = &in
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	g := models.Grade{ID: "new", StudentID: in.StudentID, SubjectID: in.SubjectID, Scores: in.Scores, Status: models.GradeIncomplete}
	f.grades = append(f.grades, g)
	return &g, nil
}

func (f *fakeAPI) AddScore(ctx context.Context, id string, in models.AddScoreInput) (*models.Grade, error) {
	f.record("AddScore")
	f.lastAdd = &in
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	return &models.Grade{ID: id}, nil
}

func (f *fakeAPI) UpdateScore(ctx context.Context, id string, in models.UpdateScoreInput) (*models.Grade, error) {
	f.record("UpdateScore")
	f.lastUpdate = &in
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	return &models.Grade{ID: id}, nil
}

func (f *fakeAPI) ReplaceScores(ctx context.Context, id string, in models.UpdateAllScoresInput) (*models.Grade, error) {
	f.record("ReplaceScores")
	f.lastReplace = &in
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	return &models.Grade{ID: id, Scores: in.Scores}, nil
}

func (f *fakeAPI) DeleteGrade(ctx context.Context, id string) error {
	f.record("DeleteGrade")
	return f.mutateErr
}

func (f *fakeAPI) ListStudents(ctx context.Context) ([]models.Student, error) {
	f.record("ListStudents")
	if f.beforeListStudents != nil {
		f.beforeListStudents()
	}
	if f.studentsErr != nil {
		return nil, f.studentsErr
	}
	return append([]models.Student(nil), f.students...), nil
}

func (f *fakeAPI) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	f.record("GetStudent")
	return nil, appErrors.ErrNotFound
}

func (f *fakeAPI) CreateStudent(ctx context.Context, in models.StudentInput) (*models.Student, error) {
	f.record("CreateStudent")
	return &models.Student{ID: "st", Name: in.Name, Email: in.Email, RegistrationNumber: in.RegistrationNumber}, f.mutateErr
}

func (f *fakeAPI) UpdateStudent(ctx context.Context, id string, in models.StudentUpdate) (*models.Student, error) {
	f.record("UpdateStudent")
	return &models.Student{ID: id}, f.mutateErr
}

func (f *fakeAPI) DeleteStudent(ctx context.Context, id string) error {
	f.record("DeleteStudent")
	return f.mutateErr
}

func (f *fakeAPI) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	f.record("ListSubjects")
	if f.subjectsErr != nil {
		return nil, f.subjectsErr
	}
	return append([]models.Subject(nil), f.subjects...), nil
}

func (f *fakeAPI) GetSubject(ctx context.Context, id string) (*models.Subject, error) {
	f.record("GetSubject")
	return nil, appErrors.ErrNotFound
}

func (f *fakeAPI) CreateSubject(ctx context.Context, in models.SubjectInput) (*models.Subject, error) {
	f.record("CreateSubject")
	return &models.Subject{ID: "sub", Name: in.Name, TeacherID: in.TeacherID}, f.mutateErr
}

func (f *fakeAPI) UpdateSubject(ctx context.Context, id string, in models.SubjectUpdate) (*models.Subject, error) {
	f.record("UpdateSubject")
	return &models.Subject{ID: id}, f.mutateErr
}

func (f *fakeAPI) DeleteSubject(ctx context.Context, id string) error {
	f.record("DeleteSubject")
	return f.mutateErr
}

func (f *fakeAPI) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	f.record("Login")
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.auth, nil
}

func (f *fakeAPI) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	f.record("Register")
	f.lastReg = &req
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	return &models.AuthResponse{User: models.User{ID: "u-new", Name: req.Name, Email: req.Email, Role: req.Role, SchoolID: req.SchoolID}, Token: "ignored"}, nil
}

func (f *fakeAPI) Me(ctx context.Context) (*models.User, error) {
	f.record("Me")
	if f.auth == nil {
		return nil, appErrors.ErrUnauthorized
	}
	u := f.auth.User
	return &u, nil
}

func (f *fakeAPI) ListPublicSchools(ctx context.Context) ([]models.School, error) {
	f.record("ListPublicSchools")
	return f.schools, nil
}

func (f *fakeAPI) ListSchools(ctx context.Context) ([]models.School, error) {
	f.record("ListSchools")
	return f.schools, nil
}

func (f *fakeAPI) GetSchool(ctx context.Context, id string) (*models.School, error) {
	f.record("GetSchool")
	return nil, appErrors.ErrNotFound
}

func (f *fakeAPI) CreateSchool(ctx context.Context, in models.SchoolInput) (*models.School, error) {
	f.record("CreateSchool")
	f.lastSchool = &in
	return &models.School{ID: "school-new", Name: in.Name, Email: in.Email}, nil
}

func (f *fakeAPI) UpdateSchool(ctx context.Context, id string, in models.SchoolUpdate) (*models.School, error) {
	f.record("UpdateSchool")
	return &models.School{ID: id}, nil
}

func (f *fakeAPI) DeleteSchool(ctx context.Context, id string) error {
	f.record("DeleteSchool")
	return nil
}

func (f *fakeAPI) ListUsers(ctx context.Context, role models.UserRole) ([]models.User, error) {
	f.record("ListUsers")
	return f.users, nil
}

func (f *fakeAPI) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	f.record("ListTeachers")
	return f.users, nil
}

func (f *fakeAPI) GetUser(ctx context.Context, id string) (*models.User, error) {
	f.record("GetUser")
	return &models.User{ID: id}, nil
}

func (f *fakeAPI) CreateTeacher(ctx context.Context, in models.TeacherInput) (*models.Teacher, error) {
	f.record("CreateTeacher")
	f.lastTeacher = &in
	return &models.Teacher{ID: "t-new", Name: in.Name, Role: models.RoleTeacher, SchoolID: in.SchoolID}, nil
}

func (f *fakeAPI) UpdateUser(ctx context.Context, id string, in models.UpdateUserInput) (*models.User, error) {
	f.record("UpdateUser")
	return &models.User{ID: id}, nil
}

func (f *fakeAPI) DeleteUser(ctx context.Context, id string) error {
	f.record("DeleteUser")
	return nil
}

func admin() *models.User {
	return &models.User{ID: "a1", Name: "Admin", Role: models.RoleAdmin, SchoolID: "s1"}
}

func teacher() *models.User {
	return &models.User{ID: "t1", Name: "Teacher", Role: models.RoleTeacher, SchoolID: "s1"}
}

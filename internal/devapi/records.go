package devapi

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/internal/repository"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
	"github.com/noah-isme/sma-gradebook/pkg/validation"
)

// Records handles schools, students, subjects and grades. Every call is
// scoped to the school in the caller's claims.
type Records struct {
	db        *repository.MemoryDB
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRecords constructs the record rules.
func NewRecords(db *repository.MemoryDB, validate *validator.Validate, logger *zap.Logger) *Records {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Records{db: db, validator: validation.Register(validate), logger: logger}
}

func rejected(messages ...string) error {
	return appErrors.WithMessages(appErrors.ErrRejected, messages...)
}

// CreateSchool registers a school. No session is needed so that an
// administrator can sign up.
func (r *Records) CreateSchool(in models.SchoolInput) (*models.School, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(r.validator, in); err != nil {
		return nil, err
	}
	school := r.db.CreateSchool(models.School{Name: in.Name, Email: in.Email, Address: in.Address, Phone: in.Phone})
	return &school, nil
}

// PublicSchools lists every school with contact details stripped.
func (r *Records) PublicSchools() []models.School {
	schools := r.db.ListSchools()
	for i := range schools {
		schools[i] = models.School{ID: schools[i].ID, Name: schools[i].Name}
	}
	return schools
}

// Schools returns the caller's school.
func (r *Records) Schools(claims *models.Claims) []models.School {
	school, err := r.db.School(claims.SchoolID)
	if err != nil {
		return []models.School{}
	}
	return []models.School{*school}
}

// School returns the caller's school by ID.
func (r *Records) School(claims *models.Claims, id string) (*models.School, error) {
	if id != claims.SchoolID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
	}
	return r.db.School(id)
}

// UpdateSchool applies a partial update to the caller's school.
func (r *Records) UpdateSchool(claims *models.Claims, id string, in models.SchoolUpdate) (*models.School, error) {
	if err := validation.Struct(r.validator, in); err != nil {
		return nil, err
	}
	school, err := r.School(claims, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		school.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		school.Email = strings.TrimSpace(*in.Email)
	}
	if in.Address != nil {
		school.Address = *in.Address
	}
	if in.Phone != nil {
		school.Phone = *in.Phone
	}
	return r.db.UpdateSchool(*school)
}

// DeleteSchool removes the caller's school with everything it owns.
func (r *Records) DeleteSchool(claims *models.Claims, id string) error {
	if _, err := r.School(claims, id); err != nil {
		return err
	}
	r.logger.Warn("school deleted", zap.String("school_id", id), zap.String("by", claims.UserID))
	return r.db.DeleteSchool(id)
}

// Students lists the students of the caller's school.
func (r *Records) Students(claims *models.Claims) []models.Student {
	return r.db.ListStudents(claims.SchoolID)
}

// Student returns one student.
func (r *Records) Student(claims *models.Claims, id string) (*models.Student, error) {
	return r.db.Student(claims.SchoolID, id)
}

// CreateStudent registers a student in the caller's school.
func (r *Records) CreateStudent(claims *models.Claims, in models.StudentInput) (*models.Student, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.RegistrationNumber = strings.TrimSpace(in.RegistrationNumber)
	if err := validation.Struct(r.validator, in); err != nil {
		return nil, err
	}
	return r.db.CreateStudent(models.Student{
		Name:               in.Name,
		Email:              in.Email,
		RegistrationNumber: in.RegistrationNumber,
		Phone:              in.Phone,
		SchoolID:           claims.SchoolID,
	})
}

// UpdateStudent applies a partial update.
func (r *Records) UpdateStudent(claims *models.Claims, id string, in models.StudentUpdate) (*models.Student, error) {
	if err := validation.Struct(r.validator, in); err != nil {
		return nil, err
	}
	student, err := r.db.Student(claims.SchoolID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		student.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		student.Email = strings.TrimSpace(*in.Email)
	}
	if in.RegistrationNumber != nil {
		student.RegistrationNumber = strings.TrimSpace(*in.RegistrationNumber)
	}
	if in.Phone != nil {
		student.Phone = *in.Phone
	}
	return r.db.UpdateStudent(*student)
}

// DeleteStudent removes a student and their grades.
func (r *Records) DeleteStudent(claims *models.Claims, id string) error {
	return r.db.DeleteStudent(claims.SchoolID, id)
}

// Subjects lists the subjects of the caller's school.
func (r *Records) Subjects(claims *models.Claims) []models.Subject {
	return r.db.ListSubjects(claims.SchoolID)
}

// Subject returns one subject.
func (r *Records) Subject(claims *models.Claims, id string) (*models.Subject, error) {
	return r.db.Subject(claims.SchoolID, id)
}

func (r *Records) checkTeacher(claims *models.Claims, teacherID string) error {
	if claims.Role == models.RoleTeacher && teacherID != claims.UserID {
		return appErrors.Clone(appErrors.ErrForbidden, "teachers only manage their own subjects")
	}
	rec, err := r.db.User(teacherID)
	if err != nil || rec.SchoolID != claims.SchoolID || rec.Role != models.RoleTeacher {
		return rejected("teacher not found")
	}
	return nil
}

// CreateSubject registers a subject taught by a teacher of the school.
func (r *Records) CreateSubject(claims *models.Claims, in models.SubjectInput) (*models.Subject, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Code = strings.TrimSpace(in.Code)
	if claims.Role == models.RoleTeacher && in.TeacherID == "" {
		in.TeacherID = claims.UserID
	}
	if err := validation.Struct(r.validator, in); err != nil {
		return nil, err
	}
	if err := r.checkTeacher(claims, in.TeacherID); err != nil {
		return nil, err
	}
	subject := r.db.CreateSubject(models.Subject{
		Name:            in.Name,
		Code:            in.Code,
		NumberOfGrades:  in.NumberOfGrades,
		PassingAverage:  in.PassingAverage,
		RecoveryAverage: in.RecoveryAverage,
		TeacherID:       in.TeacherID,
		SchoolID:        claims.SchoolID,
	})
	return &subject, nil
}

// UpdateSubject applies a partial update and reclassifies the subject's
// grades when its thresholds change.
func (r *Records) UpdateSubject(claims *models.Claims, id string, in models.SubjectUpdate) (*models.Subject, error) {
	if err := validation.Struct(r.validator, in); err != nil {
		return nil, err
	}
	subject, err := r.db.Subject(claims.SchoolID, id)
	if err != nil {
		return nil, err
	}
	if claims.Role == models.RoleTeacher && subject.TeacherID != claims.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "teachers only manage their own subjects")
	}
	if in.Name != nil {
		subject.Name = strings.TrimSpace(*in.Name)
	}
	if in.Code != nil {
		subject.Code = strings.TrimSpace(*in.Code)
	}
	if in.NumberOfGrades != nil {
		subject.NumberOfGrades = *in.NumberOfGrades
	}
	if in.PassingAverage != nil {
		subject.PassingAverage = *in.PassingAverage
	}
	if in.RecoveryAverage != nil {
		subject.RecoveryAverage = *in.RecoveryAverage
	}
	if in.TeacherID != nil {
		if err := r.checkTeacher(claims, *in.TeacherID); err != nil {
			return nil, err
		}
		subject.TeacherID = *in.TeacherID
	}
	if subject.RecoveryAverage > subject.PassingAverage {
		return nil, rejected("recovery_average must not exceed passing_average")
	}

	updated, err := r.db.UpdateSubject(*subject)
	if err != nil {
		return nil, err
	}
	for _, g := range r.db.ListGrades(claims.SchoolID, models.GradeFilter{SubjectID: id}) {
		g.Average, g.Status = Classify(g.Scores, *updated)
		if _, err := r.db.UpdateGrade(g); err != nil {
			r.logger.Warn("reclassify grade", zap.String("grade_id", g.ID), zap.Error(err))
		}
	}
	return updated, nil
}

// DeleteSubject removes a subject and its grades.
func (r *Records) DeleteSubject(claims *models.Claims, id string) error {
	return r.db.DeleteSubject(claims.SchoolID, id)
}

// Grades lists grades matching filter.
func (r *Records) Grades(claims *models.Claims, filter models.GradeFilter) []models.Grade {
	return r.db.ListGrades(claims.SchoolID, filter)
}

// Grade returns one grade.
func (r *Records) Grade(claims *models.Claims, id string) (*models.Grade, error) {
	return r.db.Grade(claims.SchoolID, id)
}

// CreateGrade stores the first score list of a student in a subject.
func (r *Records) CreateGrade(claims *models.Claims, in models.CreateGradeInput) (*models.Grade, error) {
	if err := validation.Struct(r.validator, in); err != nil {
		return nil, err
	}
	if _, err := r.db.Student(claims.SchoolID, in.StudentID); err != nil {
		return nil, rejected("student not found")
	}
	subject, err := r.db.Subject(claims.SchoolID, in.SubjectID)
	if err != nil {
		return nil, rejected("subject not found")
	}
	grade := models.Grade{
		StudentID: in.StudentID,
		SubjectID: in.SubjectID,
		Scores:    in.Scores,
		SchoolID:  claims.SchoolID,
	}
	grade.Average, grade.Status = Classify(grade.Scores, *subject)
	return r.db.CreateGrade(grade)
}

// UpdateGrade applies one PUT body shape and reclassifies.
func (r *Records) UpdateGrade(claims *models.Claims, id string, change models.GradeChange) (*models.Grade, error) {
	grade, err := r.db.Grade(claims.SchoolID, id)
	if err != nil {
		return nil, err
	}
	scores, err := ApplyChange(grade.Scores, change)
	if err != nil {
		return nil, err
	}
	subject, err := r.db.Subject(claims.SchoolID, grade.SubjectID)
	if err != nil {
		return nil, err
	}
	grade.Scores = scores
	grade.Average, grade.Status = Classify(scores, *subject)
	return r.db.UpdateGrade(*grade)
}

// DeleteGrade removes a grade.
func (r *Records) DeleteGrade(claims *models.Claims, id string) error {
	return r.db.DeleteGrade(claims.SchoolID, id)
}

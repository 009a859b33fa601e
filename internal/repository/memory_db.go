package repository

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/sma-gradebook/internal/models"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
)

// UserRecord is a stored account. The hash never leaves the dev API.
type UserRecord struct {
	models.User
	PasswordHash string
}

// MemoryDB backs the dev API. Every entity except schools and users is
// scoped to a school; lookups outside the caller's school read as missing.
type MemoryDB struct {
	mu       sync.RWMutex
	now      func() time.Time
	users    map[string]UserRecord
	schools  map[string]models.School
	students map[string]models.Student
	subjects map[string]models.Subject
	grades   map[string]models.Grade
}

// NewMemoryDB constructs an empty database.
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		now:      time.Now,
		users:    make(map[string]UserRecord),
		schools:  make(map[string]models.School),
		students: make(map[string]models.Student),
		subjects: make(map[string]models.Subject),
		grades:   make(map[string]models.Grade),
	}
}

func (db *MemoryDB) stamp() time.Time {
	return db.now().UTC()
}

func notFound(entity string) error {
	return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
}

func conflict(message string) error {
	return appErrors.WithMessages(appErrors.ErrConflict, message)
}

// sortedBy returns the rows ordered by creation time, then ID.
func sortedBy[T any](rows map[string]T, keep func(T) bool, created func(T) (time.Time, string)) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if keep == nil || keep(row) {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ti, idI := created(out[i])
		tj, idJ := created(out[j])
		if ti.Equal(tj) {
			return idI < idJ
		}
		return ti.Before(tj)
	})
	return out
}

// CreateUser stores a new account. Emails are unique regardless of case.
func (db *MemoryDB) CreateUser(rec UserRecord) (*UserRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.users {
		if strings.EqualFold(existing.Email, rec.Email) {
			return nil, conflict("email has already been taken")
		}
	}
	now := db.stamp()
	rec.ID = uuid.NewString()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	db.users[rec.ID] = rec
	return &rec, nil
}

// UserByEmail finds an account for login.
func (db *MemoryDB) UserByEmail(email string) (*UserRecord, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	for _, rec := range db.users {
		if strings.EqualFold(rec.Email, email) {
			out := rec
			return &out, nil
		}
	}
	return nil, notFound("user")
}

// User returns an account by ID.
func (db *MemoryDB) User(id string) (*UserRecord, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	rec, ok := db.users[id]
	if !ok {
		return nil, notFound("user")
	}
	return &rec, nil
}

// ListUsers returns the users of a school, optionally narrowed to one role.
func (db *MemoryDB) ListUsers(schoolID string, role models.UserRole) []models.User {
	db.mu.RLock()
	defer db.mu.RUnlock()
	recs := sortedBy(db.users, func(r UserRecord) bool {
		return r.SchoolID == schoolID && (role == "" || r.Role == role)
	}, func(r UserRecord) (time.Time, string) { return r.CreatedAt, r.ID })
	out := make([]models.User, len(recs))
	for i, r := range recs {
		out[i] = r.User
	}
	return out
}

// UpdateUser replaces a stored account.
func (db *MemoryDB) UpdateUser(rec UserRecord) (*UserRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	current, ok := db.users[rec.ID]
	if !ok {
		return nil, notFound("user")
	}
	for id, existing := range db.users {
		if id != rec.ID && strings.EqualFold(existing.Email, rec.Email) {
			return nil, conflict("email has already been taken")
		}
	}
	rec.CreatedAt = current.CreatedAt
	rec.UpdatedAt = db.stamp()
	db.users[rec.ID] = rec
	return &rec, nil
}

// DeleteUser removes an account.
func (db *MemoryDB) DeleteUser(id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.users[id]; !ok {
		return notFound("user")
	}
	delete(db.users, id)
	return nil
}

// CreateSchool stores a new school.
func (db *MemoryDB) CreateSchool(school models.School) models.School {
	db.mu.Lock()
	defer db.mu.Unlock()
	now := db.stamp()
	school.ID = uuid.NewString()
	school.CreatedAt = now
	school.UpdatedAt = now
	db.schools[school.ID] = school
	return school
}

// School returns a school by ID.
func (db *MemoryDB) School(id string) (*models.School, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	school, ok := db.schools[id]
	if !ok {
		return nil, notFound("school")
	}
	return &school, nil
}

// ListSchools returns every school.
func (db *MemoryDB) ListSchools() []models.School {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return sortedBy(db.schools, nil, func(s models.School) (time.Time, string) { return s.CreatedAt, s.ID })
}

// UpdateSchool replaces a stored school.
func (db *MemoryDB) UpdateSchool(school models.School) (*models.School, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	current, ok := db.schools[school.ID]
	if !ok {
		return nil, notFound("school")
	}
	school.CreatedAt = current.CreatedAt
	school.UpdatedAt = db.stamp()
	db.schools[school.ID] = school
	return &school, nil
}

// DeleteSchool removes a school and everything it owns.
func (db *MemoryDB) DeleteSchool(id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.schools[id]; !ok {
		return notFound("school")
	}
	delete(db.schools, id)
	for key, u := range db.users {
		if u.SchoolID == id {
			delete(db.users, key)
		}
	}
	for key, s := range db.students {
		if s.SchoolID == id {
			delete(db.students, key)
		}
	}
	for key, s := range db.subjects {
		if s.SchoolID == id {
			delete(db.subjects, key)
		}
	}
	for key, g := range db.grades {
		if g.SchoolID == id {
			delete(db.grades, key)
		}
	}
	return nil
}

func (db *MemoryDB) registrationTaken(student models.Student) bool {
	for id, existing := range db.students {
		if id != student.ID && existing.SchoolID == student.SchoolID &&
			strings.EqualFold(existing.RegistrationNumber, student.RegistrationNumber) {
			return true
		}
	}
	return false
}

// CreateStudent stores a student. Registration numbers are unique per school.
func (db *MemoryDB) CreateStudent(student models.Student) (*models.Student, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.registrationTaken(student) {
		return nil, conflict("registration_number has already been taken")
	}
	now := db.stamp()
	student.ID = uuid.NewString()
	student.CreatedAt = now
	student.UpdatedAt = now
	db.students[student.ID] = student
	return &student, nil
}

// Student returns a student of the given school.
func (db *MemoryDB) Student(schoolID, id string) (*models.Student, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	student, ok := db.students[id]
	if !ok || student.SchoolID != schoolID {
		return nil, notFound("student")
	}
	return &student, nil
}

// ListStudents returns the students of a school.
func (db *MemoryDB) ListStudents(schoolID string) []models.Student {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return sortedBy(db.students, func(s models.Student) bool { return s.SchoolID == schoolID },
		func(s models.Student) (time.Time, string) { return s.CreatedAt, s.ID })
}

// UpdateStudent replaces a stored student.
func (db *MemoryDB) UpdateStudent(student models.Student) (*models.Student, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	current, ok := db.students[student.ID]
	if !ok || current.SchoolID != student.SchoolID {
		return nil, notFound("student")
	}
	if db.registrationTaken(student) {
		return nil, conflict("registration_number has already been taken")
	}
	student.CreatedAt = current.CreatedAt
	student.UpdatedAt = db.stamp()
	db.students[student.ID] = student
	return &student, nil
}

// DeleteStudent removes a student and their grades.
func (db *MemoryDB) DeleteStudent(schoolID, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	student, ok := db.students[id]
	if !ok || student.SchoolID != schoolID {
		return notFound("student")
	}
	delete(db.students, id)
	for key, g := range db.grades {
		if g.StudentID == id {
			delete(db.grades, key)
		}
	}
	return nil
}

// CreateSubject stores a subject.
func (db *MemoryDB) CreateSubject(subject models.Subject) models.Subject {
	db.mu.Lock()
	defer db.mu.Unlock()
	now := db.stamp()
	subject.ID = uuid.NewString()
	subject.CreatedAt = now
	subject.UpdatedAt = now
	db.subjects[subject.ID] = subject
	return subject
}

// Subject returns a subject of the given school.
func (db *MemoryDB) Subject(schoolID, id string) (*models.Subject, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	subject, ok := db.subjects[id]
	if !ok || subject.SchoolID != schoolID {
		return nil, notFound("subject")
	}
	return &subject, nil
}

// ListSubjects returns the subjects of a school.
func (db *MemoryDB) ListSubjects(schoolID string) []models.Subject {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return sortedBy(db.subjects, func(s models.Subject) bool { return s.SchoolID == schoolID },
		func(s models.Subject) (time.Time, string) { return s.CreatedAt, s.ID })
}

// UpdateSubject replaces a stored subject.
func (db *MemoryDB) UpdateSubject(subject models.Subject) (*models.Subject, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	current, ok := db.subjects[subject.ID]
	if !ok || current.SchoolID != subject.SchoolID {
		return nil, notFound("subject")
	}
	subject.CreatedAt = current.CreatedAt
	subject.UpdatedAt = db.stamp()
	db.subjects[subject.ID] = subject
	return &subject, nil
}

// DeleteSubject removes a subject and its grades.
func (db *MemoryDB) DeleteSubject(schoolID, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	subject, ok := db.subjects[id]
	if !ok || subject.SchoolID != schoolID {
		return notFound("subject")
	}
	delete(db.subjects, id)
	for key, g := range db.grades {
		if g.SubjectID == id {
			delete(db.grades, key)
		}
	}
	return nil
}

// CreateGrade stores a grade. A student has at most one grade per subject.
func (db *MemoryDB) CreateGrade(grade models.Grade) (*models.Grade, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, existing := range db.grades {
		if existing.StudentID == grade.StudentID && existing.SubjectID == grade.SubjectID {
			return nil, conflict("grade already exists for this student and subject")
		}
	}
	now := db.stamp()
	grade.ID = uuid.NewString()
	grade.Scores = append([]float64(nil), grade.Scores...)
	grade.CreatedAt = now
	grade.UpdatedAt = now
	db.grades[grade.ID] = grade
	return &grade, nil
}

// Grade returns a grade of the given school.
func (db *MemoryDB) Grade(schoolID, id string) (*models.Grade, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	grade, ok := db.grades[id]
	if !ok || grade.SchoolID != schoolID {
		return nil, notFound("grade")
	}
	grade.Scores = append([]float64(nil), grade.Scores...)
	return &grade, nil
}

// ListGrades returns the grades of a school matching filter.
func (db *MemoryDB) ListGrades(schoolID string, filter models.GradeFilter) []models.Grade {
	db.mu.RLock()
	defer db.mu.RUnlock()
	out := sortedBy(db.grades, func(g models.Grade) bool { return g.SchoolID == schoolID && filter.Matches(g) },
		func(g models.Grade) (time.Time, string) { return g.CreatedAt, g.ID })
	for i := range out {
		out[i].Scores = append([]float64(nil), out[i].Scores...)
	}
	return out
}

// UpdateGrade replaces a stored grade.
func (db *MemoryDB) UpdateGrade(grade models.Grade) (*models.Grade, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	current, ok := db.grades[grade.ID]
	if !ok || current.SchoolID != grade.SchoolID {
		return nil, notFound("grade")
	}
	grade.StudentID = current.StudentID
	grade.SubjectID = current.SubjectID
	grade.Scores = append([]float64(nil), grade.Scores...)
	grade.CreatedAt = current.CreatedAt
	grade.UpdatedAt = db.stamp()
	db.grades[grade.ID] = grade
	return &grade, nil
}

// DeleteGrade removes a grade.
func (db *MemoryDB) DeleteGrade(schoolID, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	grade, ok := db.grades[id]
	if !ok || grade.SchoolID != schoolID {
		return notFound("grade")
	}
	delete(db.grades, id)
	return nil
}

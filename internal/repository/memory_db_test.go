package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-gradebook/internal/models"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
)

func steppedDB() *MemoryDB {
	db := NewMemoryDB()
	clock := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	db.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return db
}

func TestMemoryDBListsInCreationOrder(t *testing.T) {
	db := steppedDB()
	school := db.CreateSchool(models.School{Name: "Escola"})
	for _, reg := range []string{"3", "1", "2"} {
		_, err := db.CreateStudent(models.Student{Name: "S" + reg, RegistrationNumber: reg, SchoolID: school.ID})
		require.NoError(t, err)
	}

	students := db.ListStudents(school.ID)
	require.Len(t, students, 3)
	assert.Equal(t, []string{"S3", "S1", "S2"}, []string{students[0].Name, students[1].Name, students[2].Name})
	assert.Empty(t, db.ListStudents("other"))
}

func TestMemoryDBScopesBySchool(t *testing.T) {
	db := steppedDB()
	a := db.CreateSchool(models.School{Name: "A"})
	b := db.CreateSchool(models.School{Name: "B"})
	subject := db.CreateSubject(models.Subject{Name: "Artes", SchoolID: a.ID})

	_, err := db.Subject(b.ID, subject.ID)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.ErrorIs(t, db.DeleteSubject(b.ID, subject.ID), appErrors.ErrNotFound)

	got, err := db.Subject(a.ID, subject.ID)
	require.NoError(t, err)
	assert.Equal(t, "Artes", got.Name)
}

func TestMemoryDBGradeCopiesScores(t *testing.T) {
	db := steppedDB()
	school := db.CreateSchool(models.School{Name: "Escola"})
	scores := []float64{5, 6}
	grade, err := db.CreateGrade(models.Grade{StudentID: "st", SubjectID: "sub", SchoolID: school.ID, Scores: scores})
	require.NoError(t, err)

	scores[0] = 0
	stored, err := db.Grade(school.ID, grade.ID)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 6}, stored.Scores)

	stored.StudentID = "someone-else"
	stored.Scores = []float64{9}
	updated, err := db.UpdateGrade(*stored)
	require.NoError(t, err)
	assert.Equal(t, "st", updated.StudentID)
	assert.Equal(t, grade.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(grade.UpdatedAt))
}

func TestMemoryDBDeleteSchoolCascades(t *testing.T) {
	db := steppedDB()
	school := db.CreateSchool(models.School{Name: "Escola"})
	_, err := db.CreateUser(UserRecord{User: models.User{Email: "a@b.com", SchoolID: school.ID}})
	require.NoError(t, err)
	_, err = db.CreateUser(UserRecord{User: models.User{Email: "A@B.com", SchoolID: school.ID}})
	assert.ErrorIs(t, err, appErrors.ErrConflict)
	_, err = db.CreateGrade(models.Grade{StudentID: "st", SubjectID: "sub", SchoolID: school.ID})
	require.NoError(t, err)

	require.NoError(t, db.DeleteSchool(school.ID))
	assert.Empty(t, db.ListUsers(school.ID, ""))
	assert.Empty(t, db.ListGrades(school.ID, models.GradeFilter{}))
	_, err = db.UserByEmail("a@b.com")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.ErrorIs(t, db.DeleteSchool(school.ID), appErrors.ErrNotFound)
}

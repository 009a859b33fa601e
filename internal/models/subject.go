package models

import "time"

// Subject represents an academic subject. The averages are thresholds the API
// uses to classify grades; the client only displays them.
type Subject struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Code            string    `json:"code"`
	NumberOfGrades  int       `json:"number_of_grades"`
	PassingAverage  float64   `json:"passing_average"`
	RecoveryAverage float64   `json:"recovery_average"`
	TeacherID       string    `json:"teacher_id"`
	SchoolID        string    `json:"school_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SubjectInput is the create payload sent as {"subject": {...}}.
type SubjectInput struct {
	Name            string  `json:"name" validate:"required"`
	Code            string  `json:"code" validate:"required"`
	NumberOfGrades  int     `json:"number_of_grades" validate:"required,min=1"`
	PassingAverage  float64 `json:"passing_average" validate:"score"`
	RecoveryAverage float64 `json:"recovery_average" validate:"score,ltefield=PassingAverage"`
	TeacherID       string  `json:"teacher_id" validate:"required"`
}

// SubjectUpdate is a partial update.
type SubjectUpdate struct {
	Name            *string  `json:"name,omitempty" validate:"omitempty,min=1"`
	Code            *string  `json:"code,omitempty" validate:"omitempty,min=1"`
	NumberOfGrades  *int     `json:"number_of_grades,omitempty" validate:"omitempty,min=1"`
	PassingAverage  *float64 `json:"passing_average,omitempty" validate:"omitempty,score"`
	RecoveryAverage *float64 `json:"recovery_average,omitempty" validate:"omitempty,score"`
	TeacherID       *string  `json:"teacher_id,omitempty" validate:"omitempty,min=1"`
}

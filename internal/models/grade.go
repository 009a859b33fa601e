package models

import "time"

// GradeStatus is derived by the API from the average and subject thresholds.
type GradeStatus string

const (
	GradeApproved   GradeStatus = "approved"
	GradeRecovery   GradeStatus = "recovery"
	GradeFailed     GradeStatus = "failed"
	GradeIncomplete GradeStatus = "incomplete"
)

// Label returns the display label; unknown values read as incomplete.
func (s GradeStatus) Label() string {
	switch s {
	case GradeApproved:
		return "Aprovado"
	case GradeRecovery:
		return "Recuperação"
	case GradeFailed:
		return "Reprovado"
	default:
		return "Incompleto"
	}
}

// Grade is the score list of one student in one subject.
type Grade struct {
	ID        string      `json:"id"`
	StudentID string      `json:"student_id"`
	SubjectID string      `json:"subject_id"`
	Scores    []float64   `json:"scores"`
	Average   float64     `json:"average"`
	Status    GradeStatus `json:"status"`
	SchoolID  string      `json:"school_id"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// GradeFilter narrows grade listings.
type GradeFilter struct {
	StudentID string
	SubjectID string
}

// Matches reports whether g satisfies the filter.
func (f GradeFilter) Matches(g Grade) bool {
	if f.StudentID != "" && f.StudentID != g.StudentID {
		return false
	}
	if f.SubjectID != "" && f.SubjectID != g.SubjectID {
		return false
	}
	return true
}

// CreateGradeInput is sent as {"grade": {...}}.
type CreateGradeInput struct {
	StudentID string    `json:"student_id" validate:"required"`
	SubjectID string    `json:"subject_id" validate:"required"`
	Scores    []float64 `json:"scores" validate:"required,min=1,dive,score"`
}

// AddScoreInput appends a single score.
type AddScoreInput struct {
	AddScore float64 `json:"add_score" validate:"score"`
}

// UpdateScoreInput replaces one score by position.
type UpdateScoreInput struct {
	ScoreIndex  int     `json:"score_index" validate:"gte=0"`
	UpdateScore float64 `json:"update_score" validate:"score"`
}

// UpdateAllScoresInput replaces the whole score list.
type UpdateAllScoresInput struct {
	Scores []float64 `json:"scores" validate:"required,min=1,dive,score"`
}

// GradeChange is the server-side view of a PUT body. Exactly one shape is
// expected: scores, add_score, or score_index with update_score.
type GradeChange struct {
	Scores      []float64 `json:"scores,omitempty"`
	AddScore    *float64  `json:"add_score,omitempty"`
	ScoreIndex  *int      `json:"score_index,omitempty"`
	UpdateScore *float64  `json:"update_score,omitempty"`
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/sma-gradebook/internal/models"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
	"github.com/noah-isme/sma-gradebook/pkg/validation"
)

// Fallback names for references missing from the loaded lists.
const (
	UnknownStudent = "Desconhecido"
	UnknownSubject = "Desconhecida"
	UnknownTeacher = "Desconhecido"
)

type gradeAPI interface {
	ListGrades(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error)
	GetGrade(ctx context.Context, id string) (*models.Grade, error)
	CreateGrade(ctx context.Context, in models.CreateGradeInput) (*models.Grade, error)
	AddScore(ctx context.Context, id string, in models.AddScoreInput) (*models.Grade, error)
	UpdateScore(ctx context.Context, id string, in models.UpdateScoreInput) (*models.Grade, error)
	ReplaceScores(ctx context.Context, id string, in models.UpdateAllScoresInput) (*models.Grade, error)
	DeleteGrade(ctx context.Context, id string) error
	ListStudents(ctx context.Context) ([]models.Student, error)
	ListSubjects(ctx context.Context) ([]models.Subject, error)
}

// GradeConflictError is returned when a grade already exists for the pair.
// Existing is the record the caller should edit instead.
type GradeConflictError struct {
	Existing models.Grade
}

func (e *GradeConflictError) Error() string {
	return fmt.Sprintf("%s (grade %s)", appErrors.ErrGradeExists.Message, e.Existing.ID)
}

// Unwrap exposes the conflict kind to errors.Is and errors.As.
func (e *GradeConflictError) Unwrap() error {
	return appErrors.ErrGradeExists
}

// GradeBoard is the loaded state of the grades screen. It is owned by a
// single caller and is not safe for concurrent use.
type GradeBoard struct {
	Filter   models.GradeFilter
	Grades   []models.Grade
	Students []models.Student
	Subjects []models.Subject
}

// Find returns the grade of the pair, if loaded.
func (b *GradeBoard) Find(studentID, subjectID string) (*models.Grade, bool) {
	if b == nil {
		return nil, false
	}
	for i := range b.Grades {
		if b.Grades[i].StudentID == studentID && b.Grades[i].SubjectID == subjectID {
			grade := b.Grades[i]
			return &grade, true
		}
	}
	return nil, false
}

// Grade returns a loaded grade by ID.
func (b *GradeBoard) Grade(id string) (*models.Grade, bool) {
	if b == nil {
		return nil, false
	}
	for i := range b.Grades {
		if b.Grades[i].ID == id {
			grade := b.Grades[i]
			return &grade, true
		}
	}
	return nil, false
}

// StudentName resolves a student ID against the loaded students.
func (b *GradeBoard) StudentName(id string) string {
	if b != nil {
		for _, s := range b.Students {
			if s.ID == id {
				return s.Name
			}
		}
	}
	return UnknownStudent
}

// SubjectName resolves a subject ID against the loaded subjects.
func (b *GradeBoard) SubjectName(id string) string {
	if b != nil {
		for _, s := range b.Subjects {
			if s.ID == id {
				return s.Name
			}
		}
	}
	return UnknownSubject
}

// Visible returns the loaded grades matching filter.
func (b *GradeBoard) Visible(filter models.GradeFilter) []models.Grade {
	if b == nil {
		return nil
	}
	out := make([]models.Grade, 0, len(b.Grades))
	for _, g := range b.Grades {
		if filter.Matches(g) {
			out = append(out, g)
		}
	}
	return out
}

// GradeRow is a grade resolved for display.
type GradeRow struct {
	ID          string
	StudentName string
	SubjectName string
	Scores      []float64
	Average     float64
	Status      models.GradeStatus
}

// ScoreList renders the score list for display.
func (r GradeRow) ScoreList() string {
	parts := make([]string, len(r.Scores))
	for i, s := range r.Scores {
		parts[i] = FormatScore(s)
	}
	return strings.Join(parts, ", ")
}

// Rows resolves the visible grades for display.
func (b *GradeBoard) Rows(filter models.GradeFilter) []GradeRow {
	grades := b.Visible(filter)
	rows := make([]GradeRow, 0, len(grades))
	for _, g := range grades {
		rows = append(rows, GradeRow{
			ID:          g.ID,
			StudentName: b.StudentName(g.StudentID),
			SubjectName: b.SubjectName(g.SubjectID),
			Scores:      cloneScores(g.Scores),
			Average:     g.Average,
			Status:      g.Status,
		})
	}
	return rows
}

// GradeService validates score lists and submits them to the API. Average and
// status always come from the API response.
type GradeService struct {
	api       gradeAPI
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradeService constructs the grade service.
func NewGradeService(api gradeAPI, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{api: api, validator: validation.Register(validate), logger: logger}
}

// LoadBoard fetches grades, students and subjects in parallel. Each load runs
// to completion independently; the first failure is returned together with
// whatever did load.
func (s *GradeService) LoadBoard(ctx context.Context, filter models.GradeFilter) (*GradeBoard, error) {
	board := &GradeBoard{Filter: filter}
	var g errgroup.Group
	g.Go(func() error {
		grades, err := s.api.ListGrades(ctx, filter)
		if err != nil {
			return fmt.Errorf("load grades: %w", err)
		}
		board.Grades = grades
		return nil
	})
	g.Go(func() error {
		students, err := s.api.ListStudents(ctx)
		if err != nil {
			return fmt.Errorf("load students: %w", err)
		}
		board.Students = students
		return nil
	})
	g.Go(func() error {
		subjects, err := s.api.ListSubjects(ctx)
		if err != nil {
			return fmt.Errorf("load subjects: %w", err)
		}
		board.Subjects = subjects
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("grade board partially loaded", zap.Error(err))
		return board, err
	}
	return board, nil
}

// List returns grades matching filter.
func (s *GradeService) List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error) {
	return s.api.ListGrades(ctx, filter)
}

// Get returns a single grade.
func (s *GradeService) Get(ctx context.Context, id string) (*models.Grade, error) {
	if strings.TrimSpace(id) == "" {
		return nil, appErrors.WithMessages(appErrors.ErrValidation, "id is required")
	}
	return s.api.GetGrade(ctx, id)
}

// SubmitCreate creates the grade of a pair. When board already holds a grade
// for the pair no request is sent and a *GradeConflictError is returned.
func (s *GradeService) SubmitCreate(ctx context.Context, board *GradeBoard, in models.CreateGradeInput) (*models.Grade, error) {
	if err := ValidateScores(in.Scores); err != nil {
		return nil, err
	}
	if err := validation.Struct(s.validator, in); err != nil {
		return nil, err
	}
	if existing, ok := board.Find(in.StudentID, in.SubjectID); ok {
		s.logger.Info("grade already exists, redirecting to update",
			zap.String("grade_id", existing.ID),
			zap.String("student_id", in.StudentID),
			zap.String("subject_id", in.SubjectID))
		return nil, &GradeConflictError{Existing: *existing}
	}

	in.Scores = cloneScores(in.Scores)
	grade, err := s.api.CreateGrade(ctx, in)
	if err != nil {
		return nil, err
	}
	s.reload(ctx, board)
	return grade, nil
}

// SubmitUpdateAll replaces the whole score list of a grade.
func (s *GradeService) SubmitUpdateAll(ctx context.Context, board *GradeBoard, gradeID string, scores []float64) (*models.Grade, error) {
	if err := ValidateScores(scores); err != nil {
		return nil, err
	}
	if err := s.requireID(gradeID); err != nil {
		return nil, err
	}
	grade, err := s.api.ReplaceScores(ctx, gradeID, models.UpdateAllScoresInput{Scores: cloneScores(scores)})
	if err != nil {
		return nil, err
	}
	s.reload(ctx, board)
	return grade, nil
}

// AddScore appends one score to a grade.
func (s *GradeService) AddScore(ctx context.Context, board *GradeBoard, gradeID string, value float64) (*models.Grade, error) {
	if !ScoreInRange(value) {
		return nil, appErrors.ErrInvalidScore
	}
	if err := s.requireID(gradeID); err != nil {
		return nil, err
	}
	grade, err := s.api.AddScore(ctx, gradeID, models.AddScoreInput{AddScore: value})
	if err != nil {
		return nil, err
	}
	s.reload(ctx, board)
	return grade, nil
}

// UpdateScore replaces the score at index. When the grade is loaded the index
// is checked locally first.
func (s *GradeService) UpdateScore(ctx context.Context, board *GradeBoard, gradeID string, index int, value float64) (*models.Grade, error) {
	if !ScoreInRange(value) {
		return nil, appErrors.ErrInvalidScore
	}
	if err := s.requireID(gradeID); err != nil {
		return nil, err
	}
	if index < 0 {
		return nil, appErrors.ErrOutOfRange
	}
	if current, ok := board.Grade(gradeID); ok {
		if _, err := ReplaceScoreAt(current.Scores, index, value); err != nil {
			return nil, err
		}
	}
	grade, err := s.api.UpdateScore(ctx, gradeID, models.UpdateScoreInput{ScoreIndex: index, UpdateScore: value})
	if err != nil {
		return nil, err
	}
	s.reload(ctx, board)
	return grade, nil
}

// Delete removes a grade.
func (s *GradeService) Delete(ctx context.Context, board *GradeBoard, gradeID string) error {
	if err := s.requireID(gradeID); err != nil {
		return err
	}
	if err := s.api.DeleteGrade(ctx, gradeID); err != nil {
		return err
	}
	s.reload(ctx, board)
	return nil
}

func (s *GradeService) requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return appErrors.WithMessages(appErrors.ErrValidation, "grade id is required")
	}
	return nil
}

// reload refreshes board after a mutation has been acknowledged. A failed
// reload keeps the previous contents; the mutation itself already succeeded.
func (s *GradeService) reload(ctx context.Context, board *GradeBoard) {
	if board == nil {
		return
	}
	fresh, err := s.LoadBoard(ctx, board.Filter)
	if err != nil {
		s.logger.Warn("reload after mutation failed", zap.Error(err))
		return
	}
	*board = *fresh
}

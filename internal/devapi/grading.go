package devapi

import (
	"fmt"
	"math"

	"github.com/noah-isme/sma-gradebook/internal/models"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
	"github.com/noah-isme/sma-gradebook/pkg/validation"
)

// Classify derives the average and status of scores against the subject
// thresholds. A list shorter than the subject's number of grades is
// incomplete whatever its average.
func Classify(scores []float64, subject models.Subject) (float64, models.GradeStatus) {
	if len(scores) == 0 {
		return 0, models.GradeIncomplete
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	average := math.Round(sum/float64(len(scores))*100) / 100

	switch {
	case len(scores) < subject.NumberOfGrades:
		return average, models.GradeIncomplete
	case average >= subject.PassingAverage:
		return average, models.GradeApproved
	case average >= subject.RecoveryAverage:
		return average, models.GradeRecovery
	default:
		return average, models.GradeFailed
	}
}

// ApplyChange returns the score list after change. The input is untouched.
func ApplyChange(scores []float64, change models.GradeChange) ([]float64, error) {
	switch {
	case change.Scores != nil:
		if len(change.Scores) == 0 {
			return nil, appErrors.WithMessages(appErrors.ErrRejected, appErrors.ErrEmptyScores.Message)
		}
		if err := checkScores(change.Scores...); err != nil {
			return nil, err
		}
		return append([]float64(nil), change.Scores...), nil

	case change.AddScore != nil:
		if err := checkScores(*change.AddScore); err != nil {
			return nil, err
		}
		out := make([]float64, len(scores), len(scores)+1)
		copy(out, scores)
		return append(out, *change.AddScore), nil

	case change.ScoreIndex != nil && change.UpdateScore != nil:
		idx := *change.ScoreIndex
		if idx < 0 || idx >= len(scores) {
			return nil, appErrors.WithMessages(appErrors.ErrRejected, fmt.Sprintf("score_index %d is out of range", idx))
		}
		if err := checkScores(*change.UpdateScore); err != nil {
			return nil, err
		}
		out := append([]float64(nil), scores...)
		out[idx] = *change.UpdateScore
		return out, nil

	default:
		return nil, appErrors.WithMessages(appErrors.ErrRejected, "nothing to update")
	}
}

func checkScores(scores ...float64) error {
	for _, s := range scores {
		if !validation.ScoreInRange(s) {
			return appErrors.WithMessages(appErrors.ErrRejected, appErrors.ErrInvalidScore.Message)
		}
	}
	return nil
}

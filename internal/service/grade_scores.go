package service

import (
	"regexp"
	"strconv"
	"strings"

	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
	"github.com/noah-isme/sma-gradebook/pkg/validation"
)

// ScoreInRange reports whether value is a finite score within bounds.
func ScoreInRange(value float64) bool {
	return validation.ScoreInRange(value)
}

// plainDecimal keeps ParseFloat from accepting hex floats and digit
// underscores.
var plainDecimal = regexp.MustCompile(`^[+-]?\d+(\.\d+)?([eE][+-]?\d+)?$`)

// ParseScore parses a score typed by a user. Both "7.5" and "7,5" are
// accepted. The value must be a finite decimal within [MinScore, MaxScore].
func ParseScore(raw string) (float64, error) {
	trimmed := strings.TrimSpace(strings.Replace(raw, ",", ".", 1))
	if !plainDecimal.MatchString(trimmed) {
		return 0, appErrors.ErrInvalidScore
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInvalidScore, appErrors.ErrInvalidScore.Message)
	}
	if !ScoreInRange(value) {
		return 0, appErrors.ErrInvalidScore
	}
	return value, nil
}

// ValidateScore reports whether raw is an acceptable score.
func ValidateScore(raw string) bool {
	_, err := ParseScore(raw)
	return err == nil
}

// ValidateScores checks a list before it is submitted.
func ValidateScores(scores []float64) error {
	if len(scores) == 0 {
		return appErrors.ErrEmptyScores
	}
	for _, score := range scores {
		if !ScoreInRange(score) {
			return appErrors.ErrInvalidScore
		}
	}
	return nil
}

// AppendScore returns a new slice with value appended. The caller validates value.
func AppendScore(scores []float64, value float64) []float64 {
	out := make([]float64, len(scores), len(scores)+1)
	copy(out, scores)
	return append(out, value)
}

// RemoveScoreAt returns a new slice without the element at index.
func RemoveScoreAt(scores []float64, index int) ([]float64, error) {
	if index < 0 || index >= len(scores) {
		return cloneScores(scores), appErrors.ErrOutOfRange
	}
	out := make([]float64, 0, len(scores)-1)
	out = append(out, scores[:index]...)
	return append(out, scores[index+1:]...), nil
}

// ReplaceScoreAt returns a new slice with the element at index replaced. An
// invalid value or index leaves the returned slice equal to scores.
func ReplaceScoreAt(scores []float64, index int, value float64) ([]float64, error) {
	out := cloneScores(scores)
	if index < 0 || index >= len(scores) {
		return out, appErrors.ErrOutOfRange
	}
	if !ScoreInRange(value) {
		return out, appErrors.ErrInvalidScore
	}
	out[index] = value
	return out, nil
}

// AddPlaceholder appends a zero the user then edits in place.
func AddPlaceholder(scores []float64) []float64 {
	return AppendScore(scores, validation.MinScore)
}

// FormatScore renders a score with one decimal place. Display only.
func FormatScore(value float64) string {
	return strconv.FormatFloat(value, 'f', 1, 64)
}

func cloneScores(scores []float64) []float64 {
	out := make([]float64, len(scores))
	copy(out, scores)
	return out
}

package devapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-gradebook/internal/models"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
)

func TestClassify(t *testing.T) {
	subject := models.Subject{NumberOfGrades: 3, PassingAverage: 7, RecoveryAverage: 5}

	tests := []struct {
		name    string
		scores  []float64
		average float64
		status  models.GradeStatus
	}{
		{name: "no scores", scores: nil, average: 0, status: models.GradeIncomplete},
		{name: "missing scores", scores: []float64{10, 10}, average: 10, status: models.GradeIncomplete},
		{name: "approved on threshold", scores: []float64{7, 7, 7}, average: 7, status: models.GradeApproved},
		{name: "recovery", scores: []float64{5, 6, 5}, average: 5.33, status: models.GradeRecovery},
		{name: "failed", scores: []float64{2, 3, 4}, average: 3, status: models.GradeFailed},
		{name: "extra scores count", scores: []float64{8, 9, 10, 9}, average: 9, status: models.GradeApproved},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			average, status := Classify(tc.scores, subject)
			assert.InDelta(t, tc.average, average, 0.0001)
			assert.Equal(t, tc.status, status)
		})
	}
}

func TestApplyChange(t *testing.T) {
	base := []float64{6, 7}
	add := 9.0
	idx := 1
	upd := 3.5
	bad := 10.5

	out, err := ApplyChange(base, models.GradeChange{AddScore: &add})
	require.NoError(t, err)
	assert.Equal(t, []float64{6, 7, 9}, out)

	out, err = ApplyChange(base, models.GradeChange{ScoreIndex: &idx, UpdateScore: &upd})
	require.NoError(t, err)
	assert.Equal(t, []float64{6, 3.5}, out)

	out, err = ApplyChange(base, models.GradeChange{Scores: []float64{1, 2, 3}})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, out)
	assert.Equal(t, []float64{6, 7}, base)

	outOfRange := 2
	_, err = ApplyChange(base, models.GradeChange{ScoreIndex: &outOfRange, UpdateScore: &upd})
	assert.ErrorIs(t, err, appErrors.ErrRejected)

	_, err = ApplyChange(base, models.GradeChange{AddScore: &bad})
	assert.ErrorIs(t, err, appErrors.ErrRejected)

	_, err = ApplyChange(base, models.GradeChange{Scores: []float64{}})
	assert.ErrorIs(t, err, appErrors.ErrRejected)

	_, err = ApplyChange(base, models.GradeChange{ScoreIndex: &idx})
	assert.ErrorIs(t, err, appErrors.ErrRejected)
}

package client

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/noah-isme/sma-gradebook/internal/models"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
)

// The API is backed by a document store and is not consistent about
// identifiers: records may carry "id", "_id", or "_id": {"$oid": "..."}, and
// references to other records may be embedded documents. Everything is read
// through gjson so that shape drift degrades to empty fields, not failures.

func refID(v gjson.Result) string {
	switch {
	case !v.Exists():
		return ""
	case v.IsObject():
		if oid := v.Get(`\$oid`); oid.Exists() {
			return oid.String()
		}
		return recordID(v)
	case v.Type == gjson.Null:
		return ""
	default:
		return v.String()
	}
}

func recordID(v gjson.Result) string {
	if id := refID(v.Get("id")); id != "" {
		return id
	}
	return refID(v.Get("_id"))
}

func timeOf(v gjson.Result) time.Time {
	if v.IsObject() {
		return timeOf(v.Get(`\$date`))
	}
	if v.Type != gjson.String {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, v.String())
	if err != nil {
		return time.Time{}
	}
	return t
}

func floats(v gjson.Result) []float64 {
	out := make([]float64, 0)
	v.ForEach(func(_, item gjson.Result) bool {
		out = append(out, item.Float())
		return true
	})
	return out
}

func normalizeUser(v gjson.Result) models.User {
	return models.User{
		ID:        recordID(v),
		Name:      v.Get("name").String(),
		Email:     v.Get("email").String(),
		Role:      models.UserRole(strings.ToLower(v.Get("user_type").String())),
		SchoolID:  refID(v.Get("school_id")),
		Address:   v.Get("address").String(),
		Phone:     v.Get("phone").String(),
		CreatedAt: timeOf(v.Get("created_at")),
		UpdatedAt: timeOf(v.Get("updated_at")),
	}
}

func normalizeStudent(v gjson.Result) models.Student {
	return models.Student{
		ID:                 recordID(v),
		Name:               v.Get("name").String(),
		Email:              v.Get("email").String(),
		RegistrationNumber: v.Get("registration_number").String(),
		Phone:              v.Get("phone").String(),
		SchoolID:           refID(v.Get("school_id")),
		CreatedAt:          timeOf(v.Get("created_at")),
		UpdatedAt:          timeOf(v.Get("updated_at")),
	}
}

func normalizeSubject(v gjson.Result) models.Subject {
	return models.Subject{
		ID:              recordID(v),
		Name:            v.Get("name").String(),
		Code:            v.Get("code").String(),
		NumberOfGrades:  int(v.Get("number_of_grades").Int()),
		PassingAverage:  v.Get("passing_average").Float(),
		RecoveryAverage: v.Get("recovery_average").Float(),
		TeacherID:       refID(v.Get("teacher_id")),
		SchoolID:        refID(v.Get("school_id")),
		CreatedAt:       timeOf(v.Get("created_at")),
		UpdatedAt:       timeOf(v.Get("updated_at")),
	}
}

func normalizeSchool(v gjson.Result) models.School {
	return models.School{
		ID:        recordID(v),
		Name:      v.Get("name").String(),
		Email:     v.Get("email").String(),
		Address:   v.Get("address").String(),
		Phone:     v.Get("phone").String(),
		CreatedAt: timeOf(v.Get("created_at")),
		UpdatedAt: timeOf(v.Get("updated_at")),
	}
}

func normalizeGrade(v gjson.Result) models.Grade {
	return models.Grade{
		ID:        recordID(v),
		StudentID: refID(v.Get("student_id")),
		SubjectID: refID(v.Get("subject_id")),
		Scores:    floats(v.Get("scores")),
		Average:   v.Get("average").Float(),
		Status:    models.GradeStatus(strings.ToLower(v.Get("status").String())),
		SchoolID:  refID(v.Get("school_id")),
		CreatedAt: timeOf(v.Get("created_at")),
		UpdatedAt: timeOf(v.Get("updated_at")),
	}
}

// decodeOne reads a single record, unwrapping an optional {"<envelope>": {...}}.
func decodeOne[T any](body []byte, envelope string, normalize func(gjson.Result) T) (T, error) {
	var zero T
	if !gjson.ValidBytes(body) {
		return zero, appErrors.ErrUnexpectedResponse
	}
	root := gjson.ParseBytes(body)
	if inner := root.Get(envelope); inner.IsObject() {
		root = inner
	}
	if !root.IsObject() {
		return zero, appErrors.ErrUnexpectedResponse
	}
	return normalize(root), nil
}

// decodeList reads an array body, also accepting {"data": [...]} and
// {"<collection>": [...]}.
func decodeList[T any](body []byte, collection string, normalize func(gjson.Result) T) ([]T, error) {
	if !gjson.ValidBytes(body) {
		return nil, appErrors.ErrUnexpectedResponse
	}
	root := gjson.ParseBytes(body)
	if root.IsObject() {
		for _, key := range []string{"data", collection} {
			if inner := root.Get(key); inner.IsArray() {
				root = inner
				break
			}
		}
	}
	if !root.IsArray() {
		return nil, appErrors.ErrUnexpectedResponse
	}
	items := root.Array()
	out := make([]T, 0, len(items))
	for _, item := range items {
		if item.IsObject() {
			out = append(out, normalize(item))
		}
	}
	return out, nil
}

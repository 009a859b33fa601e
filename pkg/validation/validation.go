// Package validation holds the request rules shared by the client and the
// dev API.
package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
)

// MinScore and MaxScore bound every individual score.
const (
	MinScore = 0.0
	MaxScore = 10.0
)

var looseEmail = regexp.MustCompile(`^.+@.+\..+$`)

// New returns a validator with the gradebook rules registered.
func New() *validator.Validate {
	return Register(nil)
}

// Register adds the custom tags to v, creating it when nil.
func Register(v *validator.Validate) *validator.Validate {
	if v == nil {
		v = validator.New()
	}
	_ = v.RegisterValidation("loose_email", func(fl validator.FieldLevel) bool {
		return looseEmail.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	_ = v.RegisterValidation("score", func(fl validator.FieldLevel) bool {
		var value float64
		switch fl.Field().Kind() {
		case reflect.Float32, reflect.Float64:
			value = fl.Field().Float()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			value = float64(fl.Field().Int())
		default:
			return false
		}
		return ScoreInRange(value)
	})
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// ScoreInRange reports whether value is finite and within bounds.
func ScoreInRange(value float64) bool {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return false
	}
	return value >= MinScore && value <= MaxScore
}

// Error converts validator output into a validation error carrying one
// message per offending field.
func Error(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return appErrors.Wrap(err, appErrors.ErrValidation, appErrors.ErrValidation.Message)
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fieldMessage(fe))
	}
	return appErrors.WithMessages(appErrors.ErrValidation, messages...)
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	case "loose_email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must have at least %s characters", field, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s item(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "eqfield":
		return "passwords do not match"
	case "score":
		return fmt.Sprintf("%s must be a number between %g and %g", field, MinScore, MaxScore)
	case "ltefield":
		return fmt.Sprintf("%s must not exceed %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// Struct validates req and returns a typed validation error.
func Struct(v *validator.Validate, req interface{}) error {
	if err := v.Struct(req); err != nil {
		return Error(err)
	}
	return nil
}

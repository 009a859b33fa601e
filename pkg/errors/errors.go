package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies an error for presentation and control flow.
type Kind string

const (
	KindValidation       Kind = "validation"
	KindConflict         Kind = "conflict"
	KindAuthentication   Kind = "authentication"
	KindUnauthorized     Kind = "unauthorized"
	KindForbidden        Kind = "forbidden"
	KindNotFound         Kind = "not_found"
	KindDomainValidation Kind = "domain_validation"
	KindServer           Kind = "server"
	KindNetwork          Kind = "network"
	KindOutOfRange       Kind = "out_of_range"
	KindStorage          Kind = "storage"
	KindInternal         Kind = "internal"
)

// Error represents a typed error with HTTP awareness.
type Error struct {
	Kind     Kind     `json:"-"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Messages []string `json:"messages,omitempty"`
	Status   int      `json:"status"`
	Err      error    `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if len(e.Messages) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(e.Messages, "; "))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors of the same kind and code so predefined values work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// New creates a new Error instance.
func New(kind Kind, code string, status int, message string) *Error {
	return &Error{Kind: kind, Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error, keeping the kind of base.
func Wrap(err error, base *Error, message string) *Error {
	clone := Clone(base, message)
	clone.Err = err
	return clone
}

// WithMessages returns a copy of err carrying field level messages.
func WithMessages(err *Error, messages ...string) *Error {
	clone := Clone(err, "")
	clone.Messages = append([]string(nil), messages...)
	return clone
}

// Predefined errors for common scenarios.
var (
	ErrValidation         = New(KindValidation, "VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInvalidScore       = New(KindValidation, "INVALID_SCORE", http.StatusBadRequest, "score must be a number between 0 and 10")
	ErrEmptyScores        = New(KindValidation, "EMPTY_SCORES", http.StatusBadRequest, "at least one score is required")
	ErrPasswordMismatch   = New(KindValidation, "PASSWORD_MISMATCH", http.StatusBadRequest, "passwords do not match")
	ErrOutOfRange         = New(KindOutOfRange, "OUT_OF_RANGE", http.StatusBadRequest, "index out of range")
	ErrGradeExists        = New(KindConflict, "GRADE_EXISTS", http.StatusConflict, "a grade already exists for this student and subject")
	ErrInvalidCredentials = New(KindAuthentication, "INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
	ErrUnauthorized       = New(KindUnauthorized, "UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrNotAuthenticated   = New(KindUnauthorized, "NOT_AUTHENTICATED", http.StatusUnauthorized, "sign in required")
	ErrForbidden          = New(KindForbidden, "FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrNotFound           = New(KindNotFound, "NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrRejected           = New(KindDomainValidation, "REJECTED", http.StatusUnprocessableEntity, "request rejected")
	ErrConflict           = New(KindDomainValidation, "CONFLICT", http.StatusConflict, "conflict")
	ErrServiceUnavailable = New(KindServer, "SERVICE_UNAVAILABLE", http.StatusServiceUnavailable, "service unavailable")
	ErrNetwork            = New(KindNetwork, "NO_RESPONSE", 0, "no response from server")
	ErrCannotConnect      = New(KindNetwork, "CANNOT_CONNECT", 0, "cannot connect to server")
	ErrUnexpectedResponse = New(KindServer, "UNEXPECTED_RESPONSE", http.StatusBadGateway, "unexpected response from server")
	ErrStorage            = New(KindStorage, "STORAGE_ERROR", http.StatusInternalServerError, "local storage failure")
	ErrKeyNotFound        = New(KindStorage, "KEY_NOT_FOUND", http.StatusNotFound, "key not found")
	ErrInternal           = New(KindInternal, "INTERNAL_ERROR", http.StatusInternalServerError, "internal error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal, ErrInternal.Message)
}

// KindOf reports the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return FromError(err).Kind
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	clone.Messages = append([]string(nil), err.Messages...)
	return &clone
}

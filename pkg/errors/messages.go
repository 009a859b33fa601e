package errors

import "strings"

// User facing messages.
const (
	MsgInvalidCredentials = "Could not sign in. Check the information provided and try again."
	MsgServiceUnavailable = "Service unavailable, try again later."
	MsgCannotConnect      = "Could not connect to the server. Check your connection and try again."
	MsgSessionExpired     = "Your session has expired. Please sign in again."
	MsgSignInRequired     = "Sign in required."
	MsgGradeExists        = "A grade already exists for this student in this subject."
	MsgRejected           = "The data provided could not be processed. Check it and try again."
	MsgNotFound           = "The requested record was not found."
	MsgForbidden          = "You do not have permission to perform this action."
	MsgStorage            = "Could not access local storage."
	MsgUnexpected         = "Something went wrong. Try again."
)

// UserMessage maps any error to a message that is safe to show to the user.
// Field level messages from the API are joined one per line.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	e := FromError(err)
	switch e.Kind {
	case KindValidation, KindOutOfRange:
		if len(e.Messages) > 0 {
			return strings.Join(e.Messages, "\n")
		}
		return e.Message
	case KindDomainValidation:
		if len(e.Messages) > 0 {
			return strings.Join(e.Messages, "\n")
		}
		return MsgRejected
	case KindConflict:
		return MsgGradeExists
	case KindAuthentication:
		return MsgInvalidCredentials
	case KindUnauthorized:
		if e.Code == ErrNotAuthenticated.Code {
			return MsgSignInRequired
		}
		return MsgSessionExpired
	case KindForbidden:
		return MsgForbidden
	case KindNotFound:
		return MsgNotFound
	case KindNetwork:
		if e.Code == ErrCannotConnect.Code {
			return MsgCannotConnect
		}
		return MsgServiceUnavailable
	case KindServer:
		return MsgServiceUnavailable
	case KindStorage:
		return MsgStorage
	default:
		return MsgUnexpected
	}
}

package domain

import "errors"

// Error is a domain error carrying a stable code that adapters translate
// into user-facing messages.
type Error struct {
	code string
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Code returns the stable error code.
func (e *Error) Code() string { return e.code }

func newError(code, msg string) *Error {
	return &Error{code: code, msg: msg}
}

// Domain errors.
var (
	ErrSubscriptionClosed = newError("subscription_closed", "subscription closed")
	ErrInvalidPayload     = newError("invalid_payload", "invalid payload")
)

// Code extracts the domain error code from err, or "" when err does not wrap
// a domain error.
func Code(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.code
	}
	return ""
}

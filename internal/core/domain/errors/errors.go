package errors

import "fmt"

type InvalidStateError struct {
	msg string
}

func NewInvalidStateError(msg string) *InvalidStateError {
	return &InvalidStateError{msg: msg}
}

func (e *InvalidStateError) Error() string {
	return e.msg
}

type NilArgumentError struct {
	argument string
}

func NewNilArgumentError(argument string) *NilArgumentError {
	return &NilArgumentError{argument: argument}
}

func (e *NilArgumentError) Error() string {
	return fmt.Sprintf("argument '%s' must not be nil", e.argument)
}

// Reasons carried by ValidationError.
const (
	ReasonTooShort         = "too-short"
	ReasonTooLong          = "too-long"
	ReasonMismatch         = "mismatch"
	ReasonNotFound         = "not found"
	ReasonInvalidOrExpired = "invalid-or-expired"
	ReasonAlreadyTaken     = "already-taken"
	ReasonInvalid          = "invalid"
)

// ValidationError is a user-correctable failure keyed by the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field string, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Reason)
}

// Is matches another ValidationError with the same field and reason, an empty
// target field or reason matches any value.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return (t.Field == "" || t.Field == e.Field) && (t.Reason == "" || t.Reason == e.Reason)
}

type AuthErrorReason string

const (
	AuthNoToken      = AuthErrorReason("no-token")
	AuthMalformed    = AuthErrorReason("malformed")
	AuthExpired      = AuthErrorReason("expired")
	AuthBadSignature = AuthErrorReason("bad-signature")
	AuthUnknownUser  = AuthErrorReason("unknown-user")
)

type AuthError struct {
	Reason AuthErrorReason
}

func NewAuthError(reason AuthErrorReason) *AuthError {
	return &AuthError{Reason: reason}
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

// TransientError wraps an I/O failure of a collaborator (storage, notifier).
// It is returned to the caller as is and never retried internally.
type TransientError struct {
	Op  string
	Err error
}

func NewTransientError(op string, err error) *TransientError {
	return &TransientError{Op: op, Err: err}
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

package user

import (
	"errors"
	e "happystack/internal/core/domain/errors"
)

var (
	ErrUserDoesNotExist          = errors.New("user does not exist")
	ErrInvalidPasswordResetToken = errors.New("invalid password reset token")
	ErrEmailAlreadyExists        = errors.New("email already exists")
	ErrUsernameAlreadyExists     = errors.New("username already exists")
)

// ErrInvalidCredentials does not tell apart an unknown email and a wrong password.
var ErrInvalidCredentials = e.NewValidationError("email or password", e.ReasonInvalid)

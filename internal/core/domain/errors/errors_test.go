package errors

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorMatching(t *testing.T) {
	err := error(NewValidationError("token", ReasonInvalidOrExpired))

	assert.ErrorIs(t, err, &ValidationError{Field: "token"})
	assert.ErrorIs(t, err, &ValidationError{Field: "token", Reason: ReasonInvalidOrExpired})
	assert.ErrorIs(t, err, &ValidationError{})
	assert.NotErrorIs(t, err, &ValidationError{Field: "email"})
	assert.NotErrorIs(t, err, &ValidationError{Field: "token", Reason: ReasonMismatch})

	var validationErr *ValidationError
	assert.True(t, stderrors.As(err, &validationErr))
	assert.Equal(t, "token", validationErr.Field)
}

func TestAuthErrorMatching(t *testing.T) {
	err := error(NewAuthError(AuthExpired))

	assert.ErrorIs(t, err, &AuthError{})
	assert.ErrorIs(t, err, NewAuthError(AuthExpired))
	assert.NotErrorIs(t, err, NewAuthError(AuthBadSignature))
}

func TestTransientErrorUnwraps(t *testing.T) {
	err := error(NewTransientError("save user", context.Canceled))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "save user: context canceled", err.Error())

	var transientErr *TransientError
	assert.True(t, stderrors.As(err, &transientErr))
	assert.Equal(t, "save user", transientErr.Op)
}

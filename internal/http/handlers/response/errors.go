package response

import (
	"errors"
	e "happystack/internal/core/domain/errors"
	ratelimiter "happystack/internal/core/domain/rate_limiter"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
)

var reasonMessages = map[string]string{
	e.ReasonTooShort:         "Must be at least 5 characters",
	e.ReasonTooLong:          "Must be at most 72 bytes",
	e.ReasonMismatch:         "Passwords must match",
	e.ReasonInvalidOrExpired: "Password reset token is invalid or has expired",
	e.ReasonNotFound:         "The email address is not associated with any account.",
	e.ReasonAlreadyTaken:     "Is already taken",
	e.ReasonInvalid:          "Is invalid",
}

type fieldError struct {
	Msg string `json:"msg"`
}

type validationResponse struct {
	Errors map[string]fieldError `json:"errors"`
}

// RenderValidationErrors renders input validation failures as
// {"errors": {field: {"msg": ...}}} with status 422.
func RenderValidationErrors(rw http.ResponseWriter, errs validation.Errors) {
	res := validationResponse{Errors: make(map[string]fieldError, len(errs))}
	for field, err := range errs {
		res.Errors[field] = fieldError{Msg: err.Error()}
	}
	Render(rw, res, http.StatusUnprocessableEntity)
}

func RenderValidationError(rw http.ResponseWriter, err *e.ValidationError) {
	msg, ok := reasonMessages[err.Reason]
	if !ok {
		msg = err.Reason
	}
	Render(
		rw,
		validationResponse{Errors: map[string]fieldError{err.Field: {Msg: msg}}},
		http.StatusUnprocessableEntity,
	)
}

// RenderInputError renders the result of an input Validate call.
func RenderInputError(rw http.ResponseWriter, err error) {
	var errs validation.Errors
	if errors.As(err, &errs) {
		RenderValidationErrors(rw, errs)
		return
	}
	RenderBadRequest(rw)
}

// RenderServiceError maps a service failure to a status code. Anything
// unrecognised is rendered as a generic internal error.
func RenderServiceError(rw http.ResponseWriter, err error) {
	var validationErr *e.ValidationError
	var authErr *e.AuthError
	switch {
	case errors.As(err, &validationErr):
		RenderValidationError(rw, validationErr)
	case errors.As(err, &authErr):
		RenderUnauthorized(rw)
	case errors.Is(err, ratelimiter.ErrRateLimitExceeded):
		RenderRateLimitExceeded(rw)
	default:
		RenderInternalError(rw)
	}
}

package response

import (
	"errors"
	"fmt"
	e "happystack/internal/core/domain/errors"
	ratelimiter "happystack/internal/core/domain/rate_limiter"
	"net/http"
	"net/http/httptest"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/require"
)

func TestRenderServiceError(t *testing.T) {
	cases := []struct {
		id     string
		err    error
		status int
		body   string
	}{
		{
			id:     "token",
			err:    e.NewValidationError("token", e.ReasonInvalidOrExpired),
			status: http.StatusUnprocessableEntity,
			body:   `{"errors": {"token": {"msg": "Password reset token is invalid or has expired"}}}`,
		},
		{
			id:     "email not found",
			err:    e.NewValidationError("email", e.ReasonNotFound),
			status: http.StatusUnprocessableEntity,
			body:   `{"errors": {"email": {"msg": "The email address is not associated with any account."}}}`,
		},
		{
			id:     "wrapped mismatch",
			err:    fmt.Errorf("redeem: %w", e.NewValidationError("passwordConfirm", e.ReasonMismatch)),
			status: http.StatusUnprocessableEntity,
			body:   `{"errors": {"passwordConfirm": {"msg": "Passwords must match"}}}`,
		},
		{
			id:     "login",
			err:    e.NewValidationError("email or password", e.ReasonInvalid),
			status: http.StatusUnprocessableEntity,
			body:   `{"errors": {"email or password": {"msg": "Is invalid"}}}`,
		},
		{
			id:     "auth",
			err:    e.NewAuthError(e.AuthExpired),
			status: http.StatusUnauthorized,
			body:   `{"error": "invalid authentication token"}`,
		},
		{
			id:     "rate limit",
			err:    ratelimiter.ErrRateLimitExceeded,
			status: http.StatusTooManyRequests,
			body:   `{"error": "rate limit exceeded"}`,
		},
		{
			id:     "transient",
			err:    e.NewTransientError("set reset token", errors.New("connection refused")),
			status: http.StatusInternalServerError,
			body:   `{"error": "internal error"}`,
		},
	}
	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			rw := httptest.NewRecorder()

			RenderServiceError(rw, testcase.err)

			require.Equal(t, testcase.status, rw.Code)
			require.JSONEq(t, testcase.body, rw.Body.String())
			require.Equal(t, "application/json", rw.Header().Get("Content-Type"))
		})
	}
}

func TestRenderInputError(t *testing.T) {
	rw := httptest.NewRecorder()

	RenderInputError(rw, validation.Errors{"email": errors.New("must be a valid email address")})

	require.Equal(t, http.StatusUnprocessableEntity, rw.Code)
	require.JSONEq(t, `{"errors": {"email": {"msg": "must be a valid email address"}}}`, rw.Body.String())
}

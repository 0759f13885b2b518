package requestpasswordreset

import (
	"context"
	"errors"
	c "happystack/internal/core/domain/common"
	e "happystack/internal/core/domain/errors"
	"happystack/internal/core/domain/logging"
	"happystack/internal/core/domain/user"
	"happystack/internal/core/services"
	"time"
)

type Input struct {
	Email c.Email
}

func (i Input) GetRateLimitKey() string {
	return "request-password-reset::" + string(i.Email)
}

type Result struct {
	Token     user.PasswordResetToken
	ExpiresAt time.Time
}

type service struct {
	log                 logging.Logger
	userRepository      user.UserRepository
	resetTokenGenerator user.ResetTokenGenerator
	sender              user.PasswordResetTokenSender
	now                 func() time.Time
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	resetTokenGenerator user.ResetTokenGenerator,
	sender user.PasswordResetTokenSender,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if resetTokenGenerator == nil {
		panic(e.NewNilArgumentError("resetTokenGenerator"))
	}
	if sender == nil {
		panic(e.NewNilArgumentError("sender"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:                 log,
		userRepository:      userRepository,
		resetTokenGenerator: resetTokenGenerator,
		sender:              sender,
		now:                 now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	u, err := s.userRepository.GetByEmail(ctx, input.Email)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(ctx, "Password reset requested for unknown email.")
		return result, e.NewValidationError("email", e.ReasonNotFound)
	}
	if err != nil {
		logging.Error(ctx, s.log, err)
		return result, e.NewTransientError("get user by email", err)
	}

	token, expiresAt, err := s.resetTokenGenerator.GenerateResetToken()
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", u.ID))
		return result, err
	}

	err = s.userRepository.SetResetToken(ctx, user.SetResetTokenInput{
		ID:        u.ID,
		Token:     token,
		ExpiresAt: expiresAt,
		UpdatedAt: s.now(),
	})
	if err != nil {
		s.log.Error(
			ctx,
			"Could not store password reset token.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, e.NewTransientError("set reset token", err)
	}

	// The stored token stays in place when sending fails. A retry overwrites it.
	if err := s.sender.SendPasswordResetToken(ctx, u.Email, token); err != nil {
		s.log.Error(
			ctx,
			"Could not send password reset token.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, e.NewTransientError("send password reset token", err)
	}

	s.log.Info(
		ctx,
		"Password reset token has been sent.",
		logging.Entry("userID", u.ID),
		logging.Entry("expiresAt", expiresAt),
	)
	return Result{Token: token, ExpiresAt: expiresAt}, nil
}

package redeempasswordreset

import (
	"context"
	"errors"
	e "happystack/internal/core/domain/errors"
	"happystack/internal/core/domain/logging"
	"happystack/internal/core/domain/user"
	"happystack/internal/core/services"
	"time"
	"unicode/utf8"
)

type Input struct {
	Token              user.PasswordResetToken
	NewPassword        user.RawPassword
	NewPasswordConfirm user.RawPassword
}

type Result struct {
	User             user.User
	NotificationSent bool
}

type service struct {
	log            logging.Logger
	userRepository user.UserRepository
	passwordHasher user.PasswordHasher
	sender         user.PasswordResetTokenSender
	now            func() time.Time
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	passwordHasher user.PasswordHasher,
	sender user.PasswordResetTokenSender,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	if sender == nil {
		panic(e.NewNilArgumentError("sender"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:            log,
		userRepository: userRepository,
		passwordHasher: passwordHasher,
		sender:         sender,
		now:            now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if err := validatePasswords(input); err != nil {
		return result, err
	}

	now := s.now()
	u, err := s.userRepository.GetByResetToken(ctx, input.Token, now)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.clearExpiredToken(ctx, input.Token, now)
		return result, e.NewValidationError("token", e.ReasonInvalidOrExpired)
	}
	if err != nil {
		logging.Error(ctx, s.log, err)
		return result, e.NewTransientError("get user by reset token", err)
	}

	credentials, err := s.passwordHasher.SetPassword(input.NewPassword)
	if err != nil {
		return result, err
	}

	redeemed, err := s.userRepository.RedeemResetToken(ctx, user.RedeemResetTokenInput{
		Token:       input.Token,
		Credentials: credentials,
		Now:         s.now(),
	})
	if errors.Is(err, user.ErrInvalidPasswordResetToken) {
		s.log.Info(ctx, "Password reset token was consumed concurrently.", logging.Entry("userID", u.ID))
		return result, e.NewValidationError("token", e.ReasonInvalidOrExpired)
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not update user password.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, e.NewTransientError("redeem reset token", err)
	}
	s.log.Info(ctx, "New password has been successfully set.", logging.Entry("userID", redeemed.ID))

	result.User = redeemed
	if err := s.sender.SendPasswordChanged(ctx, redeemed.Email); err != nil {
		s.log.Warning(
			ctx,
			"Could not notify user about password change.",
			logging.Entry("userID", redeemed.ID),
			logging.Entry("err", err),
		)
		return result, nil
	}
	result.NotificationSent = true
	return result, nil
}

func (s *service) clearExpiredToken(ctx context.Context, token user.PasswordResetToken, now time.Time) {
	if err := s.userRepository.ClearExpiredResetToken(ctx, token, now); err != nil {
		s.log.Warning(ctx, "Could not clear expired password reset token.", logging.Entry("err", err))
	}
}

func validatePasswords(input Input) error {
	if utf8.RuneCountInString(string(input.NewPassword)) < user.MinPasswordLength {
		return e.NewValidationError("password", e.ReasonTooShort)
	}
	if utf8.RuneCountInString(string(input.NewPasswordConfirm)) < user.MinPasswordLength {
		return e.NewValidationError("passwordConfirm", e.ReasonTooShort)
	}
	if input.NewPassword != input.NewPasswordConfirm {
		return e.NewValidationError("passwordConfirm", e.ReasonMismatch)
	}
	return nil
}

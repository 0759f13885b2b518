package login

import (
	"context"
	"errors"
	c "happystack/internal/core/domain/common"
	e "happystack/internal/core/domain/errors"
	"happystack/internal/core/domain/logging"
	"happystack/internal/core/domain/user"
	"happystack/internal/core/services"
)

type Input struct {
	Email    c.Email
	Password user.RawPassword
}

func (i Input) GetRateLimitKey() string {
	return "log-in::" + string(i.Email)
}

type Result struct {
	User  user.User
	Token user.AuthToken
}

type service struct {
	log            logging.Logger
	userRepository user.UserRepository
	passwordHasher user.PasswordHasher
	tokenIssuer    user.TokenIssuer
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	passwordHasher user.PasswordHasher,
	tokenIssuer user.TokenIssuer,
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
	if tokenIssuer == nil {
		panic(e.NewNilArgumentError("tokenIssuer"))
	}
	return &service{
		log:            log,
		userRepository: userRepository,
		passwordHasher: passwordHasher,
		tokenIssuer:    tokenIssuer,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	u, err := s.userRepository.GetByEmail(ctx, input.Email)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		// Minimize risk for timing attacks
		s.passwordHasher.SetPassword(input.Password)
		return result, user.ErrInvalidCredentials
	}
	if err != nil {
		logging.Error(ctx, s.log, err)
		return result, e.NewTransientError("get user by email", err)
	}
	if !s.passwordHasher.VerifyPassword(input.Password, u.Credentials) {
		s.log.Info(ctx, "Invalid password supplied.", logging.Entry("userID", u.ID))
		return result, user.ErrInvalidCredentials
	}

	token, err := s.tokenIssuer.IssueToken(u.ID, u.Username)
	if err != nil {
		s.log.Error(ctx, "Could not issue auth token.", logging.Entry("userID", u.ID), logging.Entry("err", err))
		return result, err
	}

	s.log.Info(ctx, "User successfully authenticated.", logging.Entry("userID", u.ID))
	return Result{User: u, Token: token}, nil
}

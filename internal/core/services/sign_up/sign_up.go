package signup

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
	Username user.Username
	Email    c.Email
	Password user.RawPassword
}

func (i Input) GetRateLimitKey() string {
	return "sign-up::" + string(i.Email)
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
	now            func() time.Time
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	passwordHasher user.PasswordHasher,
	tokenIssuer user.TokenIssuer,
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
	if tokenIssuer == nil {
		panic(e.NewNilArgumentError("tokenIssuer"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:            log,
		userRepository: userRepository,
		passwordHasher: passwordHasher,
		tokenIssuer:    tokenIssuer,
		now:            now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	credentials, err := s.passwordHasher.SetPassword(input.Password)
	if err != nil {
		return result, err
	}

	createdUser, err := s.userRepository.Create(ctx, user.CreateUserInput{
		Username:    input.Username,
		Email:       input.Email,
		Credentials: credentials,
		CreatedAt:   s.now(),
	})
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		if validationErr := uniqueViolation(err); validationErr != nil {
			s.log.Info(ctx, "User with the same identity already exists.", logging.Entry("field", validationErr.Field))
			return result, validationErr
		}
		s.log.Error(ctx, "Could not create new user.", logging.Entry("err", err))
		return result, e.NewTransientError("create user", err)
	}

	token, err := s.tokenIssuer.IssueToken(createdUser.ID, createdUser.Username)
	if err != nil {
		s.log.Error(ctx, "Could not issue auth token.", logging.Entry("userID", createdUser.ID), logging.Entry("err", err))
		return result, err
	}

	s.log.Info(ctx, "New user has been created.", logging.Entry("userID", createdUser.ID))
	return Result{User: createdUser, Token: token}, nil
}

func uniqueViolation(err error) *e.ValidationError {
	switch {
	case errors.Is(err, user.ErrEmailAlreadyExists):
		return e.NewValidationError("email", e.ReasonAlreadyTaken)
	case errors.Is(err, user.ErrUsernameAlreadyExists):
		return e.NewValidationError("username", e.ReasonAlreadyTaken)
	}
	return nil
}

package updateuser

import (
	"context"
	"errors"
	c "happystack/internal/core/domain/common"
	e "happystack/internal/core/domain/errors"
	"happystack/internal/core/domain/logging"
	"happystack/internal/core/domain/user"
	"happystack/internal/core/services"
	"happystack/internal/core/services/auth"
	"time"
)

type Input struct {
	User     user.User
	Username c.Optional[user.Username]
	Email    c.Optional[c.Email]
	Password c.Optional[user.RawPassword]
}

func (i Input) WithAuthenticatedUser(u user.User) auth.Input {
	i.User = u
	return i
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
	update := user.UpdateUserInput{
		ID:        input.User.ID,
		Username:  input.Username,
		Email:     input.Email,
		UpdatedAt: s.now(),
	}
	if input.Password.IsPresent {
		credentials, err := s.passwordHasher.SetPassword(input.Password.Value)
		if err != nil {
			return result, err
		}
		update.Credentials = c.NewOptional(credentials, true)
	}

	updatedUser, err := s.userRepository.Update(ctx, update)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrEmailAlreadyExists) {
		return result, e.NewValidationError("email", e.ReasonAlreadyTaken)
	}
	if errors.Is(err, user.ErrUsernameAlreadyExists) {
		return result, e.NewValidationError("username", e.ReasonAlreadyTaken)
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", input.User.ID))
		return result, e.NewTransientError("update user", err)
	}

	token, err := s.tokenIssuer.IssueToken(updatedUser.ID, updatedUser.Username)
	if err != nil {
		s.log.Error(ctx, "Could not issue auth token.", logging.Entry("userID", updatedUser.ID), logging.Entry("err", err))
		return result, err
	}

	s.log.Info(
		ctx,
		"User successfully updated.",
		logging.Entry("userID", updatedUser.ID),
		logging.Entry("usernameChanged", input.Username.IsPresent),
		logging.Entry("emailChanged", input.Email.IsPresent),
		logging.Entry("passwordChanged", input.Password.IsPresent),
	)
	return Result{User: updatedUser, Token: token}, nil
}

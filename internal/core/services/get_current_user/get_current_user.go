package getcurrentuser

import (
	"context"
	e "happystack/internal/core/domain/errors"
	"happystack/internal/core/domain/logging"
	"happystack/internal/core/domain/user"
	"happystack/internal/core/services"
	"happystack/internal/core/services/auth"
)

type Input struct {
	User user.User
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
	log         logging.Logger
	tokenIssuer user.TokenIssuer
}

// New returns the authenticated user together with a freshly issued token.
func New(log logging.Logger, tokenIssuer user.TokenIssuer) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if tokenIssuer == nil {
		panic(e.NewNilArgumentError("tokenIssuer"))
	}
	return &service{log: log, tokenIssuer: tokenIssuer}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	token, err := s.tokenIssuer.IssueToken(input.User.ID, input.User.Username)
	if err != nil {
		s.log.Error(ctx, "Could not issue auth token.", logging.Entry("userID", input.User.ID), logging.Entry("err", err))
		return result, err
	}
	return Result{User: input.User, Token: token}, nil
}

package auth

import (
	"context"
	"errors"
	e "happystack/internal/core/domain/errors"
	"happystack/internal/core/domain/user"
	"happystack/internal/core/services"
)

type contextAuthToken string

const CONTEXT_AUTH_TOKEN_KEY = contextAuthToken("authToken")

// WithToken stores a raw bearer token for WithAuthentication to pick up.
func WithToken(ctx context.Context, token user.AuthToken) context.Context {
	return context.WithValue(ctx, CONTEXT_AUTH_TOKEN_KEY, token)
}

type Input interface {
	WithAuthenticatedUser(u user.User) Input
}

type service[T Input, S any] struct {
	tokenIssuer    user.TokenIssuer
	userRepository user.UserRepository
	inner          services.Service[T, S]
}

func WithAuthentication[T Input, S any](
	tokenIssuer user.TokenIssuer,
	userRepository user.UserRepository,
	inner services.Service[T, S],
) services.Service[T, S] {
	if tokenIssuer == nil {
		panic(e.NewNilArgumentError("tokenIssuer"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &service[T, S]{
		tokenIssuer:    tokenIssuer,
		userRepository: userRepository,
		inner:          inner,
	}
}

func (s *service[T, S]) Run(ctx context.Context, input T) (result S, err error) {
	token, ok := ctx.Value(CONTEXT_AUTH_TOKEN_KEY).(user.AuthToken)
	if !ok || token == "" {
		return result, e.NewAuthError(e.AuthNoToken)
	}
	claims, err := s.tokenIssuer.VerifyToken(token)
	if err != nil {
		return result, err
	}
	u, err := s.userRepository.GetByID(ctx, claims.ID)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		return result, e.NewAuthError(e.AuthUnknownUser)
	}
	if err != nil {
		return result, err
	}
	return s.inner.Run(ctx, input.WithAuthenticatedUser(u).(T))
}

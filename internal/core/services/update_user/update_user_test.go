package updateuser

import (
	"context"
	c "happystack/internal/core/domain/common"
	e "happystack/internal/core/domain/errors"
	"happystack/internal/core/domain/logging"
	"happystack/internal/core/domain/user"
	"happystack/internal/core/services"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

var NOW = time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC)

type testSuite struct {
	suite.Suite
	Logger         *logging.FakeLogger
	UserRepository *user.FakeUserRepository
	Hasher         *user.FakePasswordHasher
	TokenIssuer    *user.FakeTokenIssuer
	Service        services.Service[Input, Result]
	User           user.User
}

func (s *testSuite) SetupTest() {
	now := func() time.Time { return NOW }
	s.Logger = logging.NewFakeLogger()
	s.UserRepository = user.NewFakeUserRepository()
	s.Hasher = user.NewFakePasswordHasher()
	s.TokenIssuer = user.NewFakeTokenIssuer(now)
	s.Service = New(s.Logger, s.UserRepository, s.Hasher, s.TokenIssuer, now)

	ctx := context.Background()
	credentials, err := s.Hasher.SetPassword("foobaz")
	s.Require().Nil(err)
	s.User, err = s.UserRepository.Create(ctx, user.CreateUserInput{
		Username:    "foobar",
		Email:       "foo@bar.com",
		Credentials: credentials,
		CreatedAt:   NOW.Add(-time.Hour),
	})
	s.Require().Nil(err)
	_, err = s.UserRepository.Create(ctx, user.CreateUserInput{
		Username:    "taken",
		Email:       "taken@bar.com",
		Credentials: credentials,
		CreatedAt:   NOW.Add(-time.Hour),
	})
	s.Require().Nil(err)
}

func TestUpdateUserService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestAllFieldsUpdated() {
	result, err := s.Service.Run(context.Background(), Input{
		User:     s.User,
		Username: c.Some[user.Username]("renamed"),
		Email:    c.Some[c.Email]("renamed@bar.com"),
		Password: c.Some[user.RawPassword]("newpassword"),
	})

	assert := s.Require()
	assert.Nil(err)
	assert.Equal(user.Username("renamed"), result.User.Username)
	assert.Equal(c.Email("renamed@bar.com"), result.User.Email)
	assert.True(s.Hasher.VerifyPassword("newpassword", result.User.Credentials))
	assert.True(result.User.UpdatedAt.Equal(NOW))

	claims, err := s.TokenIssuer.VerifyToken(result.Token)
	assert.Nil(err)
	assert.Equal(user.Username("renamed"), claims.Username)
}

func (s *testSuite) TestAbsentFieldsKept() {
	result, err := s.Service.Run(context.Background(), Input{
		User:  s.User,
		Email: c.Some[c.Email]("renamed@bar.com"),
	})

	assert := s.Require()
	assert.Nil(err)
	assert.Equal(s.User.Username, result.User.Username)
	assert.Equal(s.User.Credentials, result.User.Credentials)
}

func (s *testSuite) TestTakenIdentity() {
	_, err := s.Service.Run(context.Background(), Input{User: s.User, Email: c.Some[c.Email]("taken@bar.com")})
	s.Require().ErrorIs(err, e.NewValidationError("email", e.ReasonAlreadyTaken))

	_, err = s.Service.Run(context.Background(), Input{User: s.User, Username: c.Some[user.Username]("taken")})
	s.Require().ErrorIs(err, e.NewValidationError("username", e.ReasonAlreadyTaken))
}

func (s *testSuite) TestRepositoryFailure() {
	s.UserRepository.ReturnError = true
	_, err := s.Service.Run(context.Background(), Input{User: s.User, Email: c.Some[c.Email]("renamed@bar.com")})

	var transient *e.TransientError
	s.Require().ErrorAs(err, &transient)
}

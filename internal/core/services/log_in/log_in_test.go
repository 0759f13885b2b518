package login

import (
	"context"
	c "happystack/internal/core/domain/common"
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
	s.Logger = logging.NewFakeLogger()
	s.UserRepository = user.NewFakeUserRepository()
	s.Hasher = user.NewFakePasswordHasher()
	s.TokenIssuer = user.NewFakeTokenIssuer(func() time.Time { return NOW })
	s.Service = New(s.Logger, s.UserRepository, s.Hasher, s.TokenIssuer)

	credentials, err := s.Hasher.SetPassword("foobaz")
	s.Require().Nil(err)
	s.User, err = s.UserRepository.Create(context.Background(), user.CreateUserInput{
		Username:    "foobar",
		Email:       "foo@bar.com",
		Credentials: credentials,
		CreatedAt:   NOW,
	})
	s.Require().Nil(err)
}

func TestLogInService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestAuthenticated() {
	result, err := s.Service.Run(context.Background(), Input{Email: "foo@bar.com", Password: "foobaz"})

	assert := s.Require()
	assert.Nil(err)
	assert.Equal(s.User.ID, result.User.ID)
	claims, err := s.TokenIssuer.VerifyToken(result.Token)
	assert.Nil(err)
	assert.Equal(s.User.ID, claims.ID)
	assert.Equal(s.User.Username, claims.Username)
}

func (s *testSuite) TestInvalidCredentials() {
	cases := []struct {
		id       string
		email    string
		password string
	}{
		{"wrong password", "foo@bar.com", "foobar"},
		{"unknown email", "bar@foo.com", "foobaz"},
		{"empty password", "foo@bar.com", ""},
	}
	for _, testcase := range cases {
		s.Run(testcase.id, func() {
			_, err := s.Service.Run(context.Background(), Input{
				Email:    c.Email(testcase.email),
				Password: user.RawPassword(testcase.password),
			})
			s.Require().ErrorIs(err, user.ErrInvalidCredentials)
		})
	}
}

func (s *testSuite) TestPasswordIsNotLogged() {
	s.Service.Run(context.Background(), Input{Email: "foo@bar.com", Password: "wrong-one"})

	for _, value := range s.Logger.Values() {
		s.NotEqual(user.RawPassword("wrong-one"), value)
		s.NotEqual("wrong-one", value)
	}
}

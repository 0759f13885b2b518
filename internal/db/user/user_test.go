package user

import (
	"context"
	"fmt"
	c "happystack/internal/core/domain/common"
	"happystack/internal/core/domain/user"
	"happystack/internal/db"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/suite"
)

const (
	EMAIL         = "foo@bar.com"
	USERNAME      = "foobar"
	PASSWORD_HASH = "test-password-hash"
)

var NOW time.Time = time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC)

type testSuite struct {
	suite.Suite
	pool *pgxpool.Pool
	repo *PgxUserRepository
}

func (suite *testSuite) SetupSuite() {
	if !db.HasTestDatabase() {
		suite.T().Skip("TEST_POSTGRESQL_URL is not set.")
	}
	suite.pool = db.CreateTestPool()
	suite.repo = NewPgxRepository(suite.pool)
}

func (suite *testSuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *testSuite) TearDownTest() {
	db.TruncateTables(suite.pool)
}

func TestPgxUserRepository(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (suite *testSuite) createUser(username user.Username, email c.Email) user.User {
	u, err := suite.repo.Create(context.Background(), user.CreateUserInput{
		Username:    username,
		Email:       email,
		Credentials: user.Credentials{Hash: PASSWORD_HASH},
		CreatedAt:   NOW,
	})
	suite.Require().Nil(err)
	return u
}

func (suite *testSuite) TestCreateAndGet() {
	created := suite.createUser(USERNAME, EMAIL)

	assert := suite.Require()
	assert.Equal(user.Username(USERNAME), created.Username)
	assert.Equal(c.Email(EMAIL), created.Email)
	assert.Equal(user.PasswordHash(PASSWORD_HASH), created.Credentials.Hash)
	assert.False(created.Credentials.Salt.IsPresent)
	assert.False(created.ResetToken.IsPresent)
	assert.True(created.CreatedAt.Equal(NOW))

	byID, err := suite.repo.GetByID(context.Background(), created.ID)
	assert.Nil(err)
	assert.Equal(created.ID, byID.ID)

	byEmail, err := suite.repo.GetByEmail(context.Background(), EMAIL)
	assert.Nil(err)
	assert.Equal(created.ID, byEmail.ID)
}

func (suite *testSuite) TestCreateDuplicates() {
	suite.createUser(USERNAME, EMAIL)

	_, err := suite.repo.Create(context.Background(), user.CreateUserInput{
		Username:    "another",
		Email:       EMAIL,
		Credentials: user.Credentials{Hash: PASSWORD_HASH},
		CreatedAt:   NOW,
	})
	suite.Require().ErrorIs(err, user.ErrEmailAlreadyExists)

	_, err = suite.repo.Create(context.Background(), user.CreateUserInput{
		Username:    USERNAME,
		Email:       "another@bar.com",
		Credentials: user.Credentials{Hash: PASSWORD_HASH},
		CreatedAt:   NOW,
	})
	suite.Require().ErrorIs(err, user.ErrUsernameAlreadyExists)
}

func (suite *testSuite) TestGetMissing() {
	_, err := suite.repo.GetByID(context.Background(), user.NewID())
	suite.Require().ErrorIs(err, user.ErrUserDoesNotExist)

	_, err = suite.repo.GetByEmail(context.Background(), "nobody@bar.com")
	suite.Require().ErrorIs(err, user.ErrUserDoesNotExist)
}

func (suite *testSuite) TestUpdatePartial() {
	ctx := context.Background()
	created := suite.createUser(USERNAME, EMAIL)

	updated, err := suite.repo.Update(ctx, user.UpdateUserInput{
		ID:        created.ID,
		Email:     c.Some[c.Email]("renamed@bar.com"),
		UpdatedAt: NOW.Add(time.Minute),
	})

	assert := suite.Require()
	assert.Nil(err)
	assert.Equal(created.Username, updated.Username)
	assert.Equal(c.Email("renamed@bar.com"), updated.Email)
	assert.Equal(created.Credentials, updated.Credentials)
	assert.True(updated.UpdatedAt.Equal(NOW.Add(time.Minute)))
}

func (suite *testSuite) TestUpdateCredentialsDropsLegacySalt() {
	ctx := context.Background()
	created, err := suite.repo.Create(ctx, user.CreateUserInput{
		Username:    USERNAME,
		Email:       EMAIL,
		Credentials: user.Credentials{Hash: "legacy", Salt: c.Some[user.PasswordSalt]("salt")},
		CreatedAt:   NOW,
	})
	suite.Require().Nil(err)
	suite.Require().True(created.Credentials.Salt.IsPresent)

	updated, err := suite.repo.Update(ctx, user.UpdateUserInput{
		ID:          created.ID,
		Credentials: c.Some(user.Credentials{Hash: "bcrypt"}),
		UpdatedAt:   NOW,
	})

	assert := suite.Require()
	assert.Nil(err)
	assert.Equal(user.PasswordHash("bcrypt"), updated.Credentials.Hash)
	assert.False(updated.Credentials.Salt.IsPresent)
}

func (suite *testSuite) TestUpdateDuplicateEmail() {
	suite.createUser("another", "another@bar.com")
	created := suite.createUser(USERNAME, EMAIL)

	_, err := suite.repo.Update(context.Background(), user.UpdateUserInput{
		ID:        created.ID,
		Email:     c.Some[c.Email]("another@bar.com"),
		UpdatedAt: NOW,
	})
	suite.Require().ErrorIs(err, user.ErrEmailAlreadyExists)
}

func (suite *testSuite) TestResetTokenLifecycle() {
	ctx := context.Background()
	created := suite.createUser(USERNAME, EMAIL)
	expiresAt := NOW.Add(time.Hour)

	err := suite.repo.SetResetToken(ctx, user.SetResetTokenInput{
		ID:        created.ID,
		Token:     "token-one",
		ExpiresAt: expiresAt,
		UpdatedAt: NOW,
	})
	assert := suite.Require()
	assert.Nil(err)

	pending, err := suite.repo.GetByResetToken(ctx, "token-one", NOW)
	assert.Nil(err)
	assert.Equal(created.ID, pending.ID)
	assert.True(pending.ResetTokenExpiresAt.Value.Equal(expiresAt))

	_, err = suite.repo.GetByResetToken(ctx, "token-one", expiresAt)
	assert.ErrorIs(err, user.ErrUserDoesNotExist)

	redeemed, err := suite.repo.RedeemResetToken(ctx, user.RedeemResetTokenInput{
		Token:       "token-one",
		Credentials: user.Credentials{Hash: "new-hash"},
		Now:         NOW,
	})
	assert.Nil(err)
	assert.Equal(user.PasswordHash("new-hash"), redeemed.Credentials.Hash)
	assert.False(redeemed.ResetToken.IsPresent)
	assert.False(redeemed.ResetTokenExpiresAt.IsPresent)

	_, err = suite.repo.RedeemResetToken(ctx, user.RedeemResetTokenInput{
		Token:       "token-one",
		Credentials: user.Credentials{Hash: "other-hash"},
		Now:         NOW,
	})
	assert.ErrorIs(err, user.ErrInvalidPasswordResetToken)
}

func (suite *testSuite) TestSetResetTokenOverwrites() {
	ctx := context.Background()
	created := suite.createUser(USERNAME, EMAIL)
	for _, token := range []user.PasswordResetToken{"token-one", "token-two"} {
		err := suite.repo.SetResetToken(ctx, user.SetResetTokenInput{
			ID:        created.ID,
			Token:     token,
			ExpiresAt: NOW.Add(time.Hour),
			UpdatedAt: NOW,
		})
		suite.Require().Nil(err)
	}

	_, err := suite.repo.GetByResetToken(ctx, "token-one", NOW)
	suite.Require().ErrorIs(err, user.ErrUserDoesNotExist)
	_, err = suite.repo.GetByResetToken(ctx, "token-two", NOW)
	suite.Require().Nil(err)
}

func (suite *testSuite) TestSetResetTokenMissingUser() {
	err := suite.repo.SetResetToken(context.Background(), user.SetResetTokenInput{
		ID:        user.NewID(),
		Token:     "token-one",
		ExpiresAt: NOW.Add(time.Hour),
		UpdatedAt: NOW,
	})
	suite.Require().ErrorIs(err, user.ErrUserDoesNotExist)
}

func (suite *testSuite) TestExpiredTokenCannotBeRedeemedAndIsCleared() {
	ctx := context.Background()
	created := suite.createUser(USERNAME, EMAIL)
	err := suite.repo.SetResetToken(ctx, user.SetResetTokenInput{
		ID:        created.ID,
		Token:     "token-one",
		ExpiresAt: NOW,
		UpdatedAt: NOW,
	})
	suite.Require().Nil(err)

	_, err = suite.repo.RedeemResetToken(ctx, user.RedeemResetTokenInput{
		Token:       "token-one",
		Credentials: user.Credentials{Hash: "new-hash"},
		Now:         NOW,
	})
	suite.Require().ErrorIs(err, user.ErrInvalidPasswordResetToken)

	suite.Require().Nil(suite.repo.ClearExpiredResetToken(ctx, "token-one", NOW))
	stored, err := suite.repo.GetByID(ctx, created.ID)
	suite.Require().Nil(err)
	suite.Require().False(stored.ResetToken.IsPresent)
	suite.Require().Equal(user.PasswordHash(PASSWORD_HASH), stored.Credentials.Hash)
}

func (suite *testSuite) TestConcurrentRedeemSucceedsOnce() {
	ctx := context.Background()
	created := suite.createUser(USERNAME, EMAIL)
	err := suite.repo.SetResetToken(ctx, user.SetResetTokenInput{
		ID:        created.ID,
		Token:     "token-one",
		ExpiresAt: NOW.Add(time.Hour),
		UpdatedAt: NOW,
	})
	suite.Require().Nil(err)

	const attempts = 5
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := suite.repo.RedeemResetToken(ctx, user.RedeemResetTokenInput{
				Token:       "token-one",
				Credentials: user.Credentials{Hash: user.PasswordHash(fmt.Sprintf("hash-%d", i))},
				Now:         NOW,
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		suite.Require().ErrorIs(err, user.ErrInvalidPasswordResetToken)
	}
	suite.Require().Equal(1, succeeded)
}

package getcurrentuser

import (
	"context"
	"happystack/internal/core/domain/logging"
	"happystack/internal/core/domain/user"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFreshTokenIssued(t *testing.T) {
	issuer := user.NewFakeTokenIssuer(time.Now)
	service := New(logging.NewFakeLogger(), issuer)
	u := user.User{ID: user.NewID(), Username: "foobar", Email: "foo@bar.com"}

	result, err := service.Run(context.Background(), Input{User: u})

	require.Nil(t, err)
	require.Equal(t, u, result.User)
	claims, err := issuer.VerifyToken(result.Token)
	require.Nil(t, err)
	require.Equal(t, u.ID, claims.ID)
}

func TestIssuerFailure(t *testing.T) {
	issuer := user.NewFakeTokenIssuer(time.Now)
	issuer.ReturnError = true
	service := New(logging.NewFakeLogger(), issuer)

	_, err := service.Run(context.Background(), Input{User: user.User{ID: user.NewID()}})

	require.NotNil(t, err)
}

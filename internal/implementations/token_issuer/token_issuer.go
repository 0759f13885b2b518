package tokenissuer

import (
	"errors"
	e "happystack/internal/core/domain/errors"
	"happystack/internal/core/domain/user"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang-module/carbon/v2"
)

const DefaultValidDays = 60

// claims is the token payload: {id, username, expiration}, expiration being
// Unix seconds.
type claims struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Expiration int64  `json:"expiration"`
}

func (c claims) GetExpirationTime() (*jwt.NumericDate, error) {
	if c.Expiration == 0 {
		return nil, nil
	}
	return jwt.NewNumericDate(time.Unix(c.Expiration, 0)), nil
}

func (c claims) GetIssuedAt() (*jwt.NumericDate, error)  { return nil, nil }
func (c claims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }
func (c claims) GetIssuer() (string, error)              { return "", nil }
func (c claims) GetSubject() (string, error)             { return c.ID, nil }
func (c claims) GetAudience() (jwt.ClaimStrings, error)  { return nil, nil }

type JWT struct {
	secretKey []byte
	validDays int
	now       func() time.Time
}

func NewJWT(secretKey string, validDays int, now func() time.Time) *JWT {
	if secretKey == "" {
		panic("secret key must not be empty")
	}
	if validDays <= 0 {
		panic("token validity must be positive")
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &JWT{secretKey: []byte(secretKey), validDays: validDays, now: now}
}

func (j *JWT) IssueToken(id user.ID, username user.Username) (user.AuthToken, error) {
	expiration := carbon.Time2Carbon(j.now()).AddDays(j.validDays).Carbon2Time()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		ID:         id.String(),
		Username:   string(username),
		Expiration: expiration.Unix(),
	})
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", err
	}
	return user.AuthToken(signed), nil
}

func (j *JWT) VerifyToken(token user.AuthToken) (result user.Claims, err error) {
	if token == "" {
		return result, e.NewAuthError(e.AuthNoToken)
	}

	parsed := claims{}
	_, err = jwt.ParseWithClaims(
		string(token),
		&parsed,
		func(t *jwt.Token) (interface{}, error) { return j.secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return result, e.NewAuthError(e.AuthExpired)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return result, e.NewAuthError(e.AuthBadSignature)
	default:
		return result, e.NewAuthError(e.AuthMalformed)
	}

	id, err := user.ParseID(parsed.ID)
	if err != nil {
		return result, e.NewAuthError(e.AuthMalformed)
	}
	return user.Claims{
		ID:         id,
		Username:   user.Username(parsed.Username),
		Expiration: time.Unix(parsed.Expiration, 0).UTC(),
	}, nil
}

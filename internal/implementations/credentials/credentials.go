package credentials

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	e "happystack/internal/core/domain/errors"
	"happystack/internal/core/domain/user"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	DefaultCost          = 10
	DefaultResetTokenTTL = time.Hour

	resetTokenBytes = 16

	// Parameters of password material created before the move to bcrypt.
	legacyIterations = 10000
	legacyKeyLength  = 512
)

// Store turns plaintext passwords into persistable credentials and back-verifies
// them. It also issues password reset tokens.
type Store struct {
	cost          int
	resetTokenTTL time.Duration
	now           func() time.Time
}

func New(cost int, resetTokenTTL time.Duration, now func() time.Time) *Store {
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		panic(fmt.Sprintf("bcrypt cost must be within [%d, %d]", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if resetTokenTTL <= 0 {
		panic("reset token TTL must be positive")
	}
	return &Store{cost: cost, resetTokenTTL: resetTokenTTL, now: now}
}

func (s *Store) SetPassword(password user.RawPassword) (credentials user.Credentials, err error) {
	if utf8.RuneCountInString(string(password)) < user.MinPasswordLength {
		return credentials, e.NewValidationError("password", e.ReasonTooShort)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return credentials, e.NewValidationError("password", e.ReasonTooLong)
	}
	if err != nil {
		return credentials, err
	}
	return user.Credentials{Hash: user.PasswordHash(hash)}, nil
}

func (s *Store) VerifyPassword(password user.RawPassword, credentials user.Credentials) bool {
	if credentials.Hash == "" {
		return false
	}
	if credentials.Salt.IsPresent {
		return verifyLegacy(password, credentials.Hash, credentials.Salt.Value)
	}
	return bcrypt.CompareHashAndPassword([]byte(credentials.Hash), []byte(password)) == nil
}

func (s *Store) GenerateResetToken() (token user.PasswordResetToken, expiresAt time.Time, err error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return token, expiresAt, err
	}
	return user.PasswordResetToken(hex.EncodeToString(b)), s.now().Add(s.resetTokenTTL), nil
}

func verifyLegacy(password user.RawPassword, hash user.PasswordHash, salt user.PasswordSalt) bool {
	expected, err := hex.DecodeString(string(hash))
	if err != nil || len(expected) != legacyKeyLength {
		return false
	}
	actual := pbkdf2.Key([]byte(password), []byte(salt), legacyIterations, legacyKeyLength, sha512.New)
	return subtle.ConstantTimeCompare(actual, expected) == 1
}

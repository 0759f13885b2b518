package user

import (
	c "happystack/internal/core/domain/common"
	"time"
)

type PasswordHash string

func (p PasswordHash) String() string {
	return "***"
}

type PasswordSalt string

func (p PasswordSalt) String() string {
	return "***"
}

type RawPassword string

func (p RawPassword) String() string {
	return "***"
}

const MinPasswordLength = 5

// Credentials is the persisted form of a password. Salt is absent for
// self-salting hashes.
type Credentials struct {
	Hash PasswordHash
	Salt c.Optional[PasswordSalt]
}

type PasswordHasher interface {
	SetPassword(password RawPassword) (Credentials, error)
	VerifyPassword(password RawPassword, credentials Credentials) bool
}

type PasswordResetToken string

func (t PasswordResetToken) String() string {
	return "***"
}

type ResetTokenGenerator interface {
	GenerateResetToken() (token PasswordResetToken, expiresAt time.Time, err error)
}

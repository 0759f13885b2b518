package user

import (
	"fmt"
	c "happystack/internal/core/domain/common"
	e "happystack/internal/core/domain/errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ID uuid.UUID

func NewID() ID {
	return ID(uuid.New())
}

func ParseID(raw string) (ID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return ID{}, err
	}
	return ID(id), nil
}

func (id ID) String() string {
	return uuid.UUID(id).String()
}

type Username string

func NewUsername(raw string) Username {
	return Username(strings.ToLower(strings.TrimSpace(raw)))
}

type User struct {
	ID                  ID
	Username            Username
	Email               c.Email
	Credentials         Credentials
	ResetToken          c.Optional[PasswordResetToken]
	ResetTokenExpiresAt c.Optional[time.Time]
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (u *User) Validate() error {
	if u.Credentials.Hash == "" {
		return e.NewInvalidStateError(fmt.Sprintf("password hash is not set for user %s", u.ID))
	}
	if u.ResetToken.IsPresent != u.ResetTokenExpiresAt.IsPresent {
		return e.NewInvalidStateError(
			fmt.Sprintf("reset token and its expiration must be set together for user %s", u.ID),
		)
	}
	return nil
}

// HasPendingReset reports whether the user holds a reset token that is still
// redeemable at the given moment.
func (u *User) HasPendingReset(now time.Time) bool {
	return u.ResetToken.IsPresent && u.ResetTokenExpiresAt.Value.After(now)
}

package user

import (
	"context"
	c "happystack/internal/core/domain/common"
	"time"
)

type CreateUserInput struct {
	Username    Username
	Email       c.Email
	Credentials Credentials
	CreatedAt   time.Time
}

type UpdateUserInput struct {
	ID          ID
	Username    c.Optional[Username]
	Email       c.Optional[c.Email]
	Credentials c.Optional[Credentials]
	UpdatedAt   time.Time
}

type SetResetTokenInput struct {
	ID        ID
	Token     PasswordResetToken
	ExpiresAt time.Time
	UpdatedAt time.Time
}

type RedeemResetTokenInput struct {
	Token       PasswordResetToken
	Credentials Credentials
	Now         time.Time
}

type UserRepository interface {
	Create(ctx context.Context, input CreateUserInput) (User, error)
	GetByID(ctx context.Context, id ID) (User, error)
	GetByEmail(ctx context.Context, email c.Email) (User, error)
	// GetByResetToken only returns users whose token expires strictly after now.
	GetByResetToken(ctx context.Context, token PasswordResetToken, now time.Time) (User, error)
	Update(ctx context.Context, input UpdateUserInput) (User, error)
	// SetResetToken overwrites any previous token of the user.
	SetResetToken(ctx context.Context, input SetResetTokenInput) error
	// RedeemResetToken sets the new credentials and clears the token in one
	// atomic step, provided the token still matches and is unexpired.
	// Otherwise it returns ErrInvalidPasswordResetToken.
	RedeemResetToken(ctx context.Context, input RedeemResetTokenInput) (User, error)
	ClearExpiredResetToken(ctx context.Context, token PasswordResetToken, now time.Time) error
}

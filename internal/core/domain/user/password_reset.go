package user

import (
	"context"
	c "happystack/internal/core/domain/common"
)

type PasswordResetTokenSender interface {
	SendPasswordResetToken(ctx context.Context, email c.Email, token PasswordResetToken) error
	SendPasswordChanged(ctx context.Context, email c.Email) error
}

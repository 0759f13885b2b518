package resetnotifications

import (
	"context"
	"fmt"
	c "happystack/internal/core/domain/common"
	e "happystack/internal/core/domain/errors"
	"happystack/internal/core/domain/notifier"
	"happystack/internal/core/domain/user"
	"net/url"
)

const (
	resetSubject   = "✔ Reset your password"
	changedSubject = "✔ Your password has been changed"
)

const resetBody = `You are receiving this email because you (or someone else) have requested the reset of the password for your account.

Please click on the following link, or paste this into your browser to complete the process:

%s

If you did not request this, please ignore this email and your password will remain unchanged.
`

const changedBody = `This is a confirmation that the password for your account has just been changed.
`

// Sender turns password reset events into messages for a notifier.
type Sender struct {
	notifier notifier.Notifier
	baseURL  url.URL
}

func New(n notifier.Notifier, baseURL url.URL) *Sender {
	if n == nil {
		panic(e.NewNilArgumentError("notifier"))
	}
	return &Sender{notifier: n, baseURL: baseURL}
}

func (s *Sender) SendPasswordResetToken(ctx context.Context, email c.Email, token user.PasswordResetToken) error {
	link := s.baseURL.JoinPath("password", "reset", string(token))
	return s.notifier.Send(ctx, notifier.Message{
		To:      email,
		Subject: resetSubject,
		Body:    fmt.Sprintf(resetBody, link.String()),
	})
}

func (s *Sender) SendPasswordChanged(ctx context.Context, email c.Email) error {
	return s.notifier.Send(ctx, notifier.Message{
		To:      email,
		Subject: changedSubject,
		Body:    changedBody,
	})
}

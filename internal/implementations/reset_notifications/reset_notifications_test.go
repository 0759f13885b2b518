package resetnotifications

import (
	"context"
	c "happystack/internal/core/domain/common"
	"happystack/internal/core/domain/notifier"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func newSender(t *testing.T) (*Sender, *notifier.FakeNotifier) {
	baseURL, err := url.Parse("https://happystack.test/app")
	require.Nil(t, err)
	n := notifier.NewFakeNotifier()
	return New(n, *baseURL), n
}

func TestResetLink(t *testing.T) {
	sender, n := newSender(t)

	err := sender.SendPasswordResetToken(context.Background(), "foo@bar.com", "abc123")

	require.Nil(t, err)
	msg := n.LastSent()
	require.Equal(t, c.Email("foo@bar.com"), msg.To)
	require.Equal(t, "✔ Reset your password", msg.Subject)
	require.Contains(t, msg.Body, "https://happystack.test/app/password/reset/abc123\n")
}

func TestChangedConfirmation(t *testing.T) {
	sender, n := newSender(t)

	err := sender.SendPasswordChanged(context.Background(), "foo@bar.com")

	require.Nil(t, err)
	msg := n.LastSent()
	require.Equal(t, "✔ Your password has been changed", msg.Subject)
	require.NotContains(t, msg.Body, "reset/")
}

func TestNotifierFailurePropagates(t *testing.T) {
	sender, n := newSender(t)
	n.ReturnError = true

	require.NotNil(t, sender.SendPasswordChanged(context.Background(), "foo@bar.com"))
	require.NotNil(t, sender.SendPasswordResetToken(context.Background(), "foo@bar.com", "abc"))
}

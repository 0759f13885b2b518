package notifier

import (
	"context"
	c "happystack/internal/core/domain/common"
)

// Message is a plain-text email. Body may carry secrets (reset links) and must
// never be logged.
type Message struct {
	To      c.Email
	Subject string
	Body    string
}

type Notifier interface {
	Send(ctx context.Context, message Message) error
}

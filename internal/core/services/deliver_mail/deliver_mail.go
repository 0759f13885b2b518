package delivermail

import (
	"context"
	e "happystack/internal/core/domain/errors"
	"happystack/internal/core/domain/logging"
	"happystack/internal/core/domain/notifier"
	"happystack/internal/core/services"
)

type Input struct {
	Message notifier.Message
}

type Result struct{}

type service struct {
	log      logging.Logger
	notifier notifier.Notifier
}

// New hands a queued message to the final transport.
func New(log logging.Logger, n notifier.Notifier) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if n == nil {
		panic(e.NewNilArgumentError("notifier"))
	}
	return &service{log: log, notifier: n}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.Message.To == "" {
		return result, e.NewValidationError("to", e.ReasonInvalid)
	}
	if err := s.notifier.Send(ctx, input.Message); err != nil {
		s.log.Error(ctx, "Could not deliver mail.", logging.Entry("subject", input.Message.Subject), logging.Entry("err", err))
		return result, e.NewTransientError("deliver mail", err)
	}
	s.log.Info(ctx, "Mail delivered.", logging.Entry("subject", input.Message.Subject))
	return result, nil
}

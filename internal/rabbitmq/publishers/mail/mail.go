package mail

import (
	"context"
	e "happystack/internal/core/domain/errors"
	"happystack/internal/core/domain/logging"
	"happystack/internal/core/domain/notifier"
	"happystack/internal/rabbitmq/schema"

	amqp "github.com/rabbitmq/amqp091-go"
)

type channel interface {
	PublishWithContext(
		ctx context.Context,
		exchange, key string,
		mandatory, immediate bool,
		msg amqp.Publishing,
	) error
}

// RabbitMQ queues messages for the mailer process instead of sending them
// inline.
type RabbitMQ struct {
	log        logging.Logger
	channel    channel
	exchange   string
	routingKey string
}

func NewRabbitMQ(log logging.Logger, ch channel, exchange string, routingKey string) *RabbitMQ {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if ch == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	return &RabbitMQ{log: log, channel: ch, exchange: exchange, routingKey: routingKey}
}

func (p *RabbitMQ) Send(ctx context.Context, msg notifier.Message) error {
	body, err := schema.NewMail(msg).Marshal()
	if err != nil {
		return err
	}
	err = p.channel.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		logging.Error(ctx, p.log, err)
		return err
	}
	p.log.Info(
		ctx,
		"AMQP message has been successfully published.",
		logging.Entry("exchange", p.exchange),
		logging.Entry("RK", p.routingKey),
	)
	return nil
}

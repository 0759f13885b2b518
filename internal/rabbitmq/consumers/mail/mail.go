package mail

import (
	"context"
	"errors"
	e "happystack/internal/core/domain/errors"
	"happystack/internal/core/domain/logging"
	"happystack/internal/core/services"
	delivermail "happystack/internal/core/services/deliver_mail"
	"happystack/internal/rabbitmq/schema"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Consumer struct {
	log     logging.Logger
	channel deliverySource
	queue   string
	service services.Service[delivermail.Input, delivermail.Result]
}

type deliverySource interface {
	Consume(queue, consumer string, args amqp.Table) (<-chan amqp.Delivery, error)
}

func New(
	log logging.Logger,
	channel deliverySource,
	queue string,
	service services.Service[delivermail.Input, delivermail.Result],
) *Consumer {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	if queue == "" {
		panic("queue name must not be empty")
	}
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Consumer{log: log, channel: channel, queue: queue, service: service}
}

func (c *Consumer) Consume() error {
	deliveries, err := c.channel.Consume(c.queue, "", nil)
	if err != nil {
		c.log.Error(context.Background(), "Could not start consuming.", logging.Entry("err", err))
		return err
	}
	go func() {
		for delivery := range deliveries {
			c.Handle(context.Background(), delivery)
		}
	}()
	return nil
}

// Handle acks undecodable messages and successful deliveries, and requeues
// messages whose delivery failed.
func (c *Consumer) Handle(ctx context.Context, delivery amqp.Delivery) {
	mail := &schema.Mail{}
	if err := mail.Unmarshal(delivery.Body); err != nil {
		c.log.Error(ctx, "Could not unmarshal mail.", logging.Entry("err", err))
		c.ack(ctx, delivery)
		return
	}

	_, err := c.service.Run(ctx, delivermail.Input{Message: mail.Message()})
	var transient *e.TransientError
	if errors.As(err, &transient) && !delivery.Redelivered {
		c.log.Warning(ctx, "Mail delivery failed, requeueing.", logging.Entry("err", err))
		if err := delivery.Nack(false, true); err != nil {
			c.log.Error(ctx, "Could not NACK AMQP message.", logging.Entry("err", err))
		}
		return
	}
	if err != nil {
		c.log.Error(ctx, "Could not deliver mail, dropping message.", logging.Entry("err", err))
	}
	c.ack(ctx, delivery)
}

func (c *Consumer) ack(ctx context.Context, delivery amqp.Delivery) {
	if err := delivery.Ack(false); err != nil {
		c.log.Error(ctx, "Could not ACK AMQP message.", logging.Entry("err", err))
	}
}

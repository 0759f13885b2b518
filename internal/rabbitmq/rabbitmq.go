package rabbitmq

import (
	"context"
	"fmt"
	"happystack/internal/core/domain/logging"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const reconnectDelay = 3 * time.Second

// Connection redials the broker whenever the underlying connection drops.
type Connection struct {
	*amqp.Connection
	log logging.Logger
}

// Channel opens a channel that is reopened after a broker side close.
func (c *Connection) Channel() (*Channel, error) {
	ch, err := c.Connection.Channel()
	if err != nil {
		return nil, err
	}
	channel := &Channel{Channel: ch, log: c.log}
	go c.keepChannel(channel)
	return channel, nil
}

func (c *Connection) keepChannel(channel *Channel) {
	ctx := context.Background()
	for {
		reason, ok := <-channel.Channel.NotifyClose(make(chan *amqp.Error))
		if !ok || channel.IsClosed() {
			channel.Close()
			return
		}

		c.log.Warning(ctx, "RabbitMQ channel closed.", logging.Entry("reason", reason.Error()))
		for {
			time.Sleep(reconnectDelay)
			ch, err := c.Connection.Channel()
			if err == nil {
				c.log.Info(ctx, "RabbitMQ channel reopened.")
				channel.Channel = ch
				break
			}
			c.log.Error(ctx, "Could not reopen RabbitMQ channel.", logging.Entry("err", err))
		}
	}
}

func Dial(url string, log logging.Logger) (*Connection, error) {
	if log == nil {
		return nil, fmt.Errorf("log argument must not be nil")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	connection := &Connection{Connection: conn, log: log}
	go connection.keepConnection(url)
	return connection, nil
}

func (c *Connection) keepConnection(url string) {
	ctx := context.Background()
	for {
		reason, ok := <-c.Connection.NotifyClose(make(chan *amqp.Error))
		if !ok {
			c.log.Info(ctx, "RabbitMQ connection closed.")
			return
		}

		c.log.Warning(ctx, "RabbitMQ connection lost.", logging.Entry("reason", reason.Error()))
		for {
			time.Sleep(reconnectDelay)
			conn, err := amqp.Dial(url)
			if err == nil {
				c.Connection = conn
				c.log.Info(ctx, "RabbitMQ reconnected.")
				break
			}
			c.log.Error(ctx, "Could not reconnect to RabbitMQ.", logging.Entry("err", err))
		}
	}
}

type Channel struct {
	*amqp.Channel
	closed int32
	log    logging.Logger
}

// IsClosed reports whether Close has been called.
func (ch *Channel) IsClosed() bool {
	return atomic.LoadInt32(&ch.closed) == 1
}

func (ch *Channel) Close() error {
	if ch.IsClosed() {
		return amqp.ErrClosed
	}
	atomic.StoreInt32(&ch.closed, 1)
	return ch.Channel.Close()
}

// Consume keeps delivering across channel reopenings until Close is called.
func (ch *Channel) Consume(queue, consumer string, args amqp.Table) (<-chan amqp.Delivery, error) {
	deliveries := make(chan amqp.Delivery)

	go func() {
		defer close(deliveries)
		ctx := context.Background()
		for {
			d, err := ch.Channel.Consume(queue, consumer, false, false, false, false, args)
			if err != nil {
				ch.log.Error(ctx, "Consume failed.", logging.Entry("queue", queue), logging.Entry("err", err))
				time.Sleep(reconnectDelay)
				continue
			}
			for msg := range d {
				deliveries <- msg
			}

			// Close may still be in flight when the delivery channel ends.
			time.Sleep(reconnectDelay)
			if ch.IsClosed() {
				ch.log.Info(ctx, "Channel is closed, stop consuming.", logging.Entry("queue", queue))
				return
			}
		}
	}()

	return deliveries, nil
}

// DeclareMailTopology declares a durable direct exchange and a durable queue
// bound to it with the routing key.
func (ch *Channel) DeclareMailTopology(exchange, queue, routingKey string) error {
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return err
	}
	return ch.QueueBind(queue, routingKey, exchange, false, nil)
}

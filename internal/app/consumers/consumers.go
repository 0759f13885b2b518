package consumers

import (
	"context"
	"happystack/internal/app/deps"
	"happystack/internal/app/services"
	dl "happystack/internal/core/domain/logging"
	"happystack/internal/rabbitmq/consumers/mail"
)

func initMailConsumer(deps *deps.Deps, services *services.Services) func() {
	rabbitmqChannel := deps.OpenMailChannel()

	queue := deps.Config.RabbitmqMailQueue
	mailConsumer := mail.New(deps.Logger, rabbitmqChannel, queue, services.DeliverMail)
	if err := mailConsumer.Consume(); err != nil {
		deps.Logger.Error(
			context.Background(),
			"Could not start RabbitMQ consuming.",
			dl.Entry("err", err),
			dl.Entry("queue", queue),
		)
		panic(err)
	}

	deps.Logger.Info(context.Background(), "Consumer has started.", dl.Entry("queue", queue))
	return func() { rabbitmqChannel.Close() }
}

func InitConsumers(deps *deps.Deps, services *services.Services) func() {
	shutdownMailConsumer := initMailConsumer(deps, services)

	return func() {
		shutdownMailConsumer()
	}
}

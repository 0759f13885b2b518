package main

import (
	"context"
	"happystack/internal/app/consumers"
	"happystack/internal/app/deps"
	"happystack/internal/app/services"
	"happystack/internal/core/domain/logging"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	deps, shutdownDeps := deps.InitDeps()
	defer shutdownDeps()

	if deps.Config.AwsEmailSender == "" {
		panic("AWS_EMAIL_SENDER must be set for the mailer")
	}

	services := services.InitServices(deps)
	shutdownConsumers := consumers.InitConsumers(deps, services)
	defer shutdownConsumers()

	stopCh, closeCh := createChannel()
	defer closeCh()

	deps.Logger.Info(
		context.Background(),
		"Mailer has started.",
		logging.Entry("queue", deps.Config.RabbitmqMailQueue),
	)
	<-stopCh
	deps.Logger.Info(context.Background(), "Stopping mailer.")
}

func createChannel() (chan os.Signal, func()) {
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	return stopCh, func() {
		close(stopCh)
	}
}

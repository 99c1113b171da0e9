// Package sender собирает воркер, который рассылает партнёрам письма о продажах.
package sender

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/partner-portal/internal/config"
	"github.com/magabrotheeeer/partner-portal/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/partner-portal/internal/lib/sl"
	"github.com/magabrotheeeer/partner-portal/internal/lib/smtp"
	senderservice "github.com/magabrotheeeer/partner-portal/internal/services/sender"
)

type App struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	queue   string
	service *senderservice.Service
	logger  *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "sender.New"

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	queues := rabbitmq.GetNotificationQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &App{
		conn:    conn,
		ch:      ch,
		queue:   queues[0].QueueName,
		service: senderservice.New(logger, smtp.NewTransport(cfg.SMTP, logger)),
		logger:  logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, a.queue, a.logger, a.service.HandleSubscriptionCreated)
	if err != nil {
		a.logger.Error("failed to start consumer", slog.String("queue", a.queue), sl.Err(err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	return nil
}

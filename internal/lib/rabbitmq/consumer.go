package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/partner-portal/internal/lib/sl"
)

// ErrDiscard помечает сообщение, которое повторная доставка не исправит
// (например, тело не разбирается). Такое сообщение отклоняется без возврата
// в очередь.
var ErrDiscard = errors.New("message discarded")

// maxInFlight — сколько сообщений обрабатывается одновременно.
const maxInFlight = 10

// deliverySource — часть *amqp.Channel, из которой читаются сообщения.
type deliverySource interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// ConsumerMessage запускает потребителя очереди queueName.
//
// Каждое сообщение обрабатывается handler. Успех подтверждается, ошибка с
// ErrDiscard отклоняет сообщение без повтора, любая другая ошибка возвращает
// его в очередь.
func ConsumerMessage(ctx context.Context, ch deliverySource, queueName string, log *slog.Logger, handler func([]byte) error) error {
	const op = "rabbitmq.ConsumerMessage"
	delivery, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log = log.With(slog.String("queue", queueName))
	sem := make(chan struct{}, maxInFlight)
	go func() {
		for {
			select {
			case d, ok := <-delivery:
				if !ok {
					return
				}
				sem <- struct{}{}
				go func(d amqp.Delivery) {
					defer func() { <-sem }()
					settle(d, handler(d.Body), log)
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

func settle(d amqp.Delivery, err error, log *slog.Logger) {
	var ackErr error
	switch {
	case err == nil:
		ackErr = d.Ack(false)
	case errors.Is(err, ErrDiscard):
		log.Error("dropping message", slog.Uint64("delivery_tag", d.DeliveryTag), sl.Err(err))
		ackErr = d.Nack(false, false)
	default:
		log.Error("failed to handle message, requeueing", slog.Uint64("delivery_tag", d.DeliveryTag), sl.Err(err))
		ackErr = d.Nack(false, true)
	}
	if ackErr != nil {
		log.Error("failed to settle message", sl.Err(ackErr))
	}
}

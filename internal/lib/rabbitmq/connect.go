// Package rabbitmq содержит подключение к брокеру, объявление очередей,
// публикацию и потребление JSON-сообщений о событиях портала.
package rabbitmq

import (
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// dial подменяется в тестах.
var dial = amqp.Dial

// Connect подключается к RabbitMQ. Делается не меньше одной попытки,
// между неудачными попытками выдерживается пауза delay.
func Connect(url string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"

	var lastErr error
	for attempt := 1; ; attempt++ {
		conn, err := dial(url)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		if attempt >= retries {
			break
		}
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("%s: %w", op, lastErr)
}

// SetupChannel открывает канал и объявляет на нём топологию портала с очередями queues.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := Declare(ch, PortalTopology(queues)); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ch, nil
}

// Declare выставляет префетч и объявляет durable-обменник и очереди топологии.
// Повторное объявление с теми же параметрами безопасно.
func Declare(ch declarer, topo Topology) error {
	if err := ch.Qos(topo.Prefetch, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	if err := ch.ExchangeDeclare(topo.Exchange, topo.Kind, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", topo.Exchange, err)
	}
	for _, q := range topo.Queues {
		if _, err := ch.QueueDeclare(q.QueueName, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", q.QueueName, err)
		}
		if err := ch.QueueBind(q.QueueName, q.RoutingKey, topo.Exchange, false, nil); err != nil {
			return fmt.Errorf("bind %s to %s: %w", q.QueueName, q.RoutingKey, err)
		}
	}
	return nil
}

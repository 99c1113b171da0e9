package rabbitmq

import "github.com/streadway/amqp"

// Exchange — direct-обменник, в который портал публикует события.
const Exchange = "partner.events"

// RoutingKeySubscriptionCreated — событие об оформленной подписке.
const RoutingKeySubscriptionCreated = "subscription.created"

// QueueConfig описывает очередь и ключ маршрутизации, которым она привязана к Exchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Topology — обменник, префетч канала и привязанные к обменнику очереди.
type Topology struct {
	Exchange string
	Kind     string
	Prefetch int
	Queues   []QueueConfig
}

// GetNotificationQueues возвращает очереди, которые слушает отправщик уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notifications.subscription_created", RoutingKey: RoutingKeySubscriptionCreated},
	}
}

// PortalTopology собирает топологию портала для переданных очередей.
func PortalTopology(queues []QueueConfig) Topology {
	return Topology{
		Exchange: Exchange,
		Kind:     amqp.ExchangeDirect,
		Prefetch: 10,
		Queues:   queues,
	}
}

// declarer — часть *amqp.Channel, нужная для объявления топологии.
type declarer interface {
	Qos(prefetchCount, prefetchSize int, global bool) error
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

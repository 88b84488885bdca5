// Package rabbitmq implements the outbox dispatcher's external transport:
// a thin AMQP 0-9-1 publisher that outboxsvc's handlers call for event
// types bound to a queue (order lifecycle notifications, payment events).
// Grounded on the teacher's ProducerRabbitMQRepository (connect-and-panic
// at boot, `Publish` with ContentType/DeliveryMode), rebuilt on plain
// `github.com/rabbitmq/amqp091-go` since the teacher's own wrapper lives in
// the dropped `lib-commons`/`lib-rabbitmq` modules (see DESIGN.md).
package rabbitmq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Producer wraps a single AMQP connection/channel, panicking on an
// unreachable broker at boot the way postgres.Connect does.
type Producer struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func Connect(url string) *Producer {
	conn, err := amqp.Dial(url)
	if err != nil {
		panic(fmt.Sprintf("rabbitmq: failed to connect: %v", err))
	}
	ch, err := conn.Channel()
	if err != nil {
		panic(fmt.Sprintf("rabbitmq: failed to open channel: %v", err))
	}
	return &Producer{conn: conn, ch: ch}
}

func (p *Producer) Close() error {
	_ = p.ch.Close()
	return p.conn.Close()
}

func (p *Producer) HealthCheck() bool {
	return p.conn != nil && !p.conn.IsClosed()
}

// Publish sends a persistent message to exchange/routingKey. Delivery is
// at-most-once from the broker's perspective; outboxsvc supplies the
// at-least-once guarantee by retrying a handler whose Publish call fails.
func (p *Producer) Publish(ctx context.Context, exchange, routingKey string, body []byte) error {
	return p.ch.PublishWithContext(ctx, exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

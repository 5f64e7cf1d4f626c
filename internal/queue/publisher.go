package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher pushes domain events to RabbitMQ for downstream consumers
// (notifications, admin feeds). Publishing is fail-soft: errors are logged
// and returned, and callers never let a publish failure affect a committed
// settlement or refund.
type Publisher struct {
	url string
	log *zap.Logger
}

func NewPublisher(url string, log *zap.Logger) *Publisher {
	return &Publisher{
		url: url,
		log: log.With(zap.String("component", "queue")),
	}
}

func (p *Publisher) Publish(ctx context.Context, queueName string, event any) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Warn("Queue dial failed", zap.Error(err), zap.String("queue", queueName))
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("Queue channel open failed", zap.Error(err), zap.String("queue", queueName))
		return err
	}
	defer ch.Close()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		p.log.Warn("Queue declare failed", zap.Error(err), zap.String("queue", queueName))
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.log.Warn("Event marshal failed", zap.Error(err), zap.String("queue", queueName))
		return err
	}

	err = ch.PublishWithContext(ctx, "", queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		p.log.Warn("Event publish failed", zap.Error(err), zap.String("queue", queueName))
		return err
	}

	return nil
}

package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"campus-canteen/internal/connections/rabbitmq"
	"campus-canteen/internal/domain"
)

type amqpPublisher interface {
	Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error
	Close()
}

type RabbitPublisher struct {
	client   amqpPublisher
	exchange string
}

func NewRabbitPublisher(client *rabbitmq.Client, exchange string) *RabbitPublisher {
	return &RabbitPublisher{client: client, exchange: exchange}
}

func (p *RabbitPublisher) Publish(ctx context.Context, ev domain.OrderEvent) error {
	body, err := encode(ev)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return p.client.Publish(ctx, p.exchange, ev.Event, amqp.Publishing{
		DeliveryMode:  amqp.Persistent,
		ContentType:   "application/json",
		MessageId:     uuid.NewString(),
		CorrelationId: ev.Token,
		Type:          ev.Event,
		Timestamp:     ev.OccurredAt,
		Headers:       amqp.Table{"x-source": "canteen-server"},
		Body:          body,
	})
}

func (p *RabbitPublisher) Close() error {
	p.client.Close()
	return nil
}

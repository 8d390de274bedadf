// Package events publishes order ledger changes to a message broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"campus-canteen/internal/common/logger"
	"campus-canteen/internal/config"
	"campus-canteen/internal/connections/rabbitmq"
	"campus-canteen/internal/domain"
)

type Publisher interface {
	Publish(ctx context.Context, ev domain.OrderEvent) error
	Close() error
}

// New builds the publisher selected by EVENTS_BACKEND.
func New(cfg *config.Config, lg *logger.Logger) (Publisher, error) {
	switch cfg.Events.Backend {
	case config.EventsRabbitMQ:
		client, err := rabbitmq.Dial(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		if err := client.DeclareTopology(cfg.RabbitMQ.Exchange, cfg.RabbitMQ.Queue); err != nil {
			client.Close()
			return nil, err
		}
		lg.Info("rabbitmq_connected", map[string]any{"exchange": cfg.RabbitMQ.Exchange})
		return NewRabbitPublisher(client, cfg.RabbitMQ.Exchange), nil
	case config.EventsKafka:
		p, err := NewKafkaPublisher(cfg.Kafka)
		if err != nil {
			return nil, err
		}
		lg.Info("kafka_connected", map[string]any{"brokers": cfg.Kafka.Brokers, "topic": cfg.Kafka.Topic})
		return p, nil
	default:
		return Noop{}, nil
	}
}

func encode(ev domain.OrderEvent) ([]byte, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", ev.Event, err)
	}
	return body, nil
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, domain.OrderEvent) error { return nil }
func (Noop) Close() error                                     { return nil }

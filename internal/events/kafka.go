package events

import (
	"context"
	"fmt"

	"github.com/Shopify/sarama"

	"campus-canteen/internal/config"
	"campus-canteen/internal/domain"
)

type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaPublisher(cfg config.KafkaConfig) (*KafkaPublisher, error) {
	kc := sarama.NewConfig()
	kc.Producer.Return.Successes = true
	kc.Producer.RequiredAcks = sarama.WaitForAll
	kc.Producer.Retry.Max = 3
	producer, err := sarama.NewSyncProducer(cfg.Brokers, kc)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return newKafkaPublisher(producer, cfg.Topic), nil
}

func newKafkaPublisher(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

// Publish keys messages by token so one order's events stay in one partition.
func (p *KafkaPublisher) Publish(_ context.Context, ev domain.OrderEvent) error {
	body, err := encode(ev)
	if err != nil {
		return err
	}
	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(ev.Token),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event"), Value: []byte(ev.Event)},
		},
	})
	if err != nil {
		return fmt.Errorf("send %s to kafka: %w", ev.Event, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error { return p.producer.Close() }

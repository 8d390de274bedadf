package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	amqp "github.com/rabbitmq/amqp091-go"

	"campus-canteen/internal/domain"
)

func sampleEvent() domain.OrderEvent {
	pickup := "12:30 PM"
	return domain.NewOrderEvent(domain.EventOrderPlaced, domain.Order{
		ID:            7,
		Username:      "alice",
		Token:         "AB12CD",
		Status:        domain.StatusPending,
		TotalPrice:    210,
		PaymentMethod: domain.PaymentCash,
		PickupTime:    &pickup,
	}, "alice")
}

func TestKafkaPublisherKeysByToken(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, _ := msg.Key.Encode()
		if string(key) != "AB12CD" {
			t.Errorf("key = %q", key)
		}
		if msg.Topic != "canteen_orders" {
			t.Errorf("topic = %q", msg.Topic)
		}
		raw, _ := msg.Value.Encode()
		var ev domain.OrderEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			t.Errorf("decode: %v", err)
		}
		if ev.Event != domain.EventOrderPlaced || ev.PickupTime != "12:30 PM" {
			t.Errorf("event = %+v", ev)
		}
		return nil
	})

	p := newKafkaPublisher(producer, "canteen_orders")
	if err := p.Publish(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestKafkaPublisherWrapsSendError(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := newKafkaPublisher(producer, "canteen_orders")
	if err := p.Publish(context.Background(), sampleEvent()); err == nil {
		t.Fatal("expected error")
	}
	_ = p.Close()
}

type recordingAMQP struct {
	exchange, key string
	msg           amqp.Publishing
	closed        bool
}

func (r *recordingAMQP) Publish(_ context.Context, exchange, key string, msg amqp.Publishing) error {
	r.exchange, r.key, r.msg = exchange, key, msg
	return nil
}

func (r *recordingAMQP) Close() { r.closed = true }

func TestRabbitPublisherMessage(t *testing.T) {
	rec := &recordingAMQP{}
	p := &RabbitPublisher{client: rec, exchange: "canteen_notifications"}

	if err := p.Publish(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if rec.exchange != "canteen_notifications" || rec.key != domain.EventOrderPlaced {
		t.Fatalf("routed to %q/%q", rec.exchange, rec.key)
	}
	if rec.msg.DeliveryMode != amqp.Persistent || rec.msg.ContentType != "application/json" {
		t.Fatalf("publishing = %+v", rec.msg)
	}
	if rec.msg.CorrelationId != "AB12CD" || rec.msg.MessageId == "" {
		t.Fatalf("ids = %q %q", rec.msg.CorrelationId, rec.msg.MessageId)
	}
	_ = p.Close()
	if !rec.closed {
		t.Fatal("client not closed")
	}
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"campus-canteen/internal/common/logger"
	"campus-canteen/internal/connections/rabbitmq"
	"campus-canteen/internal/domain"
)

// ErrDLQ marks a message that can never be processed; it is rejected without
// requeue and lands in the dead-letter queue.
var ErrDLQ = errors.New("dead_letter")

type NotificatorService struct {
	rmqClient *rabbitmq.Client
	queue     string
	prefetch  int
	log       *logger.Logger
}

func NewNotificatorService(rmqClient *rabbitmq.Client, queue string, prefetch int, lg *logger.Logger) *NotificatorService {
	return &NotificatorService{rmqClient: rmqClient, queue: queue, prefetch: prefetch, log: lg}
}

// Notify consumes the notifications queue until ctx is cancelled.
func (ns *NotificatorService) Notify(ctx context.Context) error {
	const consumerTag = "notificator"
	ch, msgs, err := ns.rmqClient.Consume(ns.queue, consumerTag, ns.prefetch)
	if err != nil {
		return err
	}
	defer ch.Close()
	ns.log.Info("consuming", map[string]any{"queue": ns.queue, "prefetch": ns.prefetch})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for d := range msgs {
			ns.deliver(d)
		}
	}()

	select {
	case <-ctx.Done():
		_ = ch.Cancel(consumerTag, false)
		<-done
		ns.log.Info("graceful_shutdown", nil)
		return nil
	case <-done:
		return errors.New("notifications channel closed by broker")
	}
}

func (ns *NotificatorService) deliver(d amqp.Delivery) {
	notice, ev, err := Handle(d.Body)
	if err != nil {
		ns.log.Error("notification_rejected", err, map[string]any{"message_id": d.MessageId})
		_ = d.Nack(false, false)
		return
	}
	ns.log.Info("notification_sent", map[string]any{
		"event":    ev.Event,
		"token":    ev.Token,
		"username": ev.Username,
		"status":   ev.Status,
		"notice":   notice,
	})
	_ = d.Ack(false)
}

// Handle decodes one message body into the notice shown to the customer.
func Handle(body []byte) (string, domain.OrderEvent, error) {
	var ev domain.OrderEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return "", ev, fmt.Errorf("%w: %v", ErrDLQ, err)
	}
	if ev.Token == "" || ev.Event == "" {
		return "", ev, fmt.Errorf("%w: missing token or event", ErrDLQ)
	}
	notice, ok := Notice(ev)
	if !ok {
		return "", ev, fmt.Errorf("%w: unknown event %q", ErrDLQ, ev.Event)
	}
	return notice, ev, nil
}

func Notice(ev domain.OrderEvent) (string, bool) {
	switch ev.Event {
	case domain.EventOrderPlaced:
		msg := fmt.Sprintf("Order %s placed by %s, total %.2f", ev.Token, ev.Username, ev.TotalPrice)
		if ev.PickupTime != "" {
			msg += ", pickup at " + ev.PickupTime
		}
		return msg, true
	case domain.EventOrderStatusChanged:
		switch ev.Status {
		case domain.StatusReady:
			return fmt.Sprintf("Order %s is Ready for pickup", ev.Token), true
		case domain.StatusPreparing:
			return fmt.Sprintf("Order %s is being prepared", ev.Token), true
		default:
			return fmt.Sprintf("Order %s is %s", ev.Token, ev.Status), true
		}
	case domain.EventOrderDeleted:
		if ev.Status == domain.StatusReceived {
			return fmt.Sprintf("Order %s was collected", ev.Token), true
		}
		return fmt.Sprintf("Order %s was removed by the canteen", ev.Token), true
	}
	return "", false
}

package notificator

import (
	"context"
	"errors"

	"campus-canteen/internal/common/logger"
	"campus-canteen/internal/config"
	"campus-canteen/internal/connections/rabbitmq"
	"campus-canteen/internal/microservices/notificator/service"
)

// Start runs the notification subscriber until ctx is cancelled. It needs the
// RabbitMQ backend; Kafka events are not consumed here.
func Start(ctx context.Context, cfg *config.Config) error {
	if cfg.Events.Backend != config.EventsRabbitMQ {
		return errors.New("notification-subscriber requires EVENTS_BACKEND=rabbitmq")
	}
	lg := logger.New("notification-subscriber")

	rmqClient, err := rabbitmq.Dial(cfg.RabbitMQ)
	if err != nil {
		return err
	}
	defer rmqClient.Close()
	if err := rmqClient.DeclareTopology(cfg.RabbitMQ.Exchange, cfg.RabbitMQ.Queue); err != nil {
		return err
	}

	svc := service.New(rmqClient, cfg.RabbitMQ, lg)
	return svc.NotificatorService.Notify(ctx)
}

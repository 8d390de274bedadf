package service

import (
	"campus-canteen/internal/common/logger"
	"campus-canteen/internal/config"
	"campus-canteen/internal/connections/rabbitmq"
)

type Service struct {
	NotificatorService *NotificatorService
}

func New(rmqClient *rabbitmq.Client, cfg config.RabbitMQConfig, lg *logger.Logger) *Service {
	return &Service{NotificatorService: NewNotificatorService(rmqClient, cfg.Queue, cfg.Prefetch, lg)}
}

// Package subscriber consumes entry-created notifications from the fanout
// exchange and logs each arrival for the gate operators' console feed.
package subscriber

import (
	"context"
	"encoding/json"
	"fmt"

	"tanker-queue/pkg/config"
	"tanker-queue/pkg/logger"
	"tanker-queue/pkg/models"
	"tanker-queue/pkg/rabbitmq"

	amqp "github.com/rabbitmq/amqp091-go"
)

type NotificationSubscriber struct {
	config   *config.Config
	logger   *logger.Logger
	rabbitMQ *rabbitmq.RabbitMQ
}

func NewNotificationSubscriber(cfg *config.Config, log *logger.Logger) *NotificationSubscriber {
	return &NotificationSubscriber{
		config: cfg,
		logger: log,
	}
}

func (s *NotificationSubscriber) Start(ctx context.Context) error {
	rm, err := rabbitmq.ConnectRabbitMQ(&s.config.RabbitMQ, s.logger)
	if err != nil {
		return err
	}
	s.rabbitMQ = rm

	return s.consumeMessages(ctx)
}

func (s *NotificationSubscriber) Stop() {
	if s.rabbitMQ != nil {
		s.rabbitMQ.Close()
	}
}

func (s *NotificationSubscriber) consumeMessages(ctx context.Context) error {
	msgs, err := s.rabbitMQ.Channel.Consume(
		rabbitmq.NotificationsQueue, // queue
		"gate-notification-sub",     // consumer
		false,                       // auto-ack
		false,                       // exclusive
		false,                       // no-local
		false,                       // no-wait
		nil,                         // args
	)
	if err != nil {
		return err
	}

	s.logger.Info("startup", "consuming_started", "Started consuming entry notifications")

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			s.handleMessage(msg)
		}
	}
}

func (s *NotificationSubscriber) handleMessage(msg amqp.Delivery) {
	var notification models.EntryCreatedMessage
	if err := json.Unmarshal(msg.Body, &notification); err != nil {
		s.logger.Error("", "message_parse_failed", "Failed to parse entry notification", err)
		_ = msg.Nack(false, false)
		return
	}

	s.logger.Info("", "entry_arrived", fmt.Sprintf("Queue %s: truck %s (%s) driven by %s",
		notification.QueueNumber, notification.TruckNumber,
		notification.CompanyName, notification.DriverName))
	_ = msg.Ack(false)
}

// Package message publishes entry-created notifications to the fanout
// exchange. Delivery is fire-and-forget: the caller logs failures but the
// insert never depends on them.
package message

import (
	"context"
	"encoding/json"
	"time"

	"tanker-queue/pkg/logger"
	"tanker-queue/pkg/models"
	"tanker-queue/pkg/rabbitmq"

	"github.com/rabbitmq/amqp091-go"
)

type EntryPublisher struct {
	channel *amqp091.Channel
	logger  *logger.Logger
}

func NewEntryPublisher(channel *amqp091.Channel, logger *logger.Logger) *EntryPublisher {
	return &EntryPublisher{
		channel: channel,
		logger:  logger,
	}
}

func (p *EntryPublisher) EntryCreated(ctx context.Context, entry *models.Entry) error {
	msg := models.EntryCreatedMessage{
		EntryID:     entry.ID,
		QueueNumber: entry.QueueNumber,
		TruckNumber: entry.TruckNumber,
		CompanyName: entry.CompanyName,
		DriverName:  entry.DriverName,
		CreatedAt:   entry.CreatedAt,
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(ctx,
		rabbitmq.NotificationsExchange, // exchange
		"",                             // routing key
		false,                          // mandatory
		false,                          // immediate
		amqp091.Publishing{
			DeliveryMode: amqp091.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return err
	}

	p.logger.Debug("", "entry_published", "Entry notification published: "+entry.QueueNumber)
	return nil
}

package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/lovinghomes/site/internal/model"
)

// EventBookingCreated is the Type of every message this package publishes.
const EventBookingCreated = "booking.inquiry.created"

// BookingPublisher implements service.Notifier on a durable queue.
//
// A channel is opened per publish. Inquiries arrive a few times a day, so a
// long-lived channel (and its reconnect handling) is not worth keeping.
type BookingPublisher struct {
	conn      *amqp.Connection
	queueName string
}

// NewBookingPublisher creates a publisher for queueName on conn.
func NewBookingPublisher(conn *amqp.Connection, queueName string) *BookingPublisher {
	return &BookingPublisher{conn: conn, queueName: queueName}
}

// NotifyBooking publishes inquiry as a persistent JSON message.
func (p *BookingPublisher) NotifyBooking(ctx context.Context, inquiry *model.BookingInquiry) error {
	msg, err := bookingMessage(inquiry, time.Now())
	if err != nil {
		return err
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq: opening channel: %w", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(
		p.queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		return fmt.Errorf("rabbitmq: declaring queue %s: %w", p.queueName, err)
	}

	if err := ch.PublishWithContext(ctx, "", p.queueName, false, false, msg); err != nil {
		return fmt.Errorf("rabbitmq: publishing booking %s: %w", inquiry.ID, err)
	}
	return nil
}

// bookingMessage builds the AMQP message for inquiry. The body is the
// inquiry's JSON form, the same shape the HTTP API returns.
func bookingMessage(inquiry *model.BookingInquiry, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(inquiry)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("rabbitmq: encoding booking %s: %w", inquiry.ID, err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    inquiry.ID,
		Type:         EventBookingCreated,
		Timestamp:    now,
		Body:         body,
	}, nil
}

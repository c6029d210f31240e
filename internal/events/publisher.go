package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"slot-booking-api/internal/model"
)

const KeyBookingCreated = "booking.created"

// BookingCreatedEvent is the JSON body published for every new booking.
type BookingCreatedEvent struct {
	BookingID int64     `json:"booking_id"`
	UserID    string    `json:"user_id"`
	Service   string    `json:"service"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	CreatedAt time.Time `json:"created_at"`
}

func NewBookingCreated(b model.Booking) BookingCreatedEvent {
	return BookingCreatedEvent{
		BookingID: b.ID,
		UserID:    b.UserID,
		Service:   b.Service,
		Date:      b.Date,
		Time:      b.Time,
		CreatedAt: b.CreatedAt,
	}
}

// channel is the part of *amqp.Channel the publisher needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type Publisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *Publisher) BookingCreated(ctx context.Context, b model.Booking) error {
	return p.publishJSON(ctx, KeyBookingCreated, NewBookingCreated(b))
}

func (p *Publisher) publishJSON(ctx context.Context, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Noop drops every event. Used when no broker is configured.
type Noop struct{}

func (Noop) BookingCreated(context.Context, model.Booking) error { return nil }
func (Noop) Close() error                                        { return nil }

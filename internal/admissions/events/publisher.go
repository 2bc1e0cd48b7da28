// Package events publishes booking lifecycle events. Publishing happens after
// the critical section, so a slow broker never extends a resource's lock hold.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"roomly/pkg/kafka"
	kafkaconfig "roomly/pkg/kafka/config"
	"roomly/pkg/logger"
	"roomly/pkg/model"
)

const TopicBookingCommitted = "bookings.committed"

type Publisher interface {
	BookingCommitted(ctx context.Context, booking *model.Booking) error
	Close() error
}

// bookingCommittedEvent is the wire shape of a committed booking.
type bookingCommittedEvent struct {
	EventType  string    `json:"event_type"`
	BookingID  string    `json:"booking_id"`
	UserID     string    `json:"user_id"`
	ResourceID string    `json:"resource_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	CreatedAt  time.Time `json:"created_at"`
}

type kafkaPublisher struct {
	producer *kafka.Producer
	logger   *logger.Logger
}

// NewKafkaPublisher builds a publisher on the committed-bookings topic.
// Messages are keyed by resource, so one resource's events stay in order.
func NewKafkaPublisher(cfg *kafkaconfig.Config, log *logger.Logger) (Publisher, error) {
	producer, err := kafka.NewProducer(cfg, TopicBookingCommitted)
	if err != nil {
		return nil, fmt.Errorf("failed to create committed-bookings producer: %w", err)
	}
	return &kafkaPublisher{producer: producer, logger: log}, nil
}

func (p *kafkaPublisher) BookingCommitted(ctx context.Context, booking *model.Booking) error {
	event := bookingCommittedEvent{
		EventType:  "booking.committed",
		BookingID:  booking.ID,
		UserID:     booking.UserID,
		ResourceID: booking.ResourceID,
		StartTime:  booking.StartTime,
		EndTime:    booking.EndTime,
		CreatedAt:  booking.CreatedAt,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal booking committed event: %w", err)
	}

	msg := kafka.NewMessage(booking.ResourceID, payload).
		WithHeader("event_type", event.EventType)

	if err := p.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish booking committed event: %w", err)
	}

	p.logger.Debug("published booking committed event",
		"booking_id", booking.ID,
		"resource_id", booking.ResourceID,
	)
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// Nop is used when no broker is configured and in tests.
type Nop struct{}

func (Nop) BookingCommitted(context.Context, *model.Booking) error { return nil }
func (Nop) Close() error                                           { return nil }

// Package events publishes reservation lifecycle events. Publishing is
// strictly best-effort: a booking that committed to the store is never
// failed because the event bus is down.
package events

import (
	"context"
	"time"

	"roomly/pkg/kafka"
	"roomly/pkg/logger"
	"roomly/pkg/model"
)

type Publisher interface {
	Publish(ctx context.Context, event model.ReservationEvent)
	Close() error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	source   string
	timeout  time.Duration
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, source string, log *logger.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		source:   source,
		timeout:  5 * time.Second,
		log:      log,
	}
}

// Publish sends the event keyed by room id. The publish runs on a detached
// context so a cancelled request cannot abort an event for a mutation that
// already committed.
func (p *kafkaPublisher) Publish(ctx context.Context, event model.ReservationEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	msg := kafka.NewMessage().
		WithKey(event.RoomID).
		WithValue(event).
		WithEventType(event.Type).
		WithSource(p.source).
		Build()

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if err := p.producer.Publish(publishCtx, msg); err != nil {
		p.log.Error("Failed to publish reservation event",
			"event_type", event.Type,
			"record_id", event.RecordID,
			"room_id", event.RoomID,
			"error", err,
		)
		return
	}

	p.log.Debug("Published reservation event",
		"event_type", event.Type,
		"record_id", event.RecordID,
		"room_id", event.RoomID,
	)
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher drops all events. Used when event publishing is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, model.ReservationEvent) {}

func (NopPublisher) Close() error { return nil }

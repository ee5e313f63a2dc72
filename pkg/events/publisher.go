package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"oxibook/pkg/logger"
)

// Publisher emits booking lifecycle events. A nil Publisher is valid
// and drops everything, so services run unchanged without brokers.
type Publisher struct {
	writer *kafka.Writer
	source string
	log    *logger.Logger
}

// NewPublisher returns nil when no brokers are configured.
func NewPublisher(brokers []string, topic, source string, log *logger.Logger) *Publisher {
	if len(brokers) == 0 {
		log.Info("Kafka brokers not configured, lifecycle events disabled")
		return nil
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // key by booking_id keeps per-booking ordering
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
		Logger:       kafka.LoggerFunc(func(string, ...any) {}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.Error("Kafka writer error", "message", fmt.Sprintf(msg, args...))
		}),
	}

	log.Info("Lifecycle event publisher initialized", "topic", topic)
	return &Publisher{writer: writer, source: source, log: log}
}

// Publish sends one lifecycle event. Failures are logged, never
// returned: event delivery must not fail the user action that caused
// it.
func (p *Publisher) Publish(ctx context.Context, eventType string, event BookingEvent) {
	if p == nil {
		return
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.log.Error("Failed to encode lifecycle event",
			"event_type", eventType,
			"booking_id", event.BookingID,
			"error", err,
		)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.BookingID),
		Value: value,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(uuid.NewString())},
			{Key: HeaderEventType, Value: []byte(eventType)},
			{Key: HeaderSource, Value: []byte(p.source)},
			{Key: HeaderTimestamp, Value: []byte(event.OccurredAt.Format(time.RFC3339))},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("Failed to publish lifecycle event",
			"event_type", eventType,
			"booking_id", event.BookingID,
			"error", err,
		)
		return
	}

	p.log.Debug("Lifecycle event published",
		"event_type", eventType,
		"booking_id", event.BookingID,
	)
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if err := p.writer.Close(); err != nil {
		p.log.Error("Failed to close Kafka writer", "error", err)
	}
}

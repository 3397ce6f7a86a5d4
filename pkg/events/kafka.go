package events

import (
	"context"
	"encoding/json"
	"time"

	"glam-commerce/pkg/utils"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Event types emitted for downstream consumers (notifications, analytics).
const (
	OrderCreated     = "order.created"
	OrderPaid        = "order.paid"
	OrderCancelled   = "order.cancelled"
	BookingConfirmed = "booking.confirmed"
	BookingCancelled = "booking.cancelled"
)

// Event is the envelope written to the events topic.
type Event struct {
	Type       string         `json:"type"`
	EntityID   string         `json:"entity_id"`
	Number     string         `json:"number,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// Publisher writes domain events to Kafka. A nil *Publisher is a no-op so the
// core workflows never branch on whether eventing is wired.
type Publisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewPublisher(config utils.KafkaConfig, log *zap.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(config.Brokers...),
		Topic:                  config.Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}

	return &Publisher{
		writer: writer,
		log:    log.With(zap.String("component", "events")),
	}
}

// Publish is fire-and-forget: failures are logged, never returned to callers.
func (p *Publisher) Publish(ctx context.Context, event Event) {
	if p == nil {
		return
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.log.Error("Failed to marshal event", zap.Error(err), zap.String("type", event.Type))
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.EntityID),
		Value: value,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("Failed to publish event",
			zap.Error(err),
			zap.String("type", event.Type),
			zap.String("entity_id", event.EntityID),
		)
		return
	}

	p.log.Debug("Event published", zap.String("type", event.Type), zap.String("entity_id", event.EntityID))
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}

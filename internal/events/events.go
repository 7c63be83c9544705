package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ecofoods/ecofoods-backend/config"
	"github.com/ecofoods/ecofoods-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	OrderCreated         = "order.created"
	OrderItemAdded       = "order.item_added"
	OrderStatusUpdated   = "order.status_updated"
	DeliveryCreated      = "delivery.created"
	DeliveryUpdated      = "delivery.updated"
	DeliveryReminderSent = "delivery.reminder_sent"
)

// Event is a domain event keyed by the order it concerns
type Event struct {
	Type       string                 `json:"type"`
	OrderID    uuid.UUID              `json:"order_id"`
	UserID     uuid.UUID              `json:"user_id"`
	Data       map[string]interface{} `json:"data,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// New returns a kafka publisher, or a no-op one when no brokers are configured
func New(cfg config.KafkaConfig) Publisher {
	if !cfg.Enabled() {
		logger.Warn("Kafka brokers not configured, domain events are dropped")
		return NoopPublisher{}
	}
	return NewKafkaPublisher(cfg.Brokers, cfg.OrderTopic)
}

// PublishTimeout bounds a publish made after a request has committed its write
const PublishTimeout = 2 * time.Second

// Detach keeps ctx's values but not its cancellation, so a client hanging up
// does not abort an event for a write that already happened
func Detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), PublishTimeout)
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	logger.Info("Initializing kafka publisher", logger.Fields{
		"brokers": brokers,
		"topic":   topic,
	})

	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			BatchTimeout:           10 * time.Millisecond,
			WriteTimeout:           5 * time.Second,
			AllowAutoTopicCreation: true,
		},
	}
}

// Publish writes event keyed by order id so one order's events stay ordered
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID.String()),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logger.Error("Failed to publish event", err, logger.Fields{
			"type":     event.Type,
			"order_id": event.OrderID,
		})
		return fmt.Errorf("kafka: write failed: %w", err)
	}

	logger.Debug("Event published", logger.Fields{
		"type":     event.Type,
		"order_id": event.OrderID,
	})
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error                         { return nil }

// Recorder keeps published events in memory
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything published so far
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types lists the published event types in order
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, 0, len(r.events))
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}

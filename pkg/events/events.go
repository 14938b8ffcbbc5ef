// Package events publishes catalog change notifications to a RabbitMQ topic exchange.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"realestate-catalog/pkg/logger"
	"realestate-catalog/pkg/metrics"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Routing keys.
const (
	PropertyCreated    = "property.created"
	PropertyUpdated    = "property.updated"
	PropertyDeleted    = "property.deleted"
	OwnerCreated       = "owner.created"
	OwnerUpdated       = "owner.updated"
	OwnerDeleted       = "owner.deleted"
	ImageUploaded      = "image.uploaded"
	ImageDisabled      = "image.disabled"
	ImageDeleted       = "image.deleted"
	MainImageChanged   = "image.main_changed"
	TraceRecorded      = "trace.recorded"
	TracesDeleted      = "trace.deleted"
	PlaceUpserted      = "place.upserted"
	PlaceDeleted       = "place.deleted"
	MainImagesRepaired = "maintenance.main_images_repaired"
)

// Event is the message body of every notification.
type Event struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	AggregateID string      `json:"aggregateId"`
	OccurredAt  time.Time   `json:"occurredAt"`
	Data        interface{} `json:"data,omitempty"`
}

func NewEvent(routingKey, aggregateID string, data interface{}) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        routingKey,
		AggregateID: aggregateID,
		OccurredAt:  time.Now().UTC(),
		Data:        data,
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewAMQPPublisher dials url and declares exchange as a durable topic exchange.
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("publisher: failed to dial RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("publisher: failed to open a channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("publisher: failed to declare exchange '%s': %w", exchange, err)
	}
	logger.GlobalLogger.Printf("Connected to RabbitMQ exchange %s", exchange)
	return &AMQPPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("publisher: failed to encode %s: %w", event.Type, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel == nil || p.conn.IsClosed() {
		metrics.EventsPublishedTotal.WithLabelValues(event.Type, "error").Inc()
		return fmt.Errorf("publisher: not connected or channel/connection is closed")
	}
	err = p.channel.PublishWithContext(ctx, p.exchange, event.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Timestamp:    event.OccurredAt,
		Type:         event.Type,
		Body:         body,
	})
	if err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(event.Type, "error").Inc()
		return fmt.Errorf("publisher: failed to publish message: %w", err)
	}
	metrics.EventsPublishedTotal.WithLabelValues(event.Type, "ok").Inc()
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var firstErr error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			firstErr = err
		}
		p.channel = nil
	}
	if p.conn != nil && !p.conn.IsClosed() {
		if err := p.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type nopPublisher struct{}

// NewNopPublisher discards events. Used when no broker is configured.
func NewNopPublisher() Publisher { return nopPublisher{} }

func (nopPublisher) Publish(context.Context, Event) error { return nil }
func (nopPublisher) Close() error                        { return nil }

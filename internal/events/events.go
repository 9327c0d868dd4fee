// Package events publishes order lifecycle notifications for downstream
// consumers (mailers, analytics). Delivery is best effort.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shams-elarab/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// Event types.
const (
	OrderSubmitted         = "order.submitted"
	OrderApproved          = "order.approved"
	OrderRejected          = "order.rejected"
	OrderAccessLinkUpdated = "order.access_link_updated"
	OrderDeleted           = "order.deleted"
)

// OrderEvent describes one change to an order.
type OrderEvent struct {
	Type          string              `json:"type"`
	OrderID       uuid.UUID           `json:"orderId"`
	Status        model.OrderStatus   `json:"status,omitempty"`
	ProductID     string              `json:"productId,omitempty"`
	ProductType   model.ProductType   `json:"productType,omitempty"`
	TotalAmount   decimal.Decimal     `json:"totalAmount"`
	CustomerEmail string              `json:"customerEmail,omitempty"`
	PaymentMethod model.PaymentMethod `json:"paymentMethod,omitempty"`
	OccurredAt    time.Time           `json:"occurredAt"`
}

// NewOrderEvent snapshots order for the given event type.
func NewOrderEvent(eventType string, order *model.Order) OrderEvent {
	return OrderEvent{
		Type:          eventType,
		OrderID:       order.ID,
		Status:        order.Status,
		ProductID:     order.ProductID,
		ProductType:   order.ProductType,
		TotalAmount:   order.TotalAmount,
		CustomerEmail: order.CustomerEmail,
		PaymentMethod: order.PaymentMethod,
		OccurredAt:    time.Now().UTC(),
	}
}

// Publisher emits order events.
type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// kafkaPublisher writes events keyed by order id so that all events of an
// order land on the same partition.
type kafkaPublisher struct {
	writer messageWriter
	topic  string
	logger zerolog.Logger
}

// NewKafkaPublisher creates a publisher writing to topic.
func NewKafkaPublisher(brokers []string, topic string, logger zerolog.Logger) Publisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return newKafkaPublisher(writer, topic, logger)
}

func newKafkaPublisher(writer messageWriter, topic string, logger zerolog.Logger) *kafkaPublisher {
	return &kafkaPublisher{
		writer: writer,
		topic:  topic,
		logger: logger.With().Str("component", "kafka-publisher").Logger(),
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode order event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID.String()),
		Value: data,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	})
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("topic", p.topic).
			Str("type", event.Type).
			Str("order_id", event.OrderID.String()).
			Msg("failed to publish order event")
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}

	p.logger.Debug().
		Str("type", event.Type).
		Str("order_id", event.OrderID.String()).
		Msg("order event published")
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

type nopPublisher struct{}

// NewNop returns a publisher that drops every event.
func NewNop() Publisher { return nopPublisher{} }

func (nopPublisher) Publish(context.Context, OrderEvent) error { return nil }
func (nopPublisher) Close() error                              { return nil }

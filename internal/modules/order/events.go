package order

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// EventOrderSent is published once an order message has been handed off.
const EventOrderSent = "order.sent"

// Event describes a sent order.
type Event struct {
	ID       uuid.UUID   `json:"id"`
	Type     string      `json:"type"`
	ShopID   uuid.UUID   `json:"shop_id"`
	ShopSlug string      `json:"shop_slug"`
	Customer EventPerson `json:"customer"`
	Items    []EventItem `json:"items"`
	Total    float64     `json:"total"`
	SentAt   time.Time   `json:"sent_at"`
}

type EventPerson struct {
	Name    string `json:"name,omitempty"`
	Number  string `json:"number,omitempty"`
	Address string `json:"address,omitempty"`
}

type EventItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	LineTotal float64   `json:"line_total"`
}

// Publisher delivers order events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON to a Kafka topic, keyed by shop.
type KafkaPublisher struct {
	writer messageWriter
}

// WriterBatchTimeout bounds how long a checkout waits for its event batch
// to flush.
const WriterBatchTimeout = 10 * time.Millisecond

// NewKafkaWriter returns a writer for topic on the comma separated brokers.
func NewKafkaWriter(brokers, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(strings.Split(brokers, ",")...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           WriterBatchTimeout,
		AllowAutoTopicCreation: true,
	}
}

func NewKafkaPublisher(w messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", e.Type, err)
	}
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("%s-%s", e.Type, e.ShopID)),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s event: %w", e.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error { return p.writer.Close() }

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

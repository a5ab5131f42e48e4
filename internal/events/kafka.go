package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer MessageWriter
}

func NewKafkaPublisher(topic string, brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

// NewKafkaPublisherWithWriter wraps an existing writer.
func NewKafkaPublisherWithWriter(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, ev OrderPlaced) error {
	return p.publish(ctx, TypeOrderPlaced, ev.OrderID, ev)
}

func (p *KafkaPublisher) PublishOrderStatusChanged(ctx context.Context, ev OrderStatusChanged) error {
	return p.publish(ctx, TypeOrderStatusChanged, ev.OrderID, ev)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func (p *KafkaPublisher) publish(ctx context.Context, eventType string, orderID int64, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", eventType, err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(orderID, 10)), // order id for ordering
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s failed: %w", eventType, err)
	}
	return nil
}

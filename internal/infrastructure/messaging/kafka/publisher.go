// Package kafka publishes order lifecycle events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sip-sunshine/restaurant-backend/internal/config"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/order"
	"github.com/sirupsen/logrus"
)

// MessageWriter is the subset of *kafka.Writer the publisher uses
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes order events keyed by order id, so every event of one
// order lands on the same partition in order.
type Publisher struct {
	writer MessageWriter
	logger *logrus.Logger
}

// NewPublisher wraps an existing writer
func NewPublisher(writer MessageWriter, logger *logrus.Logger) *Publisher {
	return &Publisher{writer: writer, logger: logger}
}

// NewEventPublisher returns a Kafka-backed publisher for the configured
// brokers, or a no-op publisher when none are configured.
func NewEventPublisher(cfg config.KafkaConfig, logger *logrus.Logger) order.EventPublisher {
	if len(cfg.Brokers) == 0 {
		logger.Info("No Kafka brokers configured, order events are disabled")
		return order.NoopPublisher{}
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
		AllowAutoTopicCreation: true,
	}

	logger.WithFields(logrus.Fields{
		"brokers": cfg.Brokers,
		"topic":   cfg.Topic,
	}).Info("Publishing order events to Kafka")

	return NewPublisher(writer, logger)
}

// Publish implements order.EventPublisher
func (p *Publisher) Publish(ctx context.Context, event order.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.OrderID), 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

// Close flushes and closes the writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}

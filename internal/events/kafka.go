package events

//go:generate mockgen -source=kafka.go -destination=mock_kafka.go -package=events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/logger"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/models"
	"github.com/segmentio/kafka-go"
)

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// KafkaPublisher writes lifecycle events to a Kafka topic keyed by request id.
type KafkaPublisher struct {
	writer KafkaWriter
}

// NewKafkaWriter builds a writer that hashes keys so all events of one request land on one partition.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

// NewKafkaPublisher creates a new KafkaPublisher.
func NewKafkaPublisher(writer KafkaWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

// Publish sends evt to Kafka.
func (p *KafkaPublisher) Publish(ctx context.Context, evt models.LifecycleEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal lifecycle event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(evt.RequestID.String()),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventType(evt))},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write lifecycle event to kafka: %w", err)
	}

	logger.Log.Infow("Lifecycle event published to Kafka",
		"event_id", evt.EventID,
		"request_id", evt.RequestID,
		"to_status", evt.ToStatus,
	)
	return nil
}

// Close closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

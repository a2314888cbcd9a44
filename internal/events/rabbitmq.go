package events

//go:generate mockgen -source=rabbitmq.go -destination=mock_rabbitmq.go -package=events

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/logger"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/models"
)

// AMQPChannel is the part of *amqp.Channel the publisher needs.
type AMQPChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitPublisher publishes lifecycle events to a topic exchange.
type RabbitPublisher struct {
	ch       AMQPChannel
	conn     io.Closer
	exchange string
}

// NewRabbitPublisher creates a publisher over an already opened channel.
func NewRabbitPublisher(ch AMQPChannel, exchange string) *RabbitPublisher {
	return &RabbitPublisher{ch: ch, exchange: exchange}
}

// DialRabbit connects to RabbitMQ and declares the durable topic exchange.
func DialRabbit(url, exchange string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	logger.Log.Infow("RabbitMQ publisher initialized", "exchange", exchange)

	p := NewRabbitPublisher(ch, exchange)
	p.conn = conn
	return p, nil
}

// RoutingKey derives the routing key from the status an event moves to, e.g. withdrawal.completed.
func RoutingKey(evt models.LifecycleEvent) string {
	return "withdrawal." + strings.ToLower(string(evt.ToStatus))
}

// Publish sends evt to the exchange as a persistent JSON message.
func (p *RabbitPublisher) Publish(ctx context.Context, evt models.LifecycleEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal lifecycle event: %w", err)
	}

	key := RoutingKey(evt)
	err = p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    evt.EventID,
		Timestamp:    evt.Timestamp,
		Type:         EventType(evt),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish lifecycle event to rabbitmq: %w", err)
	}

	logger.Log.Infow("Lifecycle event published to RabbitMQ",
		"event_id", evt.EventID,
		"request_id", evt.RequestID,
		"routing_key", key,
	)
	return nil
}

// Close closes the channel and, when owned, the connection.
func (p *RabbitPublisher) Close() error {
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

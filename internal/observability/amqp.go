package observability

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 3 * time.Second

// Publisher is what PublishEvent needs from the bus.
type Publisher interface {
	PublishJSON(ctx context.Context, routingKey string, message interface{}, headers map[string]string) error
}

// EventBus is the single outbound channel of the service: domain events go
// through PublishJSON, audit envelopes through Publish.
type EventBus interface {
	Publisher
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

// AMQPPublisher writes JSON messages to one topic exchange.
type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	appID    string
}

// NoopPublisher accepts and discards everything. Reason records why the
// broker is not in use.
type NoopPublisher struct {
	Reason string
}

// DialBus connects to the broker and declares the exchange. Any failure
// degrades to a NoopPublisher so the service keeps serving without events.
func DialBus(url, exchange, appID string) EventBus {
	publisher, err := NewAMQPPublisher(url, exchange, appID)
	if err != nil {
		slog.Warn("event bus disabled, using noop", "reason", err.Error())
		return NoopPublisher{Reason: err.Error()}
	}
	slog.Info("event bus connected", "exchange", exchange)
	return publisher
}

func NewAMQPPublisher(url, exchange, appID string) (*AMQPPublisher, error) {
	if url == "" {
		return nil, errors.New("empty amqp url")
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &AMQPPublisher{conn: conn, channel: ch, exchange: exchange, appID: appID}, nil
}

func (p *AMQPPublisher) PublishJSON(ctx context.Context, routingKey string, message interface{}, headers map[string]string) error {
	body, err := json.Marshal(message)
	if err != nil {
		return err
	}

	table := amqp.Table{}
	for key, value := range headers {
		table[key] = value
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		AppId:        p.appID,
		Timestamp:    time.Now(),
		Headers:      table,
	})
}

// Publish sends an audit envelope, tagging it with the active trace id.
func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	return p.PublishJSON(ctx, routingKey, event, BuildHeaders("", TraceIDFromContext(ctx)))
}

func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

func (n NoopPublisher) PublishJSON(_ context.Context, routingKey string, _ interface{}, _ map[string]string) error {
	slog.Debug("noop publish", "routing_key", routingKey, "reason", n.Reason)
	return nil
}

func (n NoopPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	return n.PublishJSON(ctx, routingKey, event, nil)
}

func (NoopPublisher) Close() error {
	return nil
}

// BusMode reports "amqp", "noop" or "unknown", plus the noop reason.
func BusMode(p interface{}) (mode, reason string) {
	switch bus := p.(type) {
	case *AMQPPublisher:
		return "amqp", ""
	case NoopPublisher:
		return "noop", bus.Reason
	case *NoopPublisher:
		return "noop", bus.Reason
	}
	return "unknown", ""
}

var defaultPublisher Publisher

func SetPublisher(publisher Publisher) {
	defaultPublisher = publisher
}

// PublishEvent sends an envelope on the shared exchange. Delivery is best
// effort: failures are counted and logged, never retried.
func PublishEvent(ctx context.Context, routingKey string, message interface{}, headers map[string]string) error {
	if defaultPublisher == nil {
		return nil
	}

	err := defaultPublisher.PublishJSON(ctx, routingKey, message, headers)
	if err != nil {
		IncAMQPPublishError()
		slog.Warn("event publish failed", "routing_key", routingKey, "error", err)
	}
	return err
}

/**
 * @description
 * Publishes ledger events to a RabbitMQ topic exchange. The exchange is
 * declared once when the producer connects; each event type owns its
 * routing key.
 */
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/transfa/bank-client/internal/domain"
)

const appID = "bank-client"

// Publisher publishes ledger events.
type Publisher interface {
	PublishBalanceMismatch(ctx context.Context, event domain.BalanceMismatchEvent) error
	Close()
}

// channel is the part of *amqp091.Channel the producer publishes through.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// EventProducer publishes ledger events to one topic exchange.
type EventProducer struct {
	conn     *amqp091.Connection
	channel  channel
	exchange string
}

// NewEventProducer connects to the broker at amqpURL and declares exchange
// as a durable topic exchange.
func NewEventProducer(amqpURL, exchange string) (*EventProducer, error) {
	u, err := parseAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}
	if exchange == "" {
		return nil, errors.New("rabbitmq exchange name is required")
	}

	conn, err := amqp091.DialConfig(u.String(), amqp091.Config{Dial: amqp091.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", u.Redacted(), err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, amqp091.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %q: %w", exchange, err)
	}

	return &EventProducer{conn: conn, channel: ch, exchange: exchange}, nil
}

// Exchange returns the exchange events are published to.
func (p *EventProducer) Exchange() string {
	return p.exchange
}

// PublishBalanceMismatch publishes event under domain.BalanceMismatchRoutingKey.
func (p *EventProducer) PublishBalanceMismatch(ctx context.Context, event domain.BalanceMismatchEvent) error {
	headers := amqp091.Table{"account_id": event.AccountID}
	return p.publish(ctx, domain.BalanceMismatchRoutingKey, event, event.DetectedAt, headers)
}

func (p *EventProducer) publish(ctx context.Context, routingKey string, event any, occurredAt time.Time, headers amqp091.Table) error {
	if p.channel == nil {
		return errors.New("rabbitmq channel not initialized")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", routingKey, err)
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	msg := amqp091.Publishing{
		Headers:      headers,
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    occurredAt.UTC(),
		Type:         routingKey,
		AppId:        appID,
		Body:         body,
	}
	if err := p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", routingKey, err)
	}
	return nil
}

// Close closes the channel and the connection.
func (p *EventProducer) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// EventProducerFallback logs events instead of publishing them. It is used
// when no broker is configured or reachable.
type EventProducerFallback struct {
	Logger *slog.Logger
}

func (p *EventProducerFallback) PublishBalanceMismatch(ctx context.Context, event domain.BalanceMismatchEvent) error {
	if p.Logger != nil {
		p.Logger.Info("rabbitmq unavailable, balance mismatch not published",
			"routing_key", domain.BalanceMismatchRoutingKey,
			"account_id", event.AccountID,
			"statement_id", event.StatementID,
			"discrepancy", event.Discrepancy)
	}
	return nil
}

func (p *EventProducerFallback) Close() {}

// parseAMQPURL accepts amqp:// and amqps:// URLs, tolerating surrounding
// whitespace and quotes left over from .env files.
func parseAMQPURL(raw string) (*url.URL, error) {
	clean := strings.Trim(strings.TrimSpace(raw), `"'`)
	u, err := url.Parse(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid RabbitMQ url: %w", err)
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return nil, fmt.Errorf("RabbitMQ url must use amqp:// or amqps://, got %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.New("RabbitMQ url has no host")
	}
	return u, nil
}

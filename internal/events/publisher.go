package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Routing keys published on content mutations.
const (
	KeyConcertCreated  = "concert.created"
	KeySongCreated     = "song.created"
	KeyContactReceived = "contact.received"
)

// Publisher emits JSON events to a RabbitMQ topic exchange so other
// consumers (social posters, archive jobs) can react to site changes.
type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// NewPublisher connects to RabbitMQ and declares the exchange.
func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// Publish sends one JSON event. Publishing is best-effort for callers: a
// nil Publisher is a no-op, and failures are logged, not returned, so a
// broker outage never fails a content mutation.
func (p *Publisher) Publish(ctx context.Context, key string, payload any) {
	if p == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("encode event failed", "key", key, "err", err)
		return
	}
	err = p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		slog.Warn("publish event failed", "key", key, "err", err)
	}
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

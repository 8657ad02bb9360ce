// Package rabbitmq carries coordination events between coordinator processes
// over a fanout exchange. Every process receives every event, including the
// ones it published itself.
package rabbitmq

import (
	"context"
	"log/slog"
	"sync"

	"hawker/internal/core/events"
	"hawker/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher implements ports.EventPublisher on top of a fanout exchange.
// The connection is opened lazily and re-opened after a broker failure.
type Publisher struct {
	url      string
	exchange string
	logger   *slog.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher creates a publisher for the given broker URL and exchange.
func NewPublisher(url, exchange string, logger *slog.Logger) (*Publisher, error) {
	if url == "" {
		return nil, errs.NewValueIsRequiredError("url")
	}
	if exchange == "" {
		return nil, errs.NewValueIsRequiredError("exchange")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Publisher{
		url:      url,
		exchange: exchange,
		logger:   logger.With("component", "bus"),
	}, nil
}

// Publish fans the event out to every connected coordinator process. A broker
// failure is reported as a collaborator outage after one reconnect attempt.
func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	body, err := events.Marshal(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err = p.publish(ctx, body); err == nil {
		return nil
	}

	p.logger.Warn("publish failed, reconnecting", "error", err)
	p.reset()
	if err = p.publish(ctx, body); err != nil {
		p.reset()
		return errs.NewCollaboratorUnavailableError("message-bus", err)
	}
	return nil
}

// Close releases the broker connection.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
}

func (p *Publisher) publish(ctx context.Context, body []byte) error {
	if err := p.ensureChannel(); err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, p.exchange, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

func (p *Publisher) ensureChannel() error {
	if p.ch != nil && !p.conn.IsClosed() {
		return nil
	}
	p.reset()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return err
	}

	if err = declareExchange(ch, p.exchange); err != nil {
		_ = conn.Close()
		return err
	}

	p.conn = conn
	p.ch = ch
	return nil
}

func (p *Publisher) reset() {
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn = nil
	p.ch = nil
}

func declareExchange(ch *amqp.Channel, name string) error {
	return ch.ExchangeDeclare(name, "fanout", true, false, false, false, nil)
}

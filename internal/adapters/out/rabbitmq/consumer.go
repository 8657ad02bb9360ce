package rabbitmq

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"hawker/internal/core/events"
	"hawker/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"
)

const maxReconnectDelay = 30 * time.Second

// steadySession marks a session that lived long enough to reset the
// reconnect backoff.
const steadySession = time.Minute

// Consumer subscribes a process-private queue to the fanout exchange and
// dispatches every delivery to the handler. Run supervises the subscription:
// a dropped connection triggers a reconnect with exponential backoff, and a
// resync callback runs after every successful resubscribe to repair state
// missed while disconnected.
type Consumer struct {
	url      string
	exchange string
	handler  events.Handler
	resync   func(context.Context) error
	logger   *slog.Logger
}

// NewConsumer creates a supervised consumer. resync may be nil.
func NewConsumer(
	url string,
	exchange string,
	handler events.Handler,
	resync func(context.Context) error,
	logger *slog.Logger,
) (*Consumer, error) {
	if url == "" {
		return nil, errs.NewValueIsRequiredError("url")
	}
	if exchange == "" {
		return nil, errs.NewValueIsRequiredError("exchange")
	}
	if handler == nil {
		return nil, errs.NewValueIsRequiredError("handler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Consumer{
		url:      url,
		exchange: exchange,
		handler:  handler,
		resync:   resync,
		logger:   logger.With("component", "bus"),
	}, nil
}

// Run blocks until ctx is cancelled, keeping the subscription alive across
// broker failures.
func (c *Consumer) Run(ctx context.Context) error {
	policy := backoff.NewExponentialBackOff()
	policy.MaxInterval = maxReconnectDelay
	policy.MaxElapsedTime = 0

	for {
		started := time.Now()
		err := c.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if time.Since(started) >= steadySession {
			policy.Reset()
		}
		delay := policy.NextBackOff()
		c.logger.Error("bus subscription lost, reconnecting",
			"error", err, "delay", delay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// session holds one subscription from connect to failure. It returns nil only
// when ctx is cancelled.
func (c *Consumer) session(ctx context.Context) error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}

	if err = declareExchange(ch, c.exchange); err != nil {
		return err
	}

	queue, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return err
	}
	if err = ch.QueueBind(queue.Name, "", c.exchange, false, nil); err != nil {
		return err
	}

	deliveries, err := ch.Consume(queue.Name, "", true, true, false, false, nil)
	if err != nil {
		return err
	}

	c.logger.Info("subscribed", "queue", queue.Name, "exchange", c.exchange)

	if c.resync != nil {
		if err = c.resync(ctx); err != nil {
			c.logger.Error("resync after subscribe failed", "error", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("delivery stream closed")
			}
			c.dispatch(ctx, delivery.Body)
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, body []byte) {
	event, err := events.Unmarshal(body)
	if err != nil {
		c.logger.Warn("dropping undecodable event", "error", err)
		return
	}

	if err = events.Dispatch(ctx, c.handler, event); err != nil {
		c.logger.Error("event handling failed",
			"type", event.EventType(), "error", err)
	}
}

package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/polkiloo/foodcourt/internal/domain/model"
)

// QueueName is the durable queue receiving order events.
const QueueName = "foodcourt.orders"

const confirmTimeout = 5 * time.Second

// ErrNacked reports that the broker refused responsibility for a message.
var ErrNacked = errors.New("rabbitmq nacked message")

// Publisher delivers order events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event model.OrderEvent) error
	Close() error
}

// confirmation is the broker's answer to one publish; *amqp.DeferredConfirmation satisfies it.
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

type channel interface {
	Publish(ctx context.Context, queue string, msg amqp.Publishing) (confirmation, error)
	Close() error
}

type dialFunc func(url, queue string) (channel, io.Closer, error)

// confirmChannel is an amqp channel in confirm mode.
type confirmChannel struct {
	ch *amqp.Channel
}

func (c confirmChannel) Publish(ctx context.Context, queue string, msg amqp.Publishing) (confirmation, error) {
	dc, err := c.ch.PublishWithDeferredConfirmWithContext(ctx, "", queue, false, false, msg)
	if err != nil {
		return nil, err
	}
	if dc == nil {
		return nil, errors.New("channel is not in confirm mode")
	}
	return dc, nil
}

func (c confirmChannel) Close() error {
	return c.ch.Close()
}

func dialAMQP(url, queue string) (channel, io.Closer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("enable confirms: %w", err)
	}
	return confirmChannel{ch: ch}, conn, nil
}

// AMQPPublisher publishes persistent JSON messages to RabbitMQ over one long-lived channel.
// Publish returns nil only after the broker acks the message. The connection is opened on
// first use and reopened after a failed publish.
type AMQPPublisher struct {
	url    string
	queue  string
	dial   dialFunc
	logger *slog.Logger

	mu   sync.Mutex
	ch   channel
	conn io.Closer
}

// NewAMQPPublisher creates AMQPPublisher for the broker at url.
func NewAMQPPublisher(url string, logger *slog.Logger) *AMQPPublisher {
	return &AMQPPublisher{url: url, queue: QueueName, dial: dialAMQP, logger: logger}
}

// Publish implements Publisher.
func (p *AMQPPublisher) Publish(ctx context.Context, event model.OrderEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil {
		ch, conn, err := p.dial(p.url, p.queue)
		if err != nil {
			return fmt.Errorf("rabbitmq %w", err)
		}
		p.ch, p.conn = ch, conn
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         string(event.Kind),
		Body:         body,
	}
	confirm, err := p.ch.Publish(ctx, p.queue, msg)
	if err != nil {
		p.logger.Warn("rabbitmq publish failed", slog.Int64("event_id", event.ID), slog.Any("error", err))
		_ = p.resetLocked()
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	waitCtx, cancel := context.WithTimeout(ctx, confirmTimeout)
	defer cancel()
	acked, err := confirm.WaitContext(waitCtx)
	if err != nil {
		// the ack may still arrive on this channel; start over on a fresh one
		_ = p.resetLocked()
		return fmt.Errorf("rabbitmq confirm: %w", err)
	}
	if !acked {
		p.logger.Warn("rabbitmq nacked event", slog.Int64("event_id", event.ID))
		return ErrNacked
	}
	return nil
}

// Close releases the channel and connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resetLocked()
}

func (p *AMQPPublisher) resetLocked() error {
	var err error
	if p.ch != nil {
		err = p.ch.Close()
	}
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	p.ch, p.conn = nil, nil
	return err
}

// LogPublisher writes events to the structured log. Used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish implements Publisher.
func (p *LogPublisher) Publish(ctx context.Context, event model.OrderEvent) error {
	p.logger.InfoContext(ctx, "order event",
		slog.String("kind", string(event.Kind)),
		slog.Int64("order_id", event.OrderID),
		slog.Int64("token_no", event.TokenNo),
		slog.String("stall_id", event.StallID),
		slog.String("username", event.Username),
		slog.String("total", event.Total.StringFixed(2)),
	)
	return nil
}

// Close implements Publisher.
func (p *LogPublisher) Close() error { return nil }

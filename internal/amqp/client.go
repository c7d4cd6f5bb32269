// Package amqp publishes and consumes expense change events over RabbitMQ.
//
// Events go to a fanout exchange. Every consumer binds its own queue, so each
// server replica sees every change and can drop its cached summaries.
package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

// Circuit breaker states.
const (
	StateClosed int32 = iota
	StateOpen
	StateHalfOpen
)

const (
	maxFailures    = 5
	openTimeout    = 30 * time.Second
	maxBackoff     = 30 * time.Second
	publishTimeout = 5 * time.Second
)

var errDeliveriesClosed = errors.New("delivery channel closed")

type Client struct {
	url          string
	exchangeName string
	queueName    string
	instanceID   string

	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel

	state        int32
	failureCount int64
	lastFailure  time.Time
}

// NewClient connects to the broker and declares the exchange. An empty
// queueName makes the client use a broker-named exclusive queue when it
// consumes.
func NewClient(url, exchangeName, queueName string) (*Client, error) {
	c := &Client{
		url:          url,
		exchangeName: exchangeName,
		queueName:    queueName,
		instanceID:   uuid.NewString(),
	}

	if err := c.connect(); err != nil {
		return nil, err
	}
	return c, nil
}

// InstanceID identifies this client in the Source field of published events.
func (c *Client) InstanceID() string { return c.instanceID }

func (c *Client) connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectLocked()
}

func (c *Client) connectLocked() error {
	c.closeLocked()

	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		c.exchangeName, // name
		"fanout",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("declare exchange: %w", err)
	}

	c.conn = conn
	c.channel = channel
	return nil
}

// channelFor returns an open channel, reconnecting if the previous one died.
func (c *Client) channelFor() (*amqp091.Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channel == nil || c.channel.IsClosed() {
		if err := c.connectLocked(); err != nil {
			return nil, err
		}
	}
	return c.channel, nil
}

// PublishExpenseEvent sends ev to the exchange. It fails fast while the
// circuit breaker is open.
func (c *Client) PublishExpenseEvent(ctx context.Context, ev *ExpenseEvent) error {
	if c.isCircuitOpen() {
		return fmt.Errorf("publish %s: circuit breaker is open", ev.Type)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if ev.Source == "" {
		ev.Source = c.instanceID
	}
	body, err := ev.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	channel, err := c.channelFor()
	if err != nil {
		c.recordFailure()
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = channel.PublishWithContext(
		ctx,
		c.exchangeName,  // exchange
		string(ev.Type), // routing key, informational on a fanout exchange
		false,           // mandatory
		false,           // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    ev.OccurredAt,
			MessageId:    uuid.NewString(),
			Body:         body,
		},
	)
	if err != nil {
		c.recordFailure()
		if isConnectionError(err) {
			c.mu.Lock()
			c.closeLocked()
			c.mu.Unlock()
		}
		return fmt.Errorf("publish message: %w", err)
	}
	c.recordSuccess()

	slog.DebugContext(ctx, "Published expense event",
		"type", ev.Type,
		"id", ev.ID,
		"exchange", c.exchangeName)

	return nil
}

// ConsumeExpenseEvents delivers events to handler until ctx is done,
// reconnecting with exponential backoff when the broker connection drops.
// Events published by this client are acknowledged without calling handler.
func (c *Client) ConsumeExpenseEvents(ctx context.Context, handler func(context.Context, *ExpenseEvent) error) error {
	attempt := 0
	for {
		err := c.consumeOnce(ctx, handler, func() { attempt = 0 })
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil && !isConnectionError(err) && !errors.Is(err, errDeliveriesClosed) {
			return err
		}

		wait := exponentialBackoff(attempt)
		attempt++
		slog.WarnContext(ctx, "AMQP consumer disconnected, retrying",
			"error", err,
			"attempt", attempt,
			"backoff", wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (c *Client) consumeOnce(ctx context.Context, handler func(context.Context, *ExpenseEvent) error, connected func()) error {
	channel, err := c.channelFor()
	if err != nil {
		return err
	}

	exclusive := c.queueName == ""
	q, err := channel.QueueDeclare(
		c.queueName, // name, broker-generated when empty
		!exclusive,  // durable
		exclusive,   // delete when unused
		exclusive,   // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := channel.QueueBind(q.Name, "", c.exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	msgs, err := channel.Consume(
		q.Name, // queue
		"",     // consumer
		false,  // auto-ack
		exclusive,
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}
	connected()

	slog.InfoContext(ctx, "Started consuming expense events", "queue", q.Name)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return errDeliveriesClosed
			}
			c.handleDelivery(ctx, delivery, handler)
		}
	}
}

func (c *Client) handleDelivery(ctx context.Context, d amqp091.Delivery, handler func(context.Context, *ExpenseEvent) error) {
	ev, err := ExpenseEventFromJSON(d.Body)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to unmarshal expense event", "error", err)
		d.Nack(false, false) // malformed, do not requeue
		return
	}

	if ev.Source == c.instanceID {
		d.Ack(false)
		return
	}

	if err := handler(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to handle expense event",
			"error", err,
			"type", ev.Type,
			"id", ev.ID)
		d.Nack(false, true)
		return
	}
	d.Ack(false)
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Client) closeLocked() error {
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		if err != nil && !errors.Is(err, amqp091.ErrClosed) {
			return err
		}
	}
	return nil
}

func (c *Client) isCircuitOpen() bool {
	if atomic.LoadInt32(&c.state) != StateOpen {
		return false
	}
	c.mu.Lock()
	last := c.lastFailure
	c.mu.Unlock()
	if time.Since(last) > openTimeout {
		atomic.CompareAndSwapInt32(&c.state, StateOpen, StateHalfOpen)
		return false
	}
	return true
}

func (c *Client) recordSuccess() {
	atomic.StoreInt64(&c.failureCount, 0)
	atomic.StoreInt32(&c.state, StateClosed)
}

func (c *Client) recordFailure() {
	n := atomic.AddInt64(&c.failureCount, 1)
	c.mu.Lock()
	c.lastFailure = time.Now()
	c.mu.Unlock()
	if n >= maxFailures || atomic.LoadInt32(&c.state) == StateHalfOpen {
		atomic.StoreInt32(&c.state, StateOpen)
	}
}

// exponentialBackoff returns 1s doubled per attempt, capped at maxBackoff.
func exponentialBackoff(attempt int) time.Duration {
	if attempt >= 5 {
		return maxBackoff
	}
	d := time.Second << attempt
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, amqp091.ErrClosed) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection", "eof", "broken pipe", "closed"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

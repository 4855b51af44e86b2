package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"

	"izakaya-order/internal/logger"
)

const handlerTimeout = 30 * time.Second

var errDeliveriesClosed = errors.New("delivery channel closed")

// MessageHandler processes one message body. A returned error asks for one redelivery.
type MessageHandler func(ctx context.Context, body []byte) error

// Consumer reads one queue and hands every delivery to a MessageHandler
type Consumer struct {
	conn        *Connection
	logger      *logger.Logger
	queueName   string
	consumerTag string
	prefetch    int

	// declare, when set, redeclares the queue on every (re)start and yields its name
	declare func() (string, error)
}

func NewConsumer(conn *Connection, log *logger.Logger, queueName, consumerTag string, prefetch int) *Consumer {
	return &Consumer{
		conn:        conn,
		logger:      log,
		queueName:   queueName,
		consumerTag: consumerTag,
		prefetch:    prefetch,
	}
}

// NewInstanceConsumer consumes snapshots through a queue private to this instance
func NewInstanceConsumer(conn *Connection, log *logger.Logger, consumerTag string) *Consumer {
	c := NewConsumer(conn, log, "", consumerTag, 1)
	c.declare = conn.DeclareInstanceQueue
	return c
}

// StartConsuming blocks until ctx is cancelled, reconnecting whenever the broker
// closes the delivery channel.
func (c *Consumer) StartConsuming(ctx context.Context, handler MessageHandler) error {
	for {
		err := c.consume(ctx, handler)
		if ctx.Err() != nil {
			c.logger.Info("consumer_stopped", "Consumer stopped by context", "", map[string]interface{}{
				"queue": c.queueName,
			})
			return ctx.Err()
		}
		if !errors.Is(err, errDeliveriesClosed) {
			return err
		}

		c.logger.Warn("consumer_channel_closed", "Delivery channel closed, reconnecting", "", map[string]interface{}{
			"queue": c.queueName,
		})
		if err := c.conn.Reconnect(); err != nil {
			return fmt.Errorf("failed to reconnect after channel closed: %w", err)
		}
	}
}

func (c *Consumer) consume(ctx context.Context, handler MessageHandler) error {
	if c.conn.IsClosed() {
		if err := c.conn.Reconnect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}
	if c.declare != nil {
		name, err := c.declare()
		if err != nil {
			return err
		}
		c.queueName = name
	}

	ch := c.conn.Channel()
	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	deliveries, err := ch.ConsumeWithContext(ctx, c.queueName, c.consumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("consumer_started", fmt.Sprintf("Started consuming from queue %s", c.queueName), "", map[string]interface{}{
		"queue":    c.queueName,
		"consumer": c.consumerTag,
		"prefetch": c.prefetch,
	})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errDeliveriesClosed
			}
			c.processMessage(ctx, d, handler)
		}
	}
}

// processMessage runs handler for one delivery and settles it. A failed message is
// requeued once; a second failure drops it so it cannot block the queue.
func (c *Consumer) processMessage(ctx context.Context, d amqp091.Delivery, handler MessageHandler) {
	start := time.Now()
	ctx = otel.GetTextMapPropagator().Extract(ctx, headerCarrier(d.Headers))

	handlerCtx, cancel := context.WithTimeout(ctx, handlerTimeout)
	defer cancel()

	fields := map[string]interface{}{
		"queue":        c.queueName,
		"routing_key":  d.RoutingKey,
		"delivery_tag": d.DeliveryTag,
		"redelivered":  d.Redelivered,
	}

	if err := handler(handlerCtx, d.Body); err != nil {
		fields["duration_ms"] = time.Since(start).Milliseconds()
		requeue := !d.Redelivered
		fields["requeue"] = requeue
		c.logger.Error("message_processing_failed", "Failed to process message", "", err, fields)

		if nackErr := d.Nack(false, requeue); nackErr != nil {
			c.logger.Error("message_nack_failed", "Failed to nack message", "", nackErr, nil)
		}
		return
	}

	if err := d.Ack(false); err != nil {
		c.logger.Error("message_ack_failed", "Failed to ack message", "", err, nil)
		return
	}
	fields["duration_ms"] = time.Since(start).Milliseconds()
	c.logger.Debug("message_processed", "Processed message", "", fields)
}

// Close cancels the consumer and closes its connection
func (c *Consumer) Close() error {
	if c.conn == nil || c.conn.IsClosed() {
		return nil
	}
	if err := c.conn.Channel().Cancel(c.consumerTag, false); err != nil {
		c.logger.Error("consumer_cancel_failed", "Failed to cancel consumer", "", err, nil)
	}
	return c.conn.Close()
}

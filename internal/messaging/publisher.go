package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"

	"izakaya-order/internal/logger"
	"izakaya-order/internal/models"
)

// Publisher handles message publishing to RabbitMQ
type Publisher struct {
	conn   *Connection
	logger *logger.Logger
}

// NewPublisher creates a new message publisher
func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: log,
	}
}

// PublishOrder sends a kitchen ticket to the orders topic, routed by table
func (p *Publisher) PublishOrder(ctx context.Context, msg *models.OrderMessage) error {
	return p.publishMessage(ctx, ExchangeOrders, models.GenerateRoutingKey(msg.TableID), msg, true)
}

// PublishNotification publishes a status update or staff call to the notifications fanout exchange
func (p *Publisher) PublishNotification(ctx context.Context, notificationMsg interface{}) error {
	return p.publishMessage(ctx, ExchangeNotifications, "", notificationMsg, false)
}

// PublishSnapshot broadcasts a whole collection to every running instance
func (p *Publisher) PublishSnapshot(ctx context.Context, msg models.SnapshotMessage) error {
	return p.publishMessage(ctx, ExchangeSnapshots, "", msg, false)
}

// newPublishing encodes message as JSON and carries the trace context of ctx in its headers
func newPublishing(ctx context.Context, message interface{}, persistent bool) (amqp091.Publishing, error) {
	body, err := json.Marshal(message)
	if err != nil {
		return amqp091.Publishing{}, fmt.Errorf("failed to marshal message: %w", err)
	}

	deliveryMode := amqp091.Transient
	if persistent {
		deliveryMode = amqp091.Persistent
	}

	headers := amqp091.Table{}
	otel.GetTextMapPropagator().Inject(ctx, headerCarrier(headers))

	return amqp091.Publishing{
		Headers:      headers,
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: deliveryMode,
		Timestamp:    time.Now(),
	}, nil
}

// publishMessage sends message to exchange, reconnecting first if the broker went away
func (p *Publisher) publishMessage(ctx context.Context, exchange, routingKey string, message interface{}, persistent bool) error {
	if p.conn.IsClosed() {
		if err := p.conn.Reconnect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	publishing, err := newPublishing(ctx, message, persistent)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = p.conn.Channel().PublishWithContext(
		ctx,
		exchange,   // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		publishing,
	)
	if err != nil {
		p.logger.Error("message_publish_failed",
			fmt.Sprintf("Failed to publish message to exchange %s", exchange),
			"", err, map[string]interface{}{
				"exchange":    exchange,
				"routing_key": routingKey,
			})
		return fmt.Errorf("failed to publish message: %w", err)
	}

	p.logger.Debug("message_published",
		fmt.Sprintf("Published message to exchange %s", exchange),
		"", map[string]interface{}{
			"exchange":     exchange,
			"routing_key":  routingKey,
			"message_size": len(publishing.Body),
		})

	return nil
}

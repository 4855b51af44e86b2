package messaging

import (
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"izakaya-order/internal/config"
	"izakaya-order/internal/logger"
)

const (
	ExchangeOrders        = "orders_topic"
	ExchangeNotifications = "notifications_fanout"
	ExchangeSnapshots     = "snapshots_fanout"

	QueueKitchen       = "kitchen_queue"
	QueueNotifications = "notifications_queue"

	// KitchenBinding matches every kitchen.table.<id> routing key
	KitchenBinding = "kitchen.table.*"
)

// Connection wraps RabbitMQ connection with reconnection logic
type Connection struct {
	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel
	logger  *logger.Logger
	url     string
}

// New creates a new RabbitMQ connection
func New(cfg *config.Config, log *logger.Logger) (*Connection, error) {
	conn := &Connection{
		logger: log,
		url:    cfg.RabbitMQURL(),
	}

	if err := conn.connect(); err != nil {
		return nil, fmt.Errorf("failed to establish initial connection: %w", err)
	}

	return conn, nil
}

// connect establishes connection to RabbitMQ with retry logic
func (c *Connection) connect() error {
	maxRetries := 5
	var err error

	for i := 0; i < maxRetries; i++ {
		c.conn, err = amqp091.Dial(c.url)
		if err == nil {
			c.channel, err = c.conn.Channel()
			if err == nil {
				if setupErr := setupTopology(c.channel); setupErr != nil {
					c.logger.Error("rabbitmq_setup_failed", "Failed to set up topology", "startup", setupErr, nil)
					c.close()
					err = setupErr
				} else {
					return nil
				}
			} else {
				c.conn.Close()
			}
		}

		if i < maxRetries-1 {
			waitTime := time.Duration(i+1) * 2 * time.Second
			c.logger.Error("rabbitmq_connection_failed",
				fmt.Sprintf("Failed to connect to RabbitMQ, retrying in %v", waitTime),
				"startup", err, nil)
			time.Sleep(waitTime)
		}
	}

	return fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", maxRetries, err)
}

// exchange describes one exchange of the topology
type exchange struct {
	name, kind string
}

// binding describes one durable queue and how it is bound
type binding struct {
	queue, exchange, routingKey string
	args                        amqp091.Table
}

var exchanges = []exchange{
	{ExchangeOrders, "topic"},
	{ExchangeNotifications, "fanout"},
	{ExchangeSnapshots, "fanout"},
}

var bindings = []binding{
	// tickets nobody picks up within 5 minutes are dropped
	{QueueKitchen, ExchangeOrders, KitchenBinding, amqp091.Table{"x-message-ttl": 300000}},
	{QueueNotifications, ExchangeNotifications, "", nil},
}

// channelDeclarer is the subset of *amqp091.Channel used to declare the topology
type channelDeclarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp091.Table) (amqp091.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp091.Table) error
}

// setupTopology creates exchanges and the shared queues
func setupTopology(ch channelDeclarer) error {
	for _, ex := range exchanges {
		if err := ch.ExchangeDeclare(
			ex.name, // name
			ex.kind, // type
			true,    // durable
			false,   // auto-deleted
			false,   // internal
			false,   // no-wait
			nil,     // arguments
		); err != nil {
			return fmt.Errorf("failed to declare %s exchange: %w", ex.name, err)
		}
	}

	for _, b := range bindings {
		if _, err := ch.QueueDeclare(
			b.queue, // name
			true,    // durable
			false,   // delete when unused
			false,   // exclusive
			false,   // no-wait
			b.args,  // arguments
		); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", b.queue, err)
		}

		if err := ch.QueueBind(b.queue, b.routingKey, b.exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue %s with routing key %s: %w", b.queue, b.routingKey, err)
		}
	}

	return nil
}

// DeclareInstanceQueue declares a server-named exclusive queue bound to the snapshots exchange.
// Every instance gets its own copy of each snapshot; the queue disappears with the connection.
func (c *Connection) DeclareInstanceQueue() (string, error) {
	return declareInstanceQueue(c.Channel())
}

func declareInstanceQueue(ch channelDeclarer) (string, error) {
	q, err := ch.QueueDeclare(
		"",    // server-named
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return "", fmt.Errorf("failed to declare instance queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, "", ExchangeSnapshots, false, nil); err != nil {
		return "", fmt.Errorf("failed to bind instance queue: %w", err)
	}
	return q.Name, nil
}

// Channel returns the current channel
func (c *Connection) Channel() *amqp091.Channel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channel
}

// Close closes the connection
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.close()
}

func (c *Connection) close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsClosed checks if the connection is closed
func (c *Connection) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn == nil || c.conn.IsClosed()
}

// Reconnect attempts to reconnect to RabbitMQ
func (c *Connection) Reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.close()
	return c.connect()
}

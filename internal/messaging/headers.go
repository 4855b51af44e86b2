package messaging

import "github.com/rabbitmq/amqp091-go"

// headerCarrier lets the OpenTelemetry propagator read and write AMQP headers,
// so a checkout span continues in the consumer that prints the ticket.
type headerCarrier amqp091.Table

func (h headerCarrier) Get(key string) string {
	if v, ok := h[key].(string); ok {
		return v
	}
	return ""
}

func (h headerCarrier) Set(key, value string) {
	h[key] = value
}

func (h headerCarrier) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	return keys
}

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"izakaya-order/internal/models"
)

const meterName = "izakaya-order"

// OrderMetrics counts orders and their status changes through the global meter provider
type OrderMetrics struct {
	submitted     metric.Int64Counter
	amount        metric.Int64Counter
	statusChanges metric.Int64Counter
}

// NewOrderMetrics creates the order instruments. An instrument the meter refuses is
// replaced by a no-op so recording never fails.
func NewOrderMetrics() *OrderMetrics {
	meter := otel.Meter(meterName)
	fallback := noop.NewMeterProvider().Meter(meterName)

	counter := func(name, unit, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithUnit(unit), metric.WithDescription(desc))
		if err != nil {
			c, _ = fallback.Int64Counter(name)
		}
		return c
	}

	return &OrderMetrics{
		submitted:     counter("orders.submitted", "{order}", "Orders submitted from table carts"),
		amount:        counter("orders.amount", "JPY", "Order totals at submit time"),
		statusChanges: counter("orders.status_changes", "{change}", "Order status transitions"),
	}
}

func (m *OrderMetrics) RecordSubmitted(ctx context.Context, order models.Order) {
	table := metric.WithAttributes(attribute.String("table.id", order.TableID))
	m.submitted.Add(ctx, 1, table)
	m.amount.Add(ctx, int64(order.TotalAmount), table)
}

func (m *OrderMetrics) RecordStatusChange(ctx context.Context, from, to models.OrderStatus) {
	m.statusChanges.Add(ctx, 1, metric.WithAttributes(
		attribute.String("order.from", string(from)),
		attribute.String("order.to", string(to)),
	))
}

package kitchen

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"izakaya-order/internal/app"
	"izakaya-order/internal/logger"
	"izakaya-order/internal/models"
)

// ErrOrderNotFound is returned when a status change names an unknown order.
// Nothing changes in that case.
var ErrOrderNotFound = errors.New("order not found")

var tracer = otel.Tracer("izakaya-order/services/kitchen")

// Notifier publishes status updates to staff and guests
type Notifier interface {
	PublishNotification(ctx context.Context, msg interface{}) error
}

// Service drives the kitchen queue: pending and served views plus status changes
type Service struct {
	state    *app.State
	notifier Notifier
	logger   *logger.Logger
}

func NewService(state *app.State, notifier Notifier, log *logger.Logger) *Service {
	return &Service{
		state:    state,
		notifier: notifier,
		logger:   log,
	}
}

// Pending returns orders waiting to be served, oldest first
func (s *Service) Pending() []models.Order {
	return nonNil(s.state.Orders.Pending())
}

// Served returns served orders, newest first
func (s *Service) Served() []models.Order {
	return nonNil(s.state.Orders.Served())
}

// Advance moves an order to status to on behalf of changedBy
func (s *Service) Advance(ctx context.Context, orderID string, to models.OrderStatus, changedBy, requestID string) (models.Order, error) {
	ctx, span := tracer.Start(ctx, "order.advance")
	defer span.End()
	span.SetAttributes(
		attribute.String("order.id", orderID),
		attribute.String("order.status", string(to)),
	)

	order, from, found, err := s.state.Orders.Advance(orderID, to)
	if !found {
		return models.Order{}, ErrOrderNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "illegal transition")
		return order, err
	}
	if from == order.Status {
		return order, nil
	}
	s.state.Metrics.RecordStatusChange(ctx, from, order.Status)

	if err := s.state.OrdersChanged(ctx); err != nil {
		span.RecordError(err)
		s.logger.Error("order_sync_failed", "Failed to persist or broadcast orders", requestID, err, map[string]interface{}{
			"order_id": orderID,
		})
	}

	update := models.CreateStatusUpdateMessage(order, from, changedBy)
	if err := s.notifier.PublishNotification(ctx, update); err != nil {
		s.logger.Error("notification_publish_failed", "Failed to publish status update", requestID, err, map[string]interface{}{
			"order_id": orderID,
		})
	}

	s.logger.Info("order_status_changed",
		fmt.Sprintf("Order %s moved from %s to %s", orderID, from, order.Status),
		requestID, map[string]interface{}{
			"order_id":   orderID,
			"table_id":   order.TableID,
			"old_status": from,
			"new_status": order.Status,
			"changed_by": changedBy,
		})
	return order, nil
}

func nonNil(orders []models.Order) []models.Order {
	if orders == nil {
		return []models.Order{}
	}
	return orders
}

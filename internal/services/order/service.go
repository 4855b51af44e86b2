package order

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"izakaya-order/internal/app"
	"izakaya-order/internal/cart"
	"izakaya-order/internal/logger"
	"izakaya-order/internal/models"
	"izakaya-order/internal/policy"
	"izakaya-order/internal/sales"
)

var (
	ErrItemNotFound    = errors.New("menu item not found")
	ErrItemUnavailable = errors.New("menu item is not available for this table")
	ErrEmptyCart       = errors.New("cart is empty")
)

var tracer = otel.Tracer("izakaya-order/services/order")

// Publisher sends kitchen tickets and staff notifications
type Publisher interface {
	PublishOrder(ctx context.Context, msg *models.OrderMessage) error
	PublishNotification(ctx context.Context, msg interface{}) error
}

// Service implements the customer table flow: browse, cart, checkout, history
type Service struct {
	state     *app.State
	publisher Publisher
	logger    *logger.Logger
}

func NewService(state *app.State, publisher Publisher, log *logger.Logger) *Service {
	return &Service{
		state:     state,
		publisher: publisher,
		logger:    log,
	}
}

// LineView is a cart line as shown to the table
type LineView struct {
	Key            string   `json:"key"`
	MenuItemID     string   `json:"menu_item_id"`
	Name           string   `json:"name"`
	Price          int      `json:"price"`
	Quantity       int      `json:"quantity"`
	Customizations []string `json:"customizations,omitempty"`
	Subtotal       int      `json:"subtotal"`
}

type CartView struct {
	TableID    string     `json:"table_id"`
	Lines      []LineView `json:"lines"`
	TotalPrice int        `json:"total_price"`
}

// TableHistory lists what a table ordered. Total excludes cancelled orders.
type TableHistory struct {
	TableID     string         `json:"table_id"`
	Orders      []models.Order `json:"orders"`
	TotalAmount int            `json:"total_amount"`
}

func (s *Service) availability(ctx context.Context, tableID string) (models.TableMode, bool, error) {
	mode, err := s.state.Policy.TableMode(ctx, tableID)
	if err != nil {
		return mode, true, err
	}
	accepted, err := s.state.Policy.IsFoodAccepted(ctx)
	if err != nil {
		return mode, accepted, err
	}
	return mode, accepted, nil
}

// Menu returns the items tableID may add, grouped for display
func (s *Service) Menu(ctx context.Context, tableID string) (*MenuView, error) {
	mode, accepted, err := s.availability(ctx, tableID)
	if err != nil {
		return nil, err
	}
	items := s.state.Catalog.Addable(mode, accepted)
	return &MenuView{
		TableID:      tableID,
		Mode:         mode,
		FoodAccepted: accepted,
		Sections:     buildMenu(s.state.Catalog.Rules(), items),
	}, nil
}

// Cart returns the current cart of tableID
func (s *Service) Cart(tableID string) CartView {
	c := s.state.Carts.For(tableID)
	lines := c.Lines()

	view := CartView{TableID: tableID, Lines: make([]LineView, 0, len(lines))}
	for _, l := range lines {
		view.Lines = append(view.Lines, LineView{
			Key:            l.Key.String(),
			MenuItemID:     l.MenuItemID,
			Name:           l.Name,
			Price:          l.Price,
			Quantity:       l.Quantity,
			Customizations: l.Customizations,
			Subtotal:       l.Subtotal(),
		})
		view.TotalPrice += l.Subtotal()
	}
	return view
}

// AddToCart admits an item into the table's cart after checking availability and
// the customization the item requires
func (s *Service) AddToCart(ctx context.Context, tableID string, req *models.AddToCartRequest) (CartView, error) {
	item, ok := s.state.Catalog.Get(req.MenuItemID)
	if !ok {
		return CartView{}, ErrItemNotFound
	}

	mode, accepted, err := s.availability(ctx, tableID)
	if err != nil {
		return CartView{}, err
	}
	if !policy.Permits(mode, accepted, item) {
		return CartView{}, ErrItemUnavailable
	}

	customizations, err := cart.BuildCustomizations(s.state.Catalog.Rules(), item, cart.Selection{
		ServingStyle: req.ServingStyle,
		Glasses:      req.Glasses,
	})
	if err != nil {
		return CartView{}, err
	}

	s.state.Carts.For(tableID).Add(item, customizations, req.Quantity)
	return s.Cart(tableID), nil
}

// UpdateLine changes a line by delta; lines reaching zero disappear
func (s *Service) UpdateLine(tableID string, key cart.LineKey, delta int) CartView {
	s.state.Carts.For(tableID).UpdateQuantity(key, delta)
	return s.Cart(tableID)
}

func (s *Service) RemoveLine(tableID string, key cart.LineKey) CartView {
	s.state.Carts.For(tableID).Remove(key)
	return s.Cart(tableID)
}

// ClearCart empties the table's cart and ends its cart session
func (s *Service) ClearCart(tableID string) CartView {
	s.state.Carts.For(tableID).Clear()
	s.state.Carts.Drop(tableID)
	return s.Cart(tableID)
}

// Checkout submits the table's cart as a pending order and sends the kitchen ticket
func (s *Service) Checkout(ctx context.Context, tableID, requestID string) (models.Order, error) {
	ctx, span := tracer.Start(ctx, "order.checkout")
	defer span.End()
	span.SetAttributes(attribute.String("table.id", tableID))

	order, ok := s.state.Orders.Submit(s.state.Carts.For(tableID), tableID)
	if !ok {
		return models.Order{}, ErrEmptyCart
	}
	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.Int("order.total_amount", order.TotalAmount),
	)
	s.state.Metrics.RecordSubmitted(ctx, order)

	if err := s.state.OrdersChanged(ctx); err != nil {
		span.RecordError(err)
		s.logger.Error("order_sync_failed", "Failed to persist or broadcast orders", requestID, err, map[string]interface{}{
			"order_id": order.ID,
		})
	}

	if err := s.publisher.PublishOrder(ctx, models.CreateOrderMessage(order)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "kitchen ticket not published")
		s.logger.Error("rabbitmq_publish_failed", "Failed to publish kitchen ticket", requestID, err, map[string]interface{}{
			"order_id": order.ID,
			"table_id": tableID,
		})
	}

	s.logger.Info("order_submitted", fmt.Sprintf("Table %s submitted order %s", tableID, order.ID), requestID, map[string]interface{}{
		"order_id":     order.ID,
		"table_id":     tableID,
		"total_amount": order.TotalAmount,
		"lines":        len(order.Lines),
	})
	return order, nil
}

// History returns the orders of a table with the running total
func (s *Service) History(tableID string) TableHistory {
	list := s.state.Orders.ForTable(tableID)
	if list == nil {
		list = []models.Order{}
	}
	return TableHistory{
		TableID:     tableID,
		Orders:      list,
		TotalAmount: sales.TableTotal(list),
	}
}

// CallStaff notifies staff that tableID needs attention
func (s *Service) CallStaff(ctx context.Context, tableID, requestID string) error {
	if err := s.publisher.PublishNotification(ctx, models.CreateStaffCallMessage(tableID)); err != nil {
		return fmt.Errorf("failed to publish staff call: %w", err)
	}
	s.logger.Info("staff_called", fmt.Sprintf("Table %s called staff", tableID), requestID, map[string]interface{}{
		"table_id": tableID,
	})
	return nil
}

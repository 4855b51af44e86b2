package tracking

import (
	"errors"

	"izakaya-order/internal/app"
	"izakaya-order/internal/models"
	"izakaya-order/internal/sales"
)

var ErrOrderNotFound = errors.New("order not found")

// Service provides the sales history and order lookups for staff
type Service struct {
	state *app.State
}

func NewService(state *app.State) *Service {
	return &Service{state: state}
}

// DailySales groups served and paid orders by day in the shop's timezone, newest day first
func (s *Service) DailySales() []models.DailySummary {
	return sales.DailySummaries(s.state.Orders.All(), s.state.Location)
}

// Order returns one order in any status
func (s *Service) Order(orderID string) (models.Order, error) {
	order, ok := s.state.Orders.Get(orderID)
	if !ok {
		return models.Order{}, ErrOrderNotFound
	}
	return order, nil
}

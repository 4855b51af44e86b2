package models

import "time"

// OrderStatus represents the fulfillment status of an order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusServed    OrderStatus = "served"
	StatusPaid      OrderStatus = "paid"
	StatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is a known status
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusServed, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no transition may leave s
func (s OrderStatus) Terminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// Completed reports whether the order counts toward sales
func (s OrderStatus) Completed() bool {
	return s == StatusServed || s == StatusPaid
}

// OrderLine is an immutable snapshot of one cart line taken at submit time
type OrderLine struct {
	MenuItemID     string   `json:"menu_item_id"`
	Name           string   `json:"name"`
	Price          int      `json:"price"`
	Quantity       int      `json:"quantity"`
	Customizations []string `json:"customizations,omitempty"`
}

// Subtotal returns price times quantity for the line
func (l OrderLine) Subtotal() int {
	return l.Price * l.Quantity
}

// Order is a submitted cart. TotalAmount is frozen at submit time.
type Order struct {
	ID          string      `json:"id"`
	Seq         int64       `json:"seq"`
	TableID     string      `json:"table_id"`
	Lines       []OrderLine `json:"lines"`
	Status      OrderStatus `json:"status"`
	TotalAmount int         `json:"total_amount"`
	Timestamp   time.Time   `json:"timestamp"`
}

// Clone returns a deep copy so callers never share line slices with the store
func (o Order) Clone() Order {
	lines := make([]OrderLine, len(o.Lines))
	for i, l := range o.Lines {
		l.Customizations = append([]string(nil), l.Customizations...)
		lines[i] = l
	}
	o.Lines = lines
	return o
}

// TableMode is the per-table ordering mode
type TableMode string

const (
	ModeALaCarte  TableMode = "a_la_carte"
	ModeDrinkPlan TableMode = "course_drink_plan"
)

func (m TableMode) Valid() bool {
	return m == ModeALaCarte || m == ModeDrinkPlan
}

// DailySummary aggregates completed orders for one calendar day
type DailySummary struct {
	Date        string  `json:"date"`
	Day         string  `json:"day"`
	Orders      []Order `json:"orders"`
	TotalAmount int     `json:"total_amount"`
	Count       int     `json:"count"`
}

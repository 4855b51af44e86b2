package orders

import (
	"sort"
	"sync"
	"time"

	"izakaya-order/internal/cart"
	"izakaya-order/internal/models"
)

// Manager owns the order set of the process and drives the order lifecycle.
// Pending/served views are derived from the set on every call.
type Manager struct {
	mu     sync.RWMutex
	orders []models.Order
	seq    *Sequencer
	now    func() time.Time
}

type Option func(*Manager)

// WithClock replaces the clock used for timestamps and ids
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
		m.seq = NewSequencer(now)
	}
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{now: time.Now}
	m.seq = NewSequencer(m.now)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Submit freezes the cart into a pending order for tableID and empties the cart.
// An empty cart is rejected and leaves the order set unchanged.
func (m *Manager) Submit(c *cart.Cart, tableID string) (models.Order, bool) {
	lines := c.Drain()
	if len(lines) == 0 {
		return models.Order{}, false
	}

	order := models.Order{
		TableID:   tableID,
		Lines:     make([]models.OrderLine, 0, len(lines)),
		Status:    models.StatusPending,
		Timestamp: m.now(),
	}
	for _, l := range lines {
		ol := models.OrderLine{
			MenuItemID:     l.MenuItemID,
			Name:           l.Name,
			Price:          l.Price,
			Quantity:       l.Quantity,
			Customizations: append([]string(nil), l.Customizations...),
		}
		order.Lines = append(order.Lines, ol)
		order.TotalAmount += ol.Subtotal()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	order.Seq, order.ID = m.seq.Next()
	m.orders = append(m.orders, order)
	return order.Clone(), true
}

// Advance moves an order to status to and reports the status it held when the change
// was applied. Unknown ids are ignored and report found=false. Transitions outside the
// lifecycle are rejected with a *TransitionError.
func (m *Manager) Advance(id string, to models.OrderStatus) (order models.Order, from models.OrderStatus, found bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return models.Order{}, "", false, nil
	}
	from = m.orders[i].Status
	if !to.Valid() || !CanTransition(from, to) {
		return m.orders[i].Clone(), from, true, &TransitionError{OrderID: id, From: from, To: to}
	}
	m.orders[i].Status = to
	return m.orders[i].Clone(), from, true, nil
}

// Get returns one order by id
func (m *Manager) Get(id string) (models.Order, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.indexOf(id); i >= 0 {
		return m.orders[i].Clone(), true
	}
	return models.Order{}, false
}

// All returns a copy of every order in submission order
func (m *Manager) All() []models.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneAll(m.orders)
}

// ForTable returns the orders of one table in submission order
func (m *Manager) ForTable(tableID string) []models.Order {
	return FilterTable(m.All(), tableID)
}

// Pending returns pending orders, oldest first, so the kitchen serves in arrival order
func (m *Manager) Pending() []models.Order {
	out := filterStatus(m.All(), models.StatusPending)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].Seq < out[j].Seq
	})
	return out
}

// Served returns served orders, most recent first
func (m *Manager) Served() []models.Order {
	out := filterStatus(m.All(), models.StatusServed)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].Seq > out[j].Seq
	})
	return out
}

// Replace swaps the whole order set, as received from persistence or another instance
func (m *Manager) Replace(orders []models.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.orders = cloneAll(orders)
	for _, o := range m.orders {
		m.seq.Observe(o.Seq)
	}
}

func (m *Manager) indexOf(id string) int {
	for i := range m.orders {
		if m.orders[i].ID == id {
			return i
		}
	}
	return -1
}

// FilterTable restricts orders to one table without touching the input
func FilterTable(orders []models.Order, tableID string) []models.Order {
	var out []models.Order
	for _, o := range orders {
		if o.TableID == tableID {
			out = append(out, o)
		}
	}
	return out
}

func filterStatus(orders []models.Order, status models.OrderStatus) []models.Order {
	var out []models.Order
	for _, o := range orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}

func cloneAll(orders []models.Order) []models.Order {
	out := make([]models.Order, len(orders))
	for i, o := range orders {
		out[i] = o.Clone()
	}
	return out
}

package cart

import (
	"sync"

	"izakaya-order/internal/models"
)

// Line is one unique (item, customizations) entry in a cart. Name and price are
// captured when the line is first added.
type Line struct {
	Key            LineKey
	MenuItemID     string
	Name           string
	Price          int
	Quantity       int
	Customizations []string
}

// Subtotal returns price times quantity
func (l Line) Subtotal() int {
	return l.Price * l.Quantity
}

// Cart is the in-progress order of one table session
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add merges quantity units of item with customizations into the cart. Identical
// item and customizations always merge into one line. Availability is the caller's
// concern. Add reports false, changing nothing, when quantity is not positive.
func (c *Cart) Add(item models.MenuItem, customizations []string, quantity int) bool {
	if quantity < 1 {
		return false
	}
	key := NewLineKey(item.ID, customizations)

	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(key); i >= 0 {
		c.lines[i].Quantity += quantity
		return true
	}
	c.lines = append(c.lines, Line{
		Key:            key,
		MenuItemID:     item.ID,
		Name:           item.Name,
		Price:          item.Price,
		Quantity:       quantity,
		Customizations: append([]string(nil), customizations...),
	})
	return true
}

// UpdateQuantity adjusts a line by delta. Quantities floor at zero and a line at zero
// is removed. Unknown keys are ignored.
func (c *Cart) UpdateQuantity(key LineKey, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(key)
	if i < 0 {
		return
	}
	qty := c.lines[i].Quantity + delta
	if qty <= 0 {
		c.removeAt(i)
		return
	}
	c.lines[i].Quantity = qty
}

// Remove deletes a line. Unknown keys are ignored.
func (c *Cart) Remove(key LineKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(key); i >= 0 {
		c.removeAt(i)
	}
}

// TotalPrice sums price times quantity over the current lines
func (c *Cart) TotalPrice() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

// Lines returns a copy of the lines in insertion order
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyLines(c.lines)
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Drain empties the cart and returns what it held, in one step
func (c *Cart) Drain() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines := c.lines
	c.lines = nil
	return lines
}

func (c *Cart) indexOf(key LineKey) int {
	for i := range c.lines {
		if c.lines[i].Key == key {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i:i], c.lines[i+1:]...)
}

func copyLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		l.Customizations = append([]string(nil), l.Customizations...)
		out[i] = l
	}
	return out
}

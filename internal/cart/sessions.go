package cart

import "sync"

// Sessions holds one cart per table
type Sessions struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewSessions() *Sessions {
	return &Sessions{carts: make(map[string]*Cart)}
}

// For returns the cart of tableID, creating an empty one on first use
func (s *Sessions) For(tableID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[tableID]
	if !ok {
		c = New()
		s.carts[tableID] = c
	}
	return c
}

// Drop forgets the cart of tableID
func (s *Sessions) Drop(tableID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, tableID)
}

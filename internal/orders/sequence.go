package orders

import (
	"fmt"
	"sync"
	"time"
)

// Sequencer hands out strictly increasing order numbers. Numbers follow the wall
// clock in milliseconds but never repeat or go backwards within a process.
type Sequencer struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewSequencer(now func() time.Time) *Sequencer {
	if now == nil {
		now = time.Now
	}
	return &Sequencer{now: now}
}

// Next returns the next sequence number and its order id
func (s *Sequencer) Next() (int64, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.now().UnixMilli()
	if n <= s.last {
		n = s.last + 1
	}
	s.last = n
	return n, FormatID(n)
}

// Observe moves the sequence past n, used after accepting orders created elsewhere
func (s *Sequencer) Observe(n int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > s.last {
		s.last = n
	}
}

// FormatID renders a sequence number as an order id
func FormatID(n int64) string {
	return fmt.Sprintf("ord-%d", n)
}

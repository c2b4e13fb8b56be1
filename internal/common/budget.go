package common

import (
	"sync"
	"time"
)

// Budget is a count and wall-clock ceiling for degradable operations.
// Crawl page caps, asset download windows, and generation retries all
// consume the same shape: take a unit until either the count or the
// clock runs out, then stop without failing.
type Budget struct {
	mu       sync.Mutex
	limit    int
	used     int
	deadline time.Time
}

// NewCountBudget creates a budget bounded only by count
func NewCountBudget(limit int) *Budget {
	return &Budget{limit: limit}
}

// NewTimeBudget creates a budget bounded by count and elapsed time
func NewTimeBudget(limit int, window time.Duration) *Budget {
	return &Budget{
		limit:    limit,
		deadline: time.Now().Add(window),
	}
}

// Take consumes one unit. Returns false when the budget is exhausted.
func (b *Budget) Take() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.limit > 0 && b.used >= b.limit {
		return false
	}
	if !b.deadline.IsZero() && time.Now().After(b.deadline) {
		return false
	}
	b.used++
	return true
}

// Remaining reports how many units are left, ignoring the clock.
// A zero limit means unbounded and reports -1.
func (b *Budget) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.limit <= 0 {
		return -1
	}
	left := b.limit - b.used
	if left < 0 {
		return 0
	}
	return left
}

// Used reports how many units have been consumed
func (b *Budget) Used() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used
}

// Expired reports whether the wall-clock window has closed
func (b *Budget) Expired() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.deadline.IsZero() && time.Now().After(b.deadline)
}

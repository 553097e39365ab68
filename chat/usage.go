package chat

import "sync"

// UsageTracker accumulates RequestUsage from concurrent calls without losing
// increments. The zero value is ready to use.
type UsageTracker struct {
	mu    sync.Mutex
	total RequestUsage
}

// Add folds u into the running total.
func (t *UsageTracker) Add(u RequestUsage) {
	t.mu.Lock()
	t.total = t.total.Add(u)
	t.mu.Unlock()
}

// Total returns a snapshot of the running total.
func (t *UsageTracker) Total() RequestUsage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

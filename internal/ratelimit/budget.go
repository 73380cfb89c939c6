package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// QueryBudget caps how many warehouse queries a source may issue
// against a given table within a rolling window. It protects shared
// Athena workgroups from runaway reconciliation loops.
type QueryBudget struct {
	mu           sync.Mutex
	counts       map[string]*windowCounter
	maxPerWindow int
	windowSize   time.Duration
	now          func() time.Time
}

type windowCounter struct {
	windowStart time.Time
	count       int
}

// NewQueryBudget creates a budget allowing maxPerWindow queries per
// (source, table) pair within each windowSize interval.
func NewQueryBudget(maxPerWindow int, windowSize time.Duration) *QueryBudget {
	return &QueryBudget{
		counts:       make(map[string]*windowCounter),
		maxPerWindow: maxPerWindow,
		windowSize:   windowSize,
		now:          time.Now,
	}
}

func budgetKey(source, table string) string {
	return source + "|" + table
}

// Check returns an error when the source has exhausted its budget for
// the table in the current window.
func (b *QueryBudget) Check(source, table string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	wc, ok := b.counts[budgetKey(source, table)]
	if !ok {
		return nil
	}
	if b.now().Sub(wc.windowStart) > b.windowSize {
		return nil
	}
	if wc.count >= b.maxPerWindow {
		return fmt.Errorf("query budget exceeded: source %s table %s (%d/%d in window)",
			source, table, wc.count, b.maxPerWindow)
	}
	return nil
}

// Record counts one query against the budget. Counting is separate
// from checking so callers only record queries they actually started.
func (b *QueryBudget) Record(source, table string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := budgetKey(source, table)
	wc, ok := b.counts[key]
	if !ok || b.now().Sub(wc.windowStart) > b.windowSize {
		b.counts[key] = &windowCounter{windowStart: b.now(), count: 1}
		return
	}
	wc.count++
}

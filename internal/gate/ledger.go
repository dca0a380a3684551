package gate

import (
	"maps"
	"sync"
)

// Ledger is the per-plugin error count shared by diagnostic triage and
// structural validation. It is safe for concurrent use and lives for one
// invocation.
type Ledger struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{counts: make(map[string]int)}
}

// Increment adds n errors to plugin. Non-positive n is ignored.
func (l *Ledger) Increment(plugin string, n int) {
	if n <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.counts == nil {
		l.counts = make(map[string]int)
	}
	l.counts[plugin] += n
}

// Count returns the errors recorded for plugin.
func (l *Ledger) Count(plugin string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts[plugin]
}

// Snapshot returns a copy of all counts.
func (l *Ledger) Snapshot() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return maps.Clone(l.counts)
}

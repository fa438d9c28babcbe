package adapters

import "sync"

// CostLedger tracks accumulated fallback spend for one agent instance. The
// counter is monotonic and instance-scoped; pooling across a batch happens
// only when the caller deliberately shares one ledger.
type CostLedger struct {
	mu      sync.Mutex
	spent   float64
	ceiling float64
}

// NewCostLedger creates a ledger with the given ceiling in dollars. A
// ceiling of zero or less means unlimited.
func NewCostLedger(ceiling float64) *CostLedger {
	return &CostLedger{ceiling: ceiling}
}

// Allow reports whether an estimated cost fits under the ceiling.
func (l *CostLedger) Allow(estimated float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ceiling <= 0 {
		return true
	}
	return l.spent+estimated <= l.ceiling
}

// Record adds actual spend. Negative amounts are ignored; the counter never
// decreases.
func (l *CostLedger) Record(cost float64) {
	if cost <= 0 {
		return
	}
	l.mu.Lock()
	l.spent += cost
	l.mu.Unlock()
}

// Spent returns the accumulated spend.
func (l *CostLedger) Spent() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.spent
}

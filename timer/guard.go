package timer

import "sync/atomic"

// ReadyGuard marks one readiness report from the poller. The holder must
// call Clear before registering the next wait, on every outcome of the
// consume step; a guard left uncleared makes the poller report the
// descriptor as perpetually ready and the wait loop spins.
type ReadyGuard struct {
	cleared atomic.Bool
}

// NewReadyGuard creates a guard representing a fresh readiness report.
func NewReadyGuard() *ReadyGuard {
	return &ReadyGuard{}
}

// Clear consumes the readiness report. Clearing twice is safe.
func (g *ReadyGuard) Clear() {
	g.cleared.Store(true)
}

// Cleared reports whether the guard has been cleared.
func (g *ReadyGuard) Cleared() bool {
	return g.cleared.Load()
}

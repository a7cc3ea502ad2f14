package poller

import "sync/atomic"

// Generation is an epoch counter. A result tagged with an older epoch than
// Current belongs to a subject that has since been replaced or closed.
type Generation struct {
	n atomic.Uint64
}

// Next starts a new epoch and returns it.
func (g *Generation) Next() uint64 {
	return g.n.Add(1)
}

// Current returns the active epoch.
func (g *Generation) Current() uint64 {
	return g.n.Load()
}

// Valid reports whether epoch is still the active one.
func (g *Generation) Valid(epoch uint64) bool {
	return g.n.Load() == epoch
}

// Package monitor implements the four domain monitors — CPU, GPU, RAM,
// Storage. Each owns the acquisition logic for one hardware category:
// source adapter selection, staleness caching, value sanitization, and an
// optional micro-benchmark. Monitors are single-owner by contract: one
// scheduling context constructs, queries, and tears down each instance.
// Routine failure never escapes a monitor; it is absorbed into documented
// sentinel values and a log line.
package monitor

import "time"

// gateState is the two-state freshness machine behind the TTL gate.
type gateState int

const (
	gateStale gateState = iota
	gateFresh
)

// ttlGate suppresses redundant expensive refreshes: once marked, it stays
// fresh until the configured TTL elapses. The clock is injected so tests
// can step time explicitly.
type ttlGate struct {
	ttl  time.Duration
	last time.Time
	now  func() time.Time
}

func newTTLGate(ttl time.Duration, now func() time.Time) *ttlGate {
	if now == nil {
		now = time.Now
	}
	return &ttlGate{ttl: ttl, now: now}
}

// state reports whether the cached value is still within its TTL.
func (g *ttlGate) state() gateState {
	if g.last.IsZero() || g.now().Sub(g.last) >= g.ttl {
		return gateStale
	}
	return gateFresh
}

// mark transitions the gate to fresh as of the current clock reading.
// Call only after a successful refresh so that failed reads never extend
// the cache lifetime.
func (g *ttlGate) mark() {
	g.last = g.now()
}

package monitor

import (
	"testing"
	"time"
)

func TestTTLGate_StartsStale(t *testing.T) {
	g := newTTLGate(500*time.Millisecond, nil)
	if g.state() != gateStale {
		t.Error("fresh before any mark")
	}
}

func TestTTLGate_FreshWithinTTLStaleAfter(t *testing.T) {
	clock := time.Unix(1000, 0)
	g := newTTLGate(500*time.Millisecond, func() time.Time { return clock })

	g.mark()
	if g.state() != gateFresh {
		t.Error("stale immediately after mark")
	}

	clock = clock.Add(499 * time.Millisecond)
	if g.state() != gateFresh {
		t.Error("stale before TTL elapsed")
	}

	clock = clock.Add(1 * time.Millisecond)
	if g.state() != gateStale {
		t.Error("fresh at exactly the TTL boundary")
	}
}

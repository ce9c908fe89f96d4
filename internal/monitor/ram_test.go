package monitor

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestRAMMonitor_SummaryInvariants(t *testing.T) {
	m := NewRAM(zap.NewNop())
	s := m.Summary(context.Background())

	if s.Total == 0 {
		t.Fatal("Total = 0, memory read failed on the test machine")
	}
	if s.UsedPercent < 0 || s.UsedPercent > 100 {
		t.Errorf("UsedPercent = %v, want [0,100]", s.UsedPercent)
	}
	if s.Used > s.Total {
		t.Errorf("Used %d > Total %d", s.Used, s.Total)
	}
	if s.Free > s.Total {
		t.Errorf("Free %d > Total %d", s.Free, s.Total)
	}
	if s.Used+s.Free > s.Total {
		t.Errorf("Used+Free %d > Total %d", s.Used+s.Free, s.Total)
	}
	if s.SwapPercent < 0 || s.SwapPercent > 100 {
		t.Errorf("SwapPercent = %v, want [0,100]", s.SwapPercent)
	}
	if s.Timestamp.IsZero() {
		t.Error("sample carries no timestamp")
	}
}

func TestRAMMonitor_DetailedNeverFails(t *testing.T) {
	m := NewRAM(zap.NewNop())
	s := m.Detailed(context.Background())

	// Cached/Buffers default to 0 where the OS hides them; they must never
	// break the invariants when present.
	if s.Cached > s.Total {
		t.Errorf("Cached %d > Total %d", s.Cached, s.Total)
	}
	if s.Buffers > s.Total {
		t.Errorf("Buffers %d > Total %d", s.Buffers, s.Total)
	}
}

func TestRAMMonitor_SpeedTestCompositeIsMean(t *testing.T) {
	m := NewRAM(zap.NewNop())
	r := m.RunSpeedTest(10)

	if r.ReadMBps <= 0 || r.WriteMBps <= 0 {
		t.Fatalf("speeds = %v read, %v write, want > 0", r.ReadMBps, r.WriteMBps)
	}
	want := (r.ReadMBps + r.WriteMBps) / 2
	if r.CompositeMBps != want {
		t.Errorf("CompositeMBps = %v, want exactly (read+write)/2 = %v", r.CompositeMBps, want)
	}
}

func TestRAMMonitor_SpeedTestRejectsBadSizes(t *testing.T) {
	m := NewRAM(zap.NewNop())
	for _, size := range []int{0, -5, maxSpeedTestMB + 1} {
		r := m.RunSpeedTest(size)
		if r.ReadMBps != 0 || r.WriteMBps != 0 || r.CompositeMBps != 0 {
			t.Errorf("RunSpeedTest(%d) = %+v, want all-zero result", size, r)
		}
	}
}

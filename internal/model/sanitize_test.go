package model

import "testing"

func TestSanitizeMemory_UsedOverTotal(t *testing.T) {
	// Driver race: used reported above total. Spec'd clamp is
	// used = total, free = 0.
	used, free := SanitizeMemory(9000, 100, 8000)
	if used != 8000 {
		t.Errorf("used = %d, want 8000", used)
	}
	if free != 0 {
		t.Errorf("free = %d, want 0", free)
	}
}

func TestSanitizeMemory_FreeOverTotal(t *testing.T) {
	used, free := SanitizeMemory(2000, 9000, 8000)
	if used != 2000 {
		t.Errorf("used = %d, want 2000", used)
	}
	if free != 6000 {
		t.Errorf("free = %d, want total-used = 6000", free)
	}
}

func TestSanitizeMemory_ZeroTotalPassthrough(t *testing.T) {
	used, free := SanitizeMemory(500, 300, 0)
	if used != 500 || free != 300 {
		t.Errorf("got (%d, %d), want passthrough (500, 300)", used, free)
	}
}

func TestSanitizeMemory_ConsistentInputUntouched(t *testing.T) {
	used, free := SanitizeMemory(3000, 5000, 8000)
	if used != 3000 || free != 5000 {
		t.Errorf("got (%d, %d), want (3000, 5000)", used, free)
	}
}

func TestClampPercent(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{-5, 0},
		{0, 0},
		{55.5, 55.5},
		{100, 100},
		{140, 100},
	}
	for _, c := range cases {
		if got := ClampPercent(c.in); got != c.want {
			t.Errorf("ClampPercent(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestGPUSampleSanitize(t *testing.T) {
	s := GPUSample{
		Load:        Valid(130),
		MemoryTotal: 8000,
		MemoryUsed:  9000,
		MemoryFree:  4000,
	}
	s.Sanitize()
	if s.MemoryUsed != 8000 {
		t.Errorf("MemoryUsed = %d, want 8000", s.MemoryUsed)
	}
	if s.MemoryFree != 0 {
		t.Errorf("MemoryFree = %d, want 0", s.MemoryFree)
	}
	if s.Load.Value != 100 {
		t.Errorf("Load = %v, want clamped to 100", s.Load.Value)
	}
}

func TestGPUSampleSanitize_UnknownLoadStaysUnknown(t *testing.T) {
	s := GPUSample{Load: Unknown(), MemoryTotal: 100}
	s.Sanitize()
	if s.Load.Known {
		t.Error("unknown load became known after sanitize")
	}
}

func TestReadingDistinguishesZeroFromUnknown(t *testing.T) {
	if Valid(0) == Unknown() {
		t.Error("a real zero reading must not equal the unknown sentinel")
	}
	if !Valid(0).Known {
		t.Error("Valid(0).Known = false")
	}
}

func TestGPUSampleMemoryUsedPercent(t *testing.T) {
	s := GPUSample{MemoryTotal: 8000, MemoryUsed: 2000}
	if got := s.MemoryUsedPercent(); got != 25 {
		t.Errorf("MemoryUsedPercent = %v, want 25", got)
	}
	empty := GPUSample{}
	if got := empty.MemoryUsedPercent(); got != 0 {
		t.Errorf("MemoryUsedPercent with zero total = %v, want 0", got)
	}
}

func TestNewBenchmarkResultComposite(t *testing.T) {
	r := NewBenchmarkResult(120, 80)
	if r.CompositeMBps != 100 {
		t.Errorf("CompositeMBps = %v, want 100", r.CompositeMBps)
	}
}

package monitor

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestRunCPUBenchmark_ThroughputScalesWithWork(t *testing.T) {
	light := func() int64 { return benchWorkUnit() }
	heavy := func() int64 { return benchWorkUnit() + benchWorkUnit() }

	lightScore := runCPUBenchmark(100*time.Millisecond, light)
	heavyScore := runCPUBenchmark(100*time.Millisecond, heavy)

	if lightScore <= 0 || heavyScore <= 0 {
		t.Fatalf("scores must be positive, got %v and %v", lightScore, heavyScore)
	}
	// Doubling per-iteration work must reduce iteration throughput.
	if heavyScore >= lightScore {
		t.Errorf("heavy work score %v >= light work score %v", heavyScore, lightScore)
	}
}

func TestRunCPUBenchmark_ZeroDuration(t *testing.T) {
	if got := runCPUBenchmark(0, benchWorkUnit); got != 0 {
		t.Errorf("zero duration score = %v, want 0", got)
	}
}

func TestCPUMonitor_LoadsWithinRange(t *testing.T) {
	m := NewCPU(zap.NewNop())
	ctx := context.Background()

	if load := m.OverallLoad(ctx); load < 0 || load > 100 {
		t.Errorf("OverallLoad = %v, want [0,100]", load)
	}

	cores := m.PerCoreLoad(ctx)
	if info := m.StaticInfo(); info.LogicalCores > 0 && len(cores) != info.LogicalCores {
		t.Errorf("PerCoreLoad has %d entries, want %d", len(cores), info.LogicalCores)
	}
	for i, c := range cores {
		if c < 0 || c > 100 {
			t.Errorf("core %d load = %v, want [0,100]", i, c)
		}
	}
}

func TestCPUMonitor_StaticInfoBestEffort(t *testing.T) {
	m := NewCPU(zap.NewNop())
	info := m.StaticInfo()

	// Core counts are the one field gopsutil answers everywhere.
	if info.LogicalCores <= 0 {
		t.Errorf("LogicalCores = %d, want > 0", info.LogicalCores)
	}
	if info.PhysicalCores > info.LogicalCores {
		t.Errorf("PhysicalCores %d > LogicalCores %d", info.PhysicalCores, info.LogicalCores)
	}
}

func TestCPUMonitor_TemperatureSetConsistent(t *testing.T) {
	m := NewCPU(zap.NewNop())
	set := m.Temperatures(context.Background())

	// Whatever the machine offers, the marker must be consistent: readings
	// imply availability and a source name, no readings imply neither.
	if set.Available != (len(set.Sensors) > 0) {
		t.Errorf("Available = %v with %d sensors", set.Available, len(set.Sensors))
	}
	if set.Available && set.Source == "" {
		t.Error("available set carries no source name")
	}
	for label, v := range set.Sensors {
		if v <= 0 || v > 150 {
			t.Errorf("sensor %q = %v, outside plausible range", label, v)
		}
	}
}

func TestCPUMonitor_SampleShape(t *testing.T) {
	m := NewCPU(zap.NewNop())
	s := m.Sample(context.Background())

	if s.Timestamp.IsZero() {
		t.Error("sample carries no timestamp")
	}
	if s.Overall < 0 || s.Overall > 100 {
		t.Errorf("Overall = %v, want [0,100]", s.Overall)
	}
}

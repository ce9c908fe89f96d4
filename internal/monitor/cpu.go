// CPU monitor — static processor facts, load percentages, the temperature
// fallback chain, and a fixed-duration arithmetic micro-benchmark.
// Uses gopsutil for the cross-platform readings.
package monitor

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"go.uber.org/zap"

	"github.com/hwpulse/hwpulse/internal/model"
	"github.com/hwpulse/hwpulse/internal/source"
)

// CPUMonitor owns all CPU-domain telemetry. Not safe for concurrent use;
// one scheduling context owns each instance.
type CPUMonitor struct {
	info   model.CPUInfo
	temps  *source.TemperatureChain
	logger *zap.Logger
}

// NewCPU constructs the CPU monitor. Static device info is captured once
// here; any field that cannot be determined is left at its zero value
// rather than failing construction.
func NewCPU(logger *zap.Logger) *CPUMonitor {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &CPUMonitor{
		temps: source.NewTemperatureChain(logger,
			source.NewCPUSensorTier(),
			source.NewCPUVendorTier(),
			source.NewCPUUtilityTier(),
		),
		logger: logger,
	}
	m.info = readStaticInfo(logger)

	// Prime the utilization counters so the first non-blocking Percent
	// call has a delta to work from.
	_, _ = cpu.Percent(0, false)
	_, _ = cpu.Percent(0, true)

	return m
}

// StaticInfo returns the immutable processor facts captured at construction.
func (m *CPUMonitor) StaticInfo() model.CPUInfo { return m.info }

// OverallLoad returns the aggregate utilization percentage since the
// previous call. Never blocks for a measurement interval; on failure it
// logs a warning and returns 0.0.
func (m *CPUMonitor) OverallLoad(ctx context.Context) float64 {
	pcts, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil || len(pcts) == 0 {
		m.logger.Warn("CPU load read failed", zap.Error(err))
		return 0.0
	}
	return model.ClampPercent(pcts[0])
}

// PerCoreLoad returns one utilization percentage per logical core. On
// failure it returns a zero-filled slice sized to the known core count.
func (m *CPUMonitor) PerCoreLoad(ctx context.Context) []float64 {
	pcts, err := cpu.PercentWithContext(ctx, 0, true)
	if err != nil {
		m.logger.Warn("Per-core CPU load read failed", zap.Error(err))
		return make([]float64, m.info.LogicalCores)
	}
	for i, p := range pcts {
		pcts[i] = model.ClampPercent(p)
	}
	return pcts
}

// Sample assembles a full CPU snapshot.
func (m *CPUMonitor) Sample(ctx context.Context) model.CPUSample {
	return model.CPUSample{
		Timestamp: time.Now().UTC(),
		Overall:   m.OverallLoad(ctx),
		Cores:     m.PerCoreLoad(ctx),
	}
}

// Temperatures walks the three-tier fallback chain. When every tier fails
// the result carries Available=false, never a fabricated reading.
func (m *CPUMonitor) Temperatures(ctx context.Context) model.TemperatureSet {
	return m.temps.Read(ctx)
}

// RunBenchmark runs a CPU-bound arithmetic loop for the given duration and
// returns iterations per second. The score is machine-dependent and only
// meaningful for relative comparison. Blocks for the full duration;
// cancellation is not supported by contract.
func (m *CPUMonitor) RunBenchmark(duration time.Duration) float64 {
	return runCPUBenchmark(duration, benchWorkUnit)
}

// runCPUBenchmark is the benchmark core with the per-iteration work
// injected, so scaling behavior is testable.
func runCPUBenchmark(duration time.Duration, work func() int64) float64 {
	if duration <= 0 {
		return 0
	}
	start := time.Now()
	deadline := start.Add(duration)
	var iterations int64
	var sink int64
	for time.Now().Before(deadline) {
		sink += work()
		iterations++
	}
	_ = sink
	elapsed := time.Since(start).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(iterations) / elapsed
}

// benchWorkUnit is one benchmark iteration: a fixed run of integer squares.
func benchWorkUnit() int64 {
	var acc int64
	for i := int64(0); i < 1000; i++ {
		acc += i * i
	}
	return acc
}

// readStaticInfo captures model, architecture, core counts, and frequency,
// each best-effort.
func readStaticInfo(logger *zap.Logger) model.CPUInfo {
	info := model.CPUInfo{}

	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		info.Model = infos[0].ModelName
		info.MaxFreqMHz = infos[0].Mhz
	} else {
		logger.Warn("CPU model info unavailable", zap.Error(err))
	}

	if arch, err := host.KernelArch(); err == nil {
		info.Architecture = arch
	}

	if physical, err := cpu.Counts(false); err == nil {
		info.PhysicalCores = physical
	}
	if logical, err := cpu.Counts(true); err == nil {
		info.LogicalCores = logical
	}

	if cur, ok := currentFreqMHz(); ok {
		info.CurFreqMHz = cur
	} else {
		info.CurFreqMHz = info.MaxFreqMHz
	}

	return info
}

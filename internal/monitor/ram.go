// RAM monitor — physical memory and swap snapshots plus an in-memory
// bandwidth micro-benchmark. Memory queries are cheap, so unlike the GPU
// domain there is no staleness cache: every call reads fresh.
package monitor

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"

	"github.com/hwpulse/hwpulse/internal/model"
)

// speedTestPasses is the number of timed repetitions per benchmark phase.
const speedTestPasses = 3

// maxSpeedTestMB bounds the benchmark allocation; anything larger is
// treated as a caller mistake and yields the zero result.
const maxSpeedTestMB = 4096

// RAMMonitor owns all memory-domain telemetry. Not safe for concurrent use.
type RAMMonitor struct {
	logger *zap.Logger
}

// NewRAM constructs the RAM monitor.
func NewRAM(logger *zap.Logger) *RAMMonitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RAMMonitor{logger: logger}
}

// Summary returns the current physical memory and swap figures, queried
// fresh. On failure the affected half of the sample stays zeroed; the
// call itself never fails.
func (m *RAMMonitor) Summary(ctx context.Context) model.MemorySample {
	s := model.MemorySample{Timestamp: time.Now().UTC()}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		s.Total = vm.Total
		s.Available = vm.Available
		s.Used = vm.Used
		s.Free = vm.Free
		s.UsedPercent = vm.UsedPercent
	} else {
		m.logger.Warn("Virtual memory read failed", zap.Error(err))
	}

	if swap, err := mem.SwapMemoryWithContext(ctx); err == nil {
		s.SwapTotal = swap.Total
		s.SwapUsed = swap.Used
		s.SwapFree = swap.Free
		s.SwapPercent = swap.UsedPercent
	} else {
		m.logger.Warn("Swap memory read failed", zap.Error(err))
	}

	s.Sanitize()
	return s
}

// Detailed returns the summary extended with cached and buffered memory
// where the OS exposes them; on platforms that do not, those fields stay 0
// rather than failing the call.
func (m *RAMMonitor) Detailed(ctx context.Context) model.MemorySample {
	s := m.Summary(ctx)
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		s.Cached = vm.Cached
		s.Buffers = vm.Buffers
	}
	return s
}

// RunSpeedTest measures memory bandwidth over a block of the requested
// size: the block is allocated once (allocation cost excluded from
// timing), then filled and reduced speedTestPasses times each, averaged
// into write and read MB/s. Returns the all-zero result on any failure.
// Blocks for the full measurement; cancellation is not supported.
func (m *RAMMonitor) RunSpeedTest(sizeMB int) model.BenchmarkResult {
	if sizeMB <= 0 || sizeMB > maxSpeedTestMB {
		m.logger.Warn("RAM speed test skipped, invalid size", zap.Int("size_mb", sizeMB))
		return model.BenchmarkResult{}
	}

	words := sizeMB * 1024 * 1024 / 8
	block := make([]float64, words)

	writeSecs := averageSeconds(speedTestPasses, func() {
		for i := range block {
			block[i] = 3.14
		}
	})
	readSecs := averageSeconds(speedTestPasses, func() {
		var sum float64
		for _, v := range block {
			sum += v
		}
		benchSink = sum
	})

	if writeSecs <= 0 || readSecs <= 0 {
		return model.BenchmarkResult{}
	}
	return model.NewBenchmarkResult(
		float64(sizeMB)/readSecs,
		float64(sizeMB)/writeSecs,
	)
}

// benchSink defeats dead-code elimination of the read pass.
var benchSink float64

// averageSeconds times fn over n passes and returns the mean duration in
// seconds.
func averageSeconds(n int, fn func()) float64 {
	var total time.Duration
	for i := 0; i < n; i++ {
		start := time.Now()
		fn()
		total += time.Since(start)
	}
	return total.Seconds() / float64(n)
}

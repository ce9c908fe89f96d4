// GPU monitor — the deepest fallback stack of the four domains. At
// construction it walks an ordered list of source adapters (vendor tool,
// cross-vendor sysfs, bare host sensors) and keeps the first that probes
// successfully; with no working source it degrades to an empty device list
// and every query returns empty results without error.
//
// Native vendor queries are expensive relative to UI refresh cadence, so
// Samples is rate-limited by a TTL gate: calls inside the update interval
// are served from the last-known-good cache instead of re-querying.
package monitor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hwpulse/hwpulse/internal/model"
	"github.com/hwpulse/hwpulse/internal/source"
)

// DefaultGPUUpdateInterval is the minimum spacing between real hardware
// polls in Samples.
const DefaultGPUUpdateInterval = 500 * time.Millisecond

// GPUMonitor owns all GPU-domain telemetry. Not safe for concurrent use.
// After Close, query methods panic: using a destroyed monitor is
// programmer error, not routine unavailability.
type GPUMonitor struct {
	active  source.GPUSource
	devices []model.DeviceIdentity

	gate          *ttlGate
	last          []model.GPUSample // last-known-good, index-aligned with devices
	lastValidLoad map[int]float64   // last non-negative utilization per device index

	temps  *source.TemperatureChain
	logger *zap.Logger
	closed bool
}

// GPUOption customizes monitor construction.
type GPUOption func(*gpuOptions)

type gpuOptions struct {
	sources  []source.GPUSource
	interval time.Duration
	now      func() time.Time
}

// WithGPUSources overrides the production source chain (used by tests and
// by callers that want a narrower probe order).
func WithGPUSources(sources ...source.GPUSource) GPUOption {
	return func(o *gpuOptions) { o.sources = sources }
}

// WithGPUUpdateInterval overrides the staleness TTL.
func WithGPUUpdateInterval(d time.Duration) GPUOption {
	return func(o *gpuOptions) { o.interval = d }
}

// WithGPUClock injects the clock backing the TTL gate.
func WithGPUClock(now func() time.Time) GPUOption {
	return func(o *gpuOptions) { o.now = now }
}

// NewGPU constructs the GPU monitor. Source probing happens here, once;
// sources that fail to probe are released immediately. Construction never
// fails — a machine with no readable GPU yields an empty-capability
// monitor.
func NewGPU(logger *zap.Logger, opts ...GPUOption) *GPUMonitor {
	if logger == nil {
		logger = zap.NewNop()
	}

	o := gpuOptions{interval: DefaultGPUUpdateInterval}
	for _, opt := range opts {
		opt(&o)
	}
	if o.sources == nil {
		o.sources = source.DefaultGPUSources(logger)
	}

	m := &GPUMonitor{
		gate:          newTTLGate(o.interval, o.now),
		lastValidLoad: make(map[int]float64),
		temps: source.NewTemperatureChain(logger,
			source.NewGPUSensorTier(),
			source.NewNvidiaSMITier(),
			source.NewGPUUtilityTier(),
		),
		logger: logger,
	}

	for _, src := range o.sources {
		if m.active != nil {
			src.Close()
			continue
		}
		if !src.Probe() {
			logger.Debug("GPU source not available", zap.String("source", src.Name()))
			src.Close()
			continue
		}
		m.active = src
		m.devices = src.Devices()
		m.last = make([]model.GPUSample, len(m.devices))
		logger.Info("GPU source selected",
			zap.String("source", src.Name()),
			zap.Int("devices", len(m.devices)))
	}
	if m.active == nil {
		logger.Info("No GPU source available, monitor degraded to empty device list")
	}

	return m
}

// Devices returns the identities enumerated at construction.
func (m *GPUMonitor) Devices() []model.DeviceIdentity {
	m.mustBeOpen()
	out := make([]model.DeviceIdentity, len(m.devices))
	copy(out, m.devices)
	return out
}

// Samples returns one sample per device. Calls within the update interval
// of the previous successful poll return the cached last-known-good
// samples; otherwise each device is re-read with per-metric fallback: a
// single metric failing falls back to that device's last-known-good value
// for that metric only, never discarding the whole sample.
func (m *GPUMonitor) Samples(ctx context.Context) []model.GPUSample {
	m.mustBeOpen()
	if m.active == nil {
		return nil
	}

	if m.gate.state() == gateFresh {
		return m.cachedSamples()
	}

	succeeded := false
	now := time.Now().UTC()
	for i, dev := range m.devices {
		reading, err := m.active.Read(ctx, dev.Index)
		if err != nil {
			// whole-device read failure: keep the previous sample
			m.logger.Warn("GPU read failed, serving last known good",
				zap.Int("device", dev.Index),
				zap.Error(err))
			continue
		}
		m.last[i] = m.assembleSample(i, dev, reading, now)
		succeeded = true
	}

	if succeeded {
		m.gate.mark()
	}
	return m.cachedSamples()
}

// assembleSample merges one raw reading with the device's last-known-good
// state and sanitizes the result before it replaces that state.
func (m *GPUMonitor) assembleSample(i int, dev model.DeviceIdentity, r source.GPUReading, now time.Time) model.GPUSample {
	prev := m.last[i]

	s := model.GPUSample{
		Device:      dev,
		MemoryTotal: r.MemoryTotal,
		MemoryUsed:  r.MemoryUsed,
		MemoryFree:  r.MemoryFree,
		Temperature: r.Temperature,
		Timestamp:   now,
	}

	// Utilization: negative or missing readings are replaced by the last
	// valid non-negative value for this device.
	switch {
	case r.Utilization.Known && r.Utilization.Value >= 0:
		s.Load = r.Utilization
		m.lastValidLoad[dev.Index] = r.Utilization.Value
	default:
		if v, ok := m.lastValidLoad[dev.Index]; ok {
			s.Load = model.Valid(v)
		} else {
			s.Load = model.Unknown()
		}
	}

	// Memory: a source that lost sight of memory this cycle reports a
	// zero total; fall back to the previous counters for this device.
	if s.MemoryTotal == 0 && prev.MemoryTotal > 0 {
		s.MemoryTotal = prev.MemoryTotal
		s.MemoryUsed = prev.MemoryUsed
		s.MemoryFree = prev.MemoryFree
	}

	// Temperature: keep the previous reading rather than fabricating one.
	if !s.Temperature.Known && prev.Temperature.Known {
		s.Temperature = prev.Temperature
	}

	s.Sanitize()
	return s
}

// cachedSamples returns a copy of the last-known-good slice, skipping
// devices that have never produced a sample.
func (m *GPUMonitor) cachedSamples() []model.GPUSample {
	out := make([]model.GPUSample, 0, len(m.last))
	for _, s := range m.last {
		if s.Timestamp.IsZero() {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Temperatures returns one reading per device. Device samples answer
// first; devices still unknown after that share the hottest reading the
// fallback chain can find; entries stay Unknown only when every tier is
// exhausted.
func (m *GPUMonitor) Temperatures(ctx context.Context) []model.Reading {
	m.mustBeOpen()
	if len(m.devices) == 0 {
		return nil
	}

	out := make([]model.Reading, len(m.devices))
	missing := 0
	for i := range m.devices {
		if i < len(m.last) && m.last[i].Temperature.Known {
			out[i] = m.last[i].Temperature
		} else {
			out[i] = model.Unknown()
			missing++
		}
	}
	if missing == 0 {
		return out
	}

	set := m.temps.Read(ctx)
	if !set.Available {
		return out
	}
	var hottest float64
	for _, v := range set.Sensors {
		if v > hottest {
			hottest = v
		}
	}
	for i := range out {
		if !out[i].Known {
			out[i] = model.Valid(hottest)
		}
	}
	return out
}

// RunBenchmark computes the comparative capacity score
// Σ (100 − utilization%) × memory_total_GB over all devices. Devices with
// no utilization data are skipped rather than scored from a guess.
func (m *GPUMonitor) RunBenchmark(ctx context.Context) float64 {
	m.mustBeOpen()
	total := 0.0
	for _, s := range m.Samples(ctx) {
		if !s.Load.Known {
			continue
		}
		total += (100 - s.Load.Value) * (float64(s.MemoryTotal) / 1024)
	}
	return total
}

// Close releases the active source. Safe to call repeatedly and after a
// construction in which every probe failed.
func (m *GPUMonitor) Close() {
	if m.closed {
		return
	}
	m.closed = true
	if m.active != nil {
		m.active.Close()
		m.active = nil
	}
}

// mustBeOpen guards against use-after-teardown, which is the one misuse
// class that is a hard error rather than a sentinel.
func (m *GPUMonitor) mustBeOpen() {
	if m.closed {
		panic("gpu monitor used after Close")
	}
}

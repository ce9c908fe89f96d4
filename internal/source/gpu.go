// GPU source adapters. A GPUSource wraps one facility for enumerating and
// querying graphics devices; the GPU monitor tries sources in priority
// order at construction and keeps the first whose Probe succeeds.
package source

import (
	"context"

	"go.uber.org/zap"

	"github.com/hwpulse/hwpulse/internal/model"
)

// GPUReading is one raw per-device reading, pre-sanitization. Memory
// figures are in MB; zero memory totals mean the source cannot see memory.
type GPUReading struct {
	Utilization model.Reading
	MemoryTotal uint64
	MemoryUsed  uint64
	MemoryFree  uint64
	Temperature model.Reading
}

// GPUSource is a strategy for obtaining GPU telemetry from one OS or
// vendor facility.
type GPUSource interface {
	// Name identifies the source in logs.
	Name() string

	// Probe checks availability and enumerates devices. Called once at
	// monitor construction; a false return drops the source from
	// consideration.
	Probe() bool

	// Devices returns the identities enumerated by Probe.
	Devices() []model.DeviceIdentity

	// Read queries current metrics for the device at the given index.
	Read(ctx context.Context, index int) (GPUReading, error)

	// Close releases anything Probe acquired. Must be safe to call more
	// than once and after a failed Probe.
	Close()
}

// DefaultGPUSources returns the production source chain in priority order:
// vendor management tool, then the cross-vendor sysfs reader, then bare
// host sensors.
func DefaultGPUSources(logger *zap.Logger) []GPUSource {
	return []GPUSource{
		NewNvidiaSMISource(logger),
		NewDRMSource(logger),
		NewSensorGPUSource(),
	}
}

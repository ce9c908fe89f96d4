// Host-sensor GPU source — the last resort in the GPU chain. If thermal
// sensors mention a GPU at all, it enumerates a single explicit "unknown
// device" whose only live metric is temperature. Callers get a properly
// typed DeviceIdentity with placeholder fields rather than a structural
// stand-in.
package source

import (
	"context"
	"fmt"

	"github.com/hwpulse/hwpulse/internal/model"
)

// SensorGPUSource surfaces a GPU inferred from thermal sensors alone.
type SensorGPUSource struct {
	tier *HostSensorTier
}

// NewSensorGPUSource creates the sensor-inference GPU source.
func NewSensorGPUSource() *SensorGPUSource {
	return &SensorGPUSource{tier: NewGPUSensorTier()}
}

// Name returns the source identifier.
func (s *SensorGPUSource) Name() string { return "host-sensors" }

// Probe succeeds only when at least one GPU-looking sensor exists.
func (s *SensorGPUSource) Probe() bool {
	temps, err := s.tier.Read(context.Background())
	return err == nil && len(temps) > 0
}

// Devices returns the single unknown device.
func (s *SensorGPUSource) Devices() []model.DeviceIdentity {
	return []model.DeviceIdentity{{
		Index: 0,
		Name:  model.UnknownDeviceName,
		UUID:  model.UnknownDeviceUUID,
	}}
}

// Read reports the hottest GPU sensor as the device temperature;
// utilization and memory stay unknown.
func (s *SensorGPUSource) Read(ctx context.Context, index int) (GPUReading, error) {
	if index != 0 {
		return GPUReading{}, fmt.Errorf("host-sensors: no device with index %d", index)
	}

	r := GPUReading{
		Utilization: model.Unknown(),
		Temperature: model.Unknown(),
	}
	temps, err := s.tier.Read(ctx)
	if err != nil {
		return r, err
	}
	for _, v := range temps {
		if !r.Temperature.Known || v > r.Temperature.Value {
			r.Temperature = model.Valid(v)
		}
	}
	return r, nil
}

// Close is a no-op.
func (s *SensorGPUSource) Close() {}

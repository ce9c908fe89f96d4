// Host sensor tier — reads thermal sensors through gopsutil and filters
// them down to one hardware domain by sensor-key substring matching.
package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
)

// Sensor name substrings used to identify CPU temperature sensors across platforms.
// Linux:  coretemp_core_0_input, k10temp_tctl_input, acpitz_temp1_input
// macOS:  TC0P (CPU proximity), TC0D (CPU die), TCXC (CPU core)
// Windows: CPU Package, CPU Core #0, etc.
var cpuSensorKeys = []string{
	"cpu", "core", "package",
	"tctl", "tdie", "k10temp", "coretemp",
	"tc0p", "tc0d", "tcxc",
	"acpitz", "zenpower",
}

// Sensor name substrings used to identify GPU temperature sensors.
// Linux:  amdgpu_edge_input, nouveau_temp1_input
// macOS:  TG0P (GPU proximity), TG0D (GPU die)
var gpuSensorKeys = []string{
	"gpu", "nvidia", "amd", "radeon",
	"tg0p", "tg0d",
	"amdgpu", "nouveau",
}

// minValidTemp is the minimum temperature (°C) considered valid.
const minValidTemp = 0.0

// maxValidTemp is the maximum temperature (°C) considered valid.
// Readings above this are likely sensor errors.
const maxValidTemp = 150.0

// HostSensorTier reads through gopsutil's host sensor API, the tier-1
// OS-native source for both the CPU and GPU temperature chains.
type HostSensorTier struct {
	domain string
	keys   []string
}

// NewCPUSensorTier returns the host-sensor tier filtered to CPU sensors.
func NewCPUSensorTier() *HostSensorTier {
	return &HostSensorTier{domain: "cpu", keys: cpuSensorKeys}
}

// NewGPUSensorTier returns the host-sensor tier filtered to GPU sensors.
func NewGPUSensorTier() *HostSensorTier {
	return &HostSensorTier{domain: "gpu", keys: gpuSensorKeys}
}

// Name returns the tier identifier.
func (t *HostSensorTier) Name() string { return "host-sensors/" + t.domain }

// Read gathers matching sensor readings. Duplicate sensor keys keep the
// hottest reading.
func (t *HostSensorTier) Read(ctx context.Context) (map[string]float64, error) {
	temps, err := host.SensorsTemperaturesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("host sensors: %w", err)
	}

	out := make(map[string]float64)
	for _, s := range temps {
		if !isValidTemperature(s.Temperature) {
			continue
		}
		key := strings.ToLower(s.SensorKey)
		if !matchesSensor(key, t.keys) {
			continue
		}
		if prev, ok := out[s.SensorKey]; !ok || s.Temperature > prev {
			out[s.SensorKey] = s.Temperature
		}
	}
	return out, nil
}

// matchesSensor checks if the sensor name contains any of the given key substrings.
func matchesSensor(name string, keys []string) bool {
	for _, key := range keys {
		if strings.Contains(name, key) {
			return true
		}
	}
	return false
}

// isValidTemperature returns true if the temperature is within a plausible range.
func isValidTemperature(temp float64) bool {
	return temp > minValidTemp && temp <= maxValidTemp
}

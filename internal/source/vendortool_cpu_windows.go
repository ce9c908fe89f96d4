//go:build windows

// CPU vendor tool tier for Windows — queries the OpenHardwareMonitor WMI
// namespace through wmic. Only answers when the OpenHardwareMonitor
// service is installed and running; otherwise the chain moves on.
package source

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// CPUVendorTier reads OpenHardwareMonitor temperature sensors via wmic.
type CPUVendorTier struct{}

// NewCPUVendorTier returns the OpenHardwareMonitor tier.
func NewCPUVendorTier() *CPUVendorTier { return &CPUVendorTier{} }

// Name returns the tier identifier.
func (t *CPUVendorTier) Name() string { return "openhardwaremonitor/cpu" }

// Read lists OHM sensors and keeps temperature sensors naming the CPU.
func (t *CPUVendorTier) Read(ctx context.Context) (map[string]float64, error) {
	out, err := exec.CommandContext(ctx, "wmic",
		"/namespace:\\\\root\\OpenHardwareMonitor", "path", "Sensor",
		"get", "Name,SensorType,Value", "/format:csv").Output()
	if err != nil {
		return nil, fmt.Errorf("wmic openhardwaremonitor: %w", err)
	}

	temps := make(map[string]float64)
	for _, line := range strings.Split(string(out), "\n") {
		// CSV format: Node,Name,SensorType,Value
		fields := strings.Split(strings.TrimSpace(line), ",")
		if len(fields) < 4 {
			continue
		}
		name, sensorType, value := fields[1], fields[2], fields[3]
		if sensorType != "Temperature" {
			continue
		}
		if !strings.Contains(name, "CPU") && !strings.Contains(name, "Core") {
			continue
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || !isValidTemperature(v) {
			continue
		}
		temps[name] = v
	}
	return temps, nil
}

//go:build windows

// Windows utility tier — queries the ACPI thermal zone through wmic.
// Readings come back in tenths of Kelvin and cover the whole zone, not a
// single core, so this is strictly a last resort.
package source

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// UtilityTier reads the ACPI thermal zone via wmic. The same zone reading
// is reported for either domain since Windows exposes nothing finer here.
type UtilityTier struct {
	domain string
}

// NewCPUUtilityTier returns the wmic thermal-zone tier for the CPU chain.
func NewCPUUtilityTier() *UtilityTier { return &UtilityTier{domain: "cpu"} }

// NewGPUUtilityTier returns the wmic thermal-zone tier for the GPU chain.
func NewGPUUtilityTier() *UtilityTier { return &UtilityTier{domain: "gpu"} }

// Name returns the tier identifier.
func (t *UtilityTier) Name() string { return "wmic-thermal/" + t.domain }

// Read queries MSAcpi_ThermalZoneTemperature and converts decikelvin to °C.
func (t *UtilityTier) Read(ctx context.Context) (map[string]float64, error) {
	out, err := exec.CommandContext(ctx, "wmic",
		"/namespace:\\\\root\\wmi", "path", "MSAcpi_ThermalZoneTemperature",
		"get", "CurrentTemperature").Output()
	if err != nil {
		return nil, fmt.Errorf("wmic thermal zone: %w", err)
	}

	temps := make(map[string]float64)
	zone := 0
	for _, line := range strings.Split(string(out), "\n") {
		raw, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
		if err != nil {
			continue // header and blank lines
		}
		v := raw/10 - 273.15
		if !isValidTemperature(v) {
			continue
		}
		temps[fmt.Sprintf("ThermalZone %d", zone)] = v
		zone++
	}
	return temps, nil
}

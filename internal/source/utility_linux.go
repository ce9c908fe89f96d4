//go:build linux

// Linux utility tier — parses the plain-text output of lm-sensors as the
// last fallback before declaring temperature data unavailable. Slower and
// cruder than the sysfs-backed tiers, but present on many machines where
// gopsutil finds nothing.
package source

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// UtilityTier shells out to `sensors` and scrapes lines matching the
// domain's sensor keys, e.g. "Core 0:  +45.0°C  (high = +80.0°C)".
type UtilityTier struct {
	domain string
	keys   []string
}

// NewCPUUtilityTier returns the `sensors` text tier filtered to CPU lines.
func NewCPUUtilityTier() *UtilityTier {
	return &UtilityTier{domain: "cpu", keys: cpuSensorKeys}
}

// NewGPUUtilityTier returns the `sensors` text tier filtered to GPU lines.
func NewGPUUtilityTier() *UtilityTier {
	return &UtilityTier{domain: "gpu", keys: gpuSensorKeys}
}

// Name returns the tier identifier.
func (t *UtilityTier) Name() string { return "sensors-text/" + t.domain }

// Read runs `sensors` and parses matching "label: +NN.N°C" lines.
func (t *UtilityTier) Read(ctx context.Context) (map[string]float64, error) {
	out, err := exec.CommandContext(ctx, "sensors").Output()
	if err != nil {
		return nil, fmt.Errorf("sensors: %w", err)
	}
	return parseSensorsOutput(string(out), t.keys), nil
}

// parseSensorsOutput extracts matching temperature lines from lm-sensors
// plain-text output.
func parseSensorsOutput(out string, keys []string) map[string]float64 {
	temps := make(map[string]float64)
	for _, line := range strings.Split(out, "\n") {
		label, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if !matchesSensor(strings.ToLower(label), keys) {
			continue
		}
		value, _, ok := strings.Cut(strings.TrimSpace(rest), "°")
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimPrefix(strings.TrimSpace(value), "+"), 64)
		if err != nil || !isValidTemperature(v) {
			continue
		}
		temps[strings.TrimSpace(label)] = v
	}
	return temps
}

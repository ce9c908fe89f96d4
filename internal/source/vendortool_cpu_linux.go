//go:build linux

// CPU vendor tool tier for Linux — drives lm-sensors in JSON mode
// (`sensors -j`), which newer installs expose as structured management
// output. Sits between the native sysfs tier and the plain-text scrape.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// CPUVendorTier parses `sensors -j` output for CPU thermal features.
type CPUVendorTier struct{}

// NewCPUVendorTier returns the sensors JSON tier.
func NewCPUVendorTier() *CPUVendorTier { return &CPUVendorTier{} }

// Name returns the tier identifier.
func (t *CPUVendorTier) Name() string { return "sensors-json/cpu" }

// Read runs `sensors -j` and extracts CPU temperature inputs.
func (t *CPUVendorTier) Read(ctx context.Context) (map[string]float64, error) {
	out, err := exec.CommandContext(ctx, "sensors", "-j").Output()
	if err != nil {
		return nil, fmt.Errorf("sensors -j: %w", err)
	}
	return parseSensorsJSON(out, cpuSensorKeys)
}

// parseSensorsJSON walks the chip → label → feature structure emitted by
// `sensors -j` and keeps *_input values whose chip or label matches the
// given keys.
func parseSensorsJSON(data []byte, keys []string) (map[string]float64, error) {
	var chips map[string]json.RawMessage
	if err := json.Unmarshal(data, &chips); err != nil {
		return nil, fmt.Errorf("parsing sensors JSON: %w", err)
	}

	temps := make(map[string]float64)
	for chip, rawFeatures := range chips {
		var features map[string]json.RawMessage
		if err := json.Unmarshal(rawFeatures, &features); err != nil {
			continue
		}
		chipMatches := matchesSensor(strings.ToLower(chip), keys)
		for label, rawFields := range features {
			if !chipMatches && !matchesSensor(strings.ToLower(label), keys) {
				continue
			}
			var fields map[string]float64
			if err := json.Unmarshal(rawFields, &fields); err != nil {
				continue // "Adapter" and other string-valued entries
			}
			for field, v := range fields {
				if !strings.HasSuffix(field, "_input") || !isValidTemperature(v) {
					continue
				}
				if prev, ok := temps[label]; !ok || v > prev {
					temps[label] = v
				}
			}
		}
	}
	return temps, nil
}

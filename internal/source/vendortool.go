// Vendor management tool tier — shells out to nvidia-smi for GPU
// temperatures. This is the tier-2 fallback when no OS sensor matches;
// the tool being absent is an expected miss, not an error worth logging
// above debug.
package source

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// NvidiaSMITier reads per-device GPU temperatures via nvidia-smi.
type NvidiaSMITier struct{}

// NewNvidiaSMITier returns the nvidia-smi temperature tier.
func NewNvidiaSMITier() *NvidiaSMITier { return &NvidiaSMITier{} }

// Name returns the tier identifier.
func (t *NvidiaSMITier) Name() string { return "nvidia-smi" }

// Read queries one temperature per device. Each output line corresponds to
// one GPU, in index order.
func (t *NvidiaSMITier) Read(ctx context.Context) (map[string]float64, error) {
	out, err := exec.CommandContext(ctx, "nvidia-smi",
		"--query-gpu=temperature.gpu", "--format=csv,noheader,nounits").Output()
	if err != nil {
		return nil, fmt.Errorf("nvidia-smi: %w", err)
	}

	temps := make(map[string]float64)
	for i, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		v, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
		if err != nil || !isValidTemperature(v) {
			continue
		}
		temps[fmt.Sprintf("GPU %d", i)] = v
	}
	return temps, nil
}

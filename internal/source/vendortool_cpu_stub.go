//go:build !linux && !windows

// No CPU vendor management tool is wired up for this platform; the chain
// skips straight from host sensors to the utility tier.
package source

import (
	"context"
	"errors"
)

// CPUVendorTier is unavailable on this platform.
type CPUVendorTier struct{}

// NewCPUVendorTier returns the stub vendor tier.
func NewCPUVendorTier() *CPUVendorTier { return &CPUVendorTier{} }

// Name returns the tier identifier.
func (t *CPUVendorTier) Name() string { return "vendor-stub/cpu" }

// Read always reports the tier unavailable.
func (t *CPUVendorTier) Read(ctx context.Context) (map[string]float64, error) {
	return nil, errors.New("no cpu vendor tool on this platform")
}

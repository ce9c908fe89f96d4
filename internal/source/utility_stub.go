//go:build !linux && !windows

// Stub utility tier for platforms without a usable text-parsing fallback.
// The chain treats the miss like any other unavailable tier.
package source

import (
	"context"
	"errors"
)

// errNoUtility marks the utility tier as absent on this platform.
var errNoUtility = errors.New("no utility temperature probe on this platform")

// UtilityTier is unavailable on this platform.
type UtilityTier struct {
	domain string
}

// NewCPUUtilityTier returns the stub utility tier.
func NewCPUUtilityTier() *UtilityTier { return &UtilityTier{domain: "cpu"} }

// NewGPUUtilityTier returns the stub utility tier.
func NewGPUUtilityTier() *UtilityTier { return &UtilityTier{domain: "gpu"} }

// Name returns the tier identifier.
func (t *UtilityTier) Name() string { return "utility-stub/" + t.domain }

// Read always reports the tier unavailable.
func (t *UtilityTier) Read(ctx context.Context) (map[string]float64, error) {
	return nil, errNoUtility
}

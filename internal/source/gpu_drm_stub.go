//go:build !linux

// The DRM subsystem is Linux-only; elsewhere the source never probes
// successfully and the monitor falls through to the next adapter.
package source

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/hwpulse/hwpulse/internal/model"
)

// DRMSource is unavailable off Linux.
type DRMSource struct{}

// NewDRMSource returns the stub DRM source.
func NewDRMSource(logger *zap.Logger) *DRMSource { return &DRMSource{} }

// Name returns the source identifier.
func (s *DRMSource) Name() string { return "drm-sysfs" }

// Probe always fails on this platform.
func (s *DRMSource) Probe() bool { return false }

// Devices returns no devices.
func (s *DRMSource) Devices() []model.DeviceIdentity { return nil }

// Read always fails on this platform.
func (s *DRMSource) Read(ctx context.Context, index int) (GPUReading, error) {
	return GPUReading{}, errors.New("drm: not supported on this platform")
}

// Close is a no-op.
func (s *DRMSource) Close() {}

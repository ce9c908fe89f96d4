//go:build linux

// Cross-vendor sysfs source — walks /sys/class/drm for GPU cards and reads
// whatever the driver exposes: amdgpu publishes VRAM counters and a busy
// percentage, most drivers publish a hwmon temperature. Devices that
// expose nothing but their existence still enumerate, with unknown metrics.
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hwpulse/hwpulse/internal/model"
)

const drmRoot = "/sys/class/drm"

// cardDirPattern matches top-level card entries (card0, card1), excluding
// connector entries like card0-HDMI-A-1.
var cardDirPattern = regexp.MustCompile(`^card[0-9]+$`)

// DRMSource enumerates GPUs from the DRM subsystem.
type DRMSource struct {
	root    string
	devices []model.DeviceIdentity
	paths   []string
	logger  *zap.Logger
}

// NewDRMSource creates the sysfs DRM source rooted at /sys/class/drm.
func NewDRMSource(logger *zap.Logger) *DRMSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DRMSource{root: drmRoot, logger: logger}
}

// Name returns the source identifier.
func (s *DRMSource) Name() string { return "drm-sysfs" }

// Probe enumerates card directories. Cards without a device/ link are
// virtual (vgem etc.) and skipped.
func (s *DRMSource) Probe() bool {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return false
	}

	for _, e := range entries {
		if !cardDirPattern.MatchString(e.Name()) {
			continue
		}
		cardPath := filepath.Join(s.root, e.Name())
		devPath := filepath.Join(cardPath, "device")
		if _, err := os.Stat(devPath); err != nil {
			continue
		}
		idx, _ := strconv.Atoi(strings.TrimPrefix(e.Name(), "card"))
		s.devices = append(s.devices, model.DeviceIdentity{
			Index: idx,
			Name:  drmDeviceName(devPath),
			UUID:  model.UnknownDeviceUUID,
		})
		s.paths = append(s.paths, devPath)
	}
	return len(s.devices) > 0
}

// Devices returns the identities enumerated by Probe.
func (s *DRMSource) Devices() []model.DeviceIdentity { return s.devices }

// Read gathers whatever sysfs attributes the card's driver exposes.
func (s *DRMSource) Read(ctx context.Context, index int) (GPUReading, error) {
	pos := -1
	for i, d := range s.devices {
		if d.Index == index {
			pos = i
			break
		}
	}
	if pos < 0 {
		return GPUReading{}, fmt.Errorf("drm: no card with index %d", index)
	}
	devPath := s.paths[pos]

	r := GPUReading{
		Utilization: model.Unknown(),
		Temperature: model.Unknown(),
	}

	// amdgpu busy percentage
	if v, err := readSysfsUint(filepath.Join(devPath, "gpu_busy_percent")); err == nil {
		r.Utilization = model.Valid(float64(v))
	}

	// amdgpu VRAM counters (bytes in sysfs, MB in the reading)
	if total, err := readSysfsUint(filepath.Join(devPath, "mem_info_vram_total")); err == nil {
		r.MemoryTotal = total / (1024 * 1024)
		if used, err := readSysfsUint(filepath.Join(devPath, "mem_info_vram_used")); err == nil {
			r.MemoryUsed = used / (1024 * 1024)
			if r.MemoryTotal >= r.MemoryUsed {
				r.MemoryFree = r.MemoryTotal - r.MemoryUsed
			}
		}
	}

	// hwmon temperature (millidegrees)
	if t, ok := readHwmonTemp(devPath); ok {
		r.Temperature = model.Valid(t)
	}

	return r, nil
}

// Close is a no-op; sysfs reads hold no handles between calls.
func (s *DRMSource) Close() {}

// drmDeviceName derives a display name from the device's uevent DRIVER
// line, falling back to the PCI vendor/device id pair.
func drmDeviceName(devPath string) string {
	if data, err := os.ReadFile(filepath.Join(devPath, "uevent")); err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			if driver, ok := strings.CutPrefix(line, "DRIVER="); ok && driver != "" {
				return driver + " GPU"
			}
		}
	}
	vendor, verr := os.ReadFile(filepath.Join(devPath, "vendor"))
	device, derr := os.ReadFile(filepath.Join(devPath, "device"))
	if verr == nil && derr == nil {
		return fmt.Sprintf("GPU %s:%s",
			strings.TrimSpace(string(vendor)), strings.TrimSpace(string(device)))
	}
	return model.UnknownDeviceName
}

// readHwmonTemp finds the first hwmon temp input under the device and
// converts millidegrees to °C.
func readHwmonTemp(devPath string) (float64, bool) {
	matches, _ := filepath.Glob(filepath.Join(devPath, "hwmon", "hwmon*", "temp*_input"))
	for _, m := range matches {
		if v, err := readSysfsUint(m); err == nil {
			t := float64(v) / 1000
			if isValidTemperature(t) {
				return t, true
			}
		}
	}
	return 0, false
}

// readSysfsUint reads a single unsigned integer attribute.
func readSysfsUint(path string) (uint64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
}

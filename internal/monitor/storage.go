// Storage monitor — volume usage, cumulative IO counters, best-effort
// SMART diagnostics, and a per-volume file write/read speed test.
//
// The mounted-volume list is enumerated once at construction: mount
// changes are rare relative to poll cadence, so the staleness is
// acceptable by design, and it keeps every later query cheap.
package monitor

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
	"go.uber.org/zap"

	"github.com/hwpulse/hwpulse/internal/model"
)

// pseudoFSTypes contains filesystem types excluded from volume metrics.
// These are virtual/system filesystems and network/remote filesystems that
// don't represent local storage devices.
var pseudoFSTypes = map[string]bool{
	// Virtual / system filesystems
	"devfs":         true,
	"autofs":        true,
	"nullfs":        true,
	"tmpfs":         true,
	"sysfs":         true,
	"proc":          true,
	"procfs":        true,
	"devtmpfs":      true,
	"cgroup":        true,
	"cgroup2":       true,
	"overlay":       true,
	"squashfs":      true,
	"fuse.snapfuse": true,
	"nsfs":          true,
	"pstore":        true,
	"debugfs":       true,
	"tracefs":       true,
	"securityfs":    true,
	"configfs":      true,
	"fusectl":       true,
	"mqueue":        true,
	"hugetlbfs":     true,
	"binfmt_misc":   true,
	"efivarfs":      true,
	"bpf":           true,
	"ramfs":         true,

	// Network / remote filesystems
	"nfs":           true,
	"nfs4":          true,
	"cifs":          true,
	"smbfs":         true,
	"fuse.sshfs":    true,
	"fuse.rclone":   true,
	"9p":            true,
	"afs":           true,
	"ncpfs":         true,
	"glusterfs":     true,
	"lustre":        true,
	"ceph":          true,
	"fuse.ceph":     true,
	"gpfs":          true,
	"pvfs2":         true,
	"fuse.s3fs":     true,
	"fuse.gcsfuse":  true,
	"fuse.blobfuse": true,
	"davfs2":        true,
}

// isSystemMount returns true for mount points that are macOS system
// volumes or other OS-internal paths that shouldn't be reported.
func isSystemMount(mount string) bool {
	systemPrefixes := []string{
		"/System/Volumes/",
		"/private/var/vm",
	}
	for _, prefix := range systemPrefixes {
		if strings.HasPrefix(mount, prefix) {
			return true
		}
	}
	return false
}

// usageFunc matches disk.UsageWithContext; injectable for tests.
type usageFunc func(ctx context.Context, path string) (*disk.UsageStat, error)

// StorageMonitor owns all storage-domain telemetry. Not safe for
// concurrent use.
type StorageMonitor struct {
	partitions []disk.PartitionStat
	usage      usageFunc
	logger     *zap.Logger
}

// StorageOption customizes monitor construction.
type StorageOption func(*StorageMonitor)

// WithPartitions overrides mount enumeration (used by tests).
func WithPartitions(parts []disk.PartitionStat) StorageOption {
	return func(m *StorageMonitor) { m.partitions = parts }
}

// WithUsageFunc overrides the per-volume usage lookup (used by tests).
func WithUsageFunc(fn usageFunc) StorageOption {
	return func(m *StorageMonitor) { m.usage = fn }
}

// NewStorage constructs the storage monitor, enumerating mounted volumes
// once. Enumeration failure degrades to an empty volume list.
func NewStorage(logger *zap.Logger, opts ...StorageOption) *StorageMonitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &StorageMonitor{usage: disk.UsageWithContext, logger: logger}
	for _, opt := range opts {
		opt(m)
	}

	if m.partitions == nil {
		parts, err := disk.Partitions(false)
		if err != nil {
			logger.Warn("Volume enumeration failed, storage monitor degraded", zap.Error(err))
			parts = nil
		}
		for _, p := range parts {
			if pseudoFSTypes[p.Fstype] || isSystemMount(p.Mountpoint) {
				continue
			}
			m.partitions = append(m.partitions, p)
		}
	}
	return m
}

// Volumes returns the mount points enumerated at construction.
func (m *StorageMonitor) Volumes() []string {
	mounts := make([]string, len(m.partitions))
	for i, p := range m.partitions {
		mounts[i] = p.Mountpoint
	}
	return mounts
}

// VolumeUsage returns usage for each enumerated volume, preserving
// enumeration order. Volumes whose usage lookup fails — locked media,
// permission walls, vanished mounts — are skipped silently; siblings are
// unaffected.
func (m *StorageMonitor) VolumeUsage(ctx context.Context) []model.VolumeSample {
	var out []model.VolumeSample
	for _, p := range m.partitions {
		usage, err := m.usage(ctx, p.Mountpoint)
		if err != nil {
			m.logger.Debug("Skipping inaccessible volume",
				zap.String("mount", p.Mountpoint),
				zap.Error(err))
			continue
		}
		if usage.Total == 0 {
			continue
		}
		s := model.VolumeSample{
			Device:      p.Device,
			Mountpoint:  p.Mountpoint,
			Fstype:      p.Fstype,
			Total:       usage.Total,
			Used:        usage.Used,
			Free:        usage.Free,
			UsedPercent: usage.UsedPercent,
		}
		s.Sanitize()
		out = append(out, s)
	}
	return out
}

// IOCounters returns cumulative-since-boot IO totals per block device.
// Rate computation is a caller concern. Returns an empty map on failure.
func (m *StorageMonitor) IOCounters(ctx context.Context) map[string]model.IOCounters {
	counters, err := disk.IOCountersWithContext(ctx)
	if err != nil {
		m.logger.Warn("IO counters read failed", zap.Error(err))
		return map[string]model.IOCounters{}
	}

	out := make(map[string]model.IOCounters, len(counters))
	for dev, c := range counters {
		out[dev] = model.IOCounters{
			ReadBytes:   c.ReadBytes,
			WriteBytes:  c.WriteBytes,
			ReadOps:     c.ReadCount,
			WriteOps:    c.WriteCount,
			ReadTimeMs:  c.ReadTime,
			WriteTimeMs: c.WriteTime,
		}
	}
	return out
}

// smartOutput is the subset of `smartctl -a -j` output we report.
type smartOutput struct {
	SmartStatus struct {
		Passed bool `json:"passed"`
	} `json:"smart_status"`
	Temperature struct {
		Current int `json:"current"`
	} `json:"temperature"`
	PowerOnTime struct {
		Hours int `json:"hours"`
	} `json:"power_on_time"`
}

// SMARTInfo queries smartctl for each distinct physical device behind the
// enumerated volumes. With smartmontools absent every device reports a
// structured not-supported marker; a device-level tool failure reports a
// per-device failed marker. Nothing here ever raises to the caller.
func (m *StorageMonitor) SMARTInfo(ctx context.Context) map[string]model.SMARTStatus {
	devices := m.physicalDevices()
	out := make(map[string]model.SMARTStatus, len(devices))

	smartctl, lookErr := exec.LookPath("smartctl")
	for _, dev := range devices {
		if lookErr != nil {
			out[dev] = model.SMARTStatus{Device: dev, Supported: false, Err: "smartctl not installed"}
			continue
		}

		raw, err := exec.CommandContext(ctx, smartctl, "-a", "-j", dev).Output()
		if err != nil {
			// smartctl exits non-zero for failing drives but still emits
			// JSON; only treat an empty answer as a tool failure.
			if len(raw) == 0 {
				out[dev] = model.SMARTStatus{
					Device:    dev,
					Supported: true,
					Err:       fmt.Sprintf("smartctl failed: %v", err),
				}
				continue
			}
		}

		var parsed smartOutput
		if err := json.Unmarshal(raw, &parsed); err != nil {
			out[dev] = model.SMARTStatus{
				Device:    dev,
				Supported: true,
				Err:       fmt.Sprintf("unparseable smartctl output: %v", err),
			}
			continue
		}
		out[dev] = model.SMARTStatus{
			Device:       dev,
			Supported:    true,
			Healthy:      parsed.SmartStatus.Passed,
			Temperature:  parsed.Temperature.Current,
			PowerOnHours: parsed.PowerOnTime.Hours,
		}
	}
	return out
}

// nvmePartition strips the pN suffix from an NVMe namespace partition.
var nvmePartition = regexp.MustCompile(`^(/dev/nvme[0-9]+n[0-9]+)p[0-9]+$`)

// trailingDigits strips the partition number from classic device names.
var trailingDigits = regexp.MustCompile(`^(/dev/[a-z]+)[0-9]+$`)

// physicalDevice maps a partition device name to its physical parent:
// /dev/sda1 → /dev/sda, /dev/nvme0n1p2 → /dev/nvme0n1, C:\ → C:.
func physicalDevice(dev string) string {
	if len(dev) >= 2 && dev[1] == ':' {
		return dev[:2]
	}
	if m := nvmePartition.FindStringSubmatch(dev); m != nil {
		return m[1]
	}
	if m := trailingDigits.FindStringSubmatch(dev); m != nil {
		return m[1]
	}
	return dev
}

// physicalDevices derives the deduplicated physical device list from the
// enumerated partitions, preserving first-seen order.
func (m *StorageMonitor) physicalDevices() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range m.partitions {
		if p.Device == "" {
			continue
		}
		dev := physicalDevice(p.Device)
		if seen[dev] {
			continue
		}
		seen[dev] = true
		out = append(out, dev)
	}
	return out
}

// RunSpeedTest benchmarks each writable volume: a temporary file of random
// bytes is written and synced, read back, and removed unconditionally even
// when the read fails — no test artifacts survive. Volumes where file
// creation fails (read-only, no permission) are skipped. Blocks for the
// whole transfer; cancellation is not supported.
func (m *StorageMonitor) RunSpeedTest(ctx context.Context, sizeMB int) map[string]model.BenchmarkResult {
	results := make(map[string]model.BenchmarkResult)
	if sizeMB <= 0 {
		return results
	}

	payload := make([]byte, sizeMB*1024*1024)
	if _, err := rand.Read(payload); err != nil {
		m.logger.Warn("Speed test payload generation failed", zap.Error(err))
		return results
	}

	for _, p := range m.partitions {
		result, err := m.speedTestVolume(p.Mountpoint, payload)
		if err != nil {
			m.logger.Debug("Skipping volume for speed test",
				zap.String("mount", p.Mountpoint),
				zap.Error(err))
			continue
		}
		results[p.Device] = result
	}
	return results
}

// speedTestVolume runs the timed write/read cycle on one volume.
func (m *StorageMonitor) speedTestVolume(mount string, payload []byte) (model.BenchmarkResult, error) {
	f, err := os.CreateTemp(mount, "hwpulse-disktest-*.tmp")
	if err != nil {
		return model.BenchmarkResult{}, err
	}
	path := f.Name()
	defer os.Remove(path)

	sizeMB := float64(len(payload)) / (1024 * 1024)

	start := time.Now()
	_, werr := f.Write(payload)
	if werr == nil {
		werr = f.Sync()
	}
	writeSecs := time.Since(start).Seconds()
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return model.BenchmarkResult{}, fmt.Errorf("write phase: %w", werr)
	}

	// Ask the kernel to drop the file from page cache so the read phase
	// measures the device, not memory. Best effort, Linux only.
	dropFileCache(path)

	start = time.Now()
	data, rerr := os.ReadFile(path)
	readSecs := time.Since(start).Seconds()
	if rerr != nil {
		return model.BenchmarkResult{}, fmt.Errorf("read phase: %w", rerr)
	}
	if len(data) != len(payload) {
		return model.BenchmarkResult{}, fmt.Errorf("read phase: short read, %d of %d bytes", len(data), len(payload))
	}

	if writeSecs <= 0 || readSecs <= 0 {
		return model.BenchmarkResult{}, fmt.Errorf("timer resolution too coarse for %v MB", sizeMB)
	}
	return model.NewBenchmarkResult(sizeMB/readSecs, sizeMB/writeSecs), nil
}

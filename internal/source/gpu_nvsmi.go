// NVIDIA vendor tool source — drives nvidia-smi in CSV query mode. This is
// the highest-priority GPU source: it sees utilization, memory, and
// temperature per device, and its device list carries real names and UUIDs.
package source

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hwpulse/hwpulse/internal/model"
)

// NvidiaSMISource enumerates and reads NVIDIA devices via nvidia-smi.
type NvidiaSMISource struct {
	devices []model.DeviceIdentity
	logger  *zap.Logger
}

// NewNvidiaSMISource creates the nvidia-smi source. Probe must be called
// before Read.
func NewNvidiaSMISource(logger *zap.Logger) *NvidiaSMISource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NvidiaSMISource{logger: logger}
}

// Name returns the source identifier.
func (s *NvidiaSMISource) Name() string { return "nvidia-smi" }

// Probe checks for the tool and enumerates devices. Any failure means the
// source is unavailable on this machine.
func (s *NvidiaSMISource) Probe() bool {
	if _, err := exec.LookPath("nvidia-smi"); err != nil {
		return false
	}
	out, err := exec.Command("nvidia-smi",
		"--query-gpu=index,name,uuid", "--format=csv,noheader").Output()
	if err != nil {
		s.logger.Debug("nvidia-smi present but enumeration failed", zap.Error(err))
		return false
	}

	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		fields := strings.Split(line, ", ")
		if len(fields) < 3 {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			continue
		}
		s.devices = append(s.devices, model.DeviceIdentity{
			Index: idx,
			Name:  strings.TrimSpace(fields[1]),
			UUID:  strings.TrimSpace(fields[2]),
		})
	}
	return len(s.devices) > 0
}

// Devices returns the identities enumerated by Probe.
func (s *NvidiaSMISource) Devices() []model.DeviceIdentity { return s.devices }

// Read queries utilization, memory, and temperature for one device.
// Fields nvidia-smi reports as "[N/A]" come back as unknown Readings.
func (s *NvidiaSMISource) Read(ctx context.Context, index int) (GPUReading, error) {
	out, err := exec.CommandContext(ctx, "nvidia-smi",
		"-i", strconv.Itoa(index),
		"--query-gpu=utilization.gpu,memory.total,memory.used,memory.free,temperature.gpu",
		"--format=csv,noheader,nounits").Output()
	if err != nil {
		return GPUReading{}, fmt.Errorf("nvidia-smi query (gpu %d): %w", index, err)
	}

	fields := strings.Split(strings.TrimSpace(string(out)), ", ")
	if len(fields) < 5 {
		return GPUReading{}, fmt.Errorf("nvidia-smi query (gpu %d): short output %q", index, out)
	}

	r := GPUReading{
		Utilization: parseReading(fields[0]),
		MemoryTotal: parseMB(fields[1]),
		MemoryUsed:  parseMB(fields[2]),
		MemoryFree:  parseMB(fields[3]),
		Temperature: parseReading(fields[4]),
	}
	return r, nil
}

// Close is a no-op; nvidia-smi holds no persistent session.
func (s *NvidiaSMISource) Close() {}

// parseReading converts one CSV field to a Reading; "[N/A]" and garbage
// parse to Unknown.
func parseReading(field string) model.Reading {
	v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil {
		return model.Unknown()
	}
	return model.Valid(v)
}

// parseMB converts one CSV memory field (already in MB with nounits) to an
// integer MB count, 0 on failure.
func parseMB(field string) uint64 {
	v, err := strconv.ParseUint(strings.TrimSpace(field), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

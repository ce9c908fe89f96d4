// Package model defines the telemetry data structures shared by all domain
// monitors. These are the only types that cross the monitor boundary to
// presentation and report consumers; every numeric field is a plain float or
// integer in documented units (percent 0–100, bytes or MB, °C, MB/s).
package model

import "time"

// Reading is a tri-state metric value. Known distinguishes a genuine zero
// reading from "no data available": a true 0°C is {0, true}, an exhausted
// fallback chain yields {0, false}.
type Reading struct {
	Value float64 `json:"value"`
	Known bool    `json:"known"`
}

// Valid returns a Reading carrying a real measured value.
func Valid(v float64) Reading {
	return Reading{Value: v, Known: true}
}

// Unknown returns the "no real data" sentinel Reading.
func Unknown() Reading {
	return Reading{}
}

// CPUInfo holds facts about the processor that do not change for the
// lifetime of the process. Fields that could not be determined are left at
// their zero value; partial population is expected on exotic platforms.
type CPUInfo struct {
	Model         string  `json:"model"`
	Architecture  string  `json:"architecture"`
	PhysicalCores int     `json:"cores_physical"`
	LogicalCores  int     `json:"cores_logical"`
	MaxFreqMHz    float64 `json:"frequency_max"`
	CurFreqMHz    float64 `json:"frequency_current"`
}

// CPUSample is a point-in-time snapshot of processor load.
type CPUSample struct {
	Timestamp time.Time `json:"timestamp"`
	Overall   float64   `json:"overall"`
	Cores     []float64 `json:"cores"`
}

// TemperatureSet holds the outcome of one pass over a temperature fallback
// chain. Available is false only when every tier failed; Source names the
// tier that produced the readings.
type TemperatureSet struct {
	Sensors   map[string]float64 `json:"sensors"`
	Source    string             `json:"source,omitempty"`
	Available bool               `json:"available"`
}

// DeviceIdentity identifies one GPU. A device found through a source that
// cannot name it carries the explicit placeholder values rather than
// missing fields.
type DeviceIdentity struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	UUID  string `json:"uuid"`
}

// Placeholder identity values for devices detected through sources that
// expose no naming (e.g. a bare thermal sensor).
const (
	UnknownDeviceName = "Unknown GPU"
	UnknownDeviceUUID = "N/A"
)

// GPUSample is a point-in-time snapshot of one GPU. Memory figures are in
// MB. Load and Temperature are Readings so that a sensor gap is
// distinguishable from a real zero.
type GPUSample struct {
	Device      DeviceIdentity `json:"device"`
	Load        Reading        `json:"load"`
	MemoryTotal uint64         `json:"total_memory"`
	MemoryUsed  uint64         `json:"used_memory"`
	MemoryFree  uint64         `json:"free_memory"`
	Temperature Reading        `json:"temperature"`
	Timestamp   time.Time      `json:"timestamp"`
}

// MemoryUsedPercent derives the memory utilization percentage, or 0 when
// total is unknown.
func (s GPUSample) MemoryUsedPercent() float64 {
	if s.MemoryTotal == 0 {
		return 0
	}
	return ClampPercent(float64(s.MemoryUsed) / float64(s.MemoryTotal) * 100)
}

// MemorySample is a point-in-time snapshot of physical memory and swap.
// Byte fields are raw bytes; Cached and Buffers stay 0 where the OS does
// not expose them.
type MemorySample struct {
	Timestamp   time.Time `json:"timestamp"`
	Total       uint64    `json:"total"`
	Available   uint64    `json:"available"`
	Used        uint64    `json:"used"`
	Free        uint64    `json:"free"`
	UsedPercent float64   `json:"percent"`
	Cached      uint64    `json:"cached"`
	Buffers     uint64    `json:"buffers"`
	SwapTotal   uint64    `json:"swap_total"`
	SwapUsed    uint64    `json:"swap_used"`
	SwapFree    uint64    `json:"swap_free"`
	SwapPercent float64   `json:"swap_percent"`
}

// VolumeSample is usage for a single mounted volume.
type VolumeSample struct {
	Device      string  `json:"device"`
	Mountpoint  string  `json:"mountpoint"`
	Fstype      string  `json:"fstype"`
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	Free        uint64  `json:"free"`
	UsedPercent float64 `json:"percent"`
}

// IOCounters holds cumulative-since-boot IO totals for one block device.
// Rates are a caller concern (delta between two calls over elapsed time).
type IOCounters struct {
	ReadBytes   uint64 `json:"read_bytes"`
	WriteBytes  uint64 `json:"write_bytes"`
	ReadOps     uint64 `json:"read_count"`
	WriteOps    uint64 `json:"write_count"`
	ReadTimeMs  uint64 `json:"read_time"`
	WriteTimeMs uint64 `json:"write_time"`
}

// SMARTStatus is the best-effort diagnostic result for one physical device.
// Supported=false means the platform or tooling cannot provide SMART data
// at all; Err is set when the tool ran but failed.
type SMARTStatus struct {
	Device       string `json:"device"`
	Supported    bool   `json:"supported"`
	Healthy      bool   `json:"healthy"`
	Temperature  int    `json:"temperature"`
	PowerOnHours int    `json:"power_on_hours"`
	Err          string `json:"error,omitempty"`
}

// BenchmarkResult holds one micro-benchmark outcome in MB/s. Composite is
// always the mean of the read and write figures.
type BenchmarkResult struct {
	ReadMBps      float64 `json:"read_speed"`
	WriteMBps     float64 `json:"write_speed"`
	CompositeMBps float64 `json:"total_speed"`
}

// NewBenchmarkResult derives the composite score from the two throughputs.
func NewBenchmarkResult(readMBps, writeMBps float64) BenchmarkResult {
	return BenchmarkResult{
		ReadMBps:      readMBps,
		WriteMBps:     writeMBps,
		CompositeMBps: (readMBps + writeMBps) / 2,
	}
}

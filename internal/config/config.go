// Package config handles configuration loading from YAML files and environment variables.
// Configuration precedence: environment variables > config file > defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a wrapper around time.Duration that supports YAML unmarshaling
// from human-readable strings like "500ms", "1s", "1m".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		parsed, err := time.ParseDuration(value.Value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value.Value, err)
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("unsupported duration format: %v", value.Kind)
	}
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Config holds all hwpulse configuration.
type Config struct {
	Sample  SampleConfig  `yaml:"sample"`
	GPU     GPUConfig     `yaml:"gpu"`
	Bench   BenchConfig   `yaml:"bench"`
	Logging LoggingConfig `yaml:"logging"`
}

// SampleConfig holds snapshot loop settings.
type SampleConfig struct {
	Interval Duration `yaml:"interval"`
}

// GPUConfig holds GPU monitor settings.
type GPUConfig struct {
	// UpdateInterval is the minimum spacing between real hardware polls;
	// faster queries are served from the last-known-good cache.
	UpdateInterval Duration `yaml:"update_interval"`
}

// BenchConfig holds micro-benchmark settings.
type BenchConfig struct {
	CPUDuration Duration `yaml:"cpu_duration"`
	RAMSizeMB   int      `yaml:"ram_size_mb"`
	DiskSizeMB  int      `yaml:"disk_size_mb"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Sample: SampleConfig{
			Interval: Duration{1 * time.Second},
		},
		GPU: GPUConfig{
			UpdateInterval: Duration{500 * time.Millisecond},
		},
		Bench: BenchConfig{
			CPUDuration: Duration{1 * time.Second},
			RAMSizeMB:   100,
			DiskSizeMB:  100,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromBytes parses YAML configuration from a byte slice and merges with defaults.
// Environment variables take highest precedence and override values from the byte slice.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config data: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads configuration from a YAML file and merges with defaults.
// If path is empty or the file does not exist, only defaults and environment
// variables are used.
func Load(path string) (*Config, error) {
	if path == "" {
		return LoadFromBytes(nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// File doesn't exist — use defaults + env overrides
		return LoadFromBytes(nil)
	}

	return LoadFromBytes(data)
}

// Locate searches standard config file paths and returns the first one found.
// Returns empty string if no config file exists.
func Locate() string {
	candidates := configSearchPaths()
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables have the highest precedence.
func applyEnvOverrides(cfg *Config) {
	if interval := os.Getenv("HW_SAMPLE_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			cfg.Sample.Interval = Duration{d}
		}
	}
	if interval := os.Getenv("HW_GPU_UPDATE_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			cfg.GPU.UpdateInterval = Duration{d}
		}
	}
	if size := os.Getenv("HW_BENCH_RAM_MB"); size != "" {
		if n, err := strconv.Atoi(size); err == nil {
			cfg.Bench.RAMSizeMB = n
		}
	}
	if size := os.Getenv("HW_BENCH_DISK_MB"); size != "" {
		if n, err := strconv.Atoi(size); err == nil {
			cfg.Bench.DiskSizeMB = n
		}
	}
	if level := os.Getenv("HW_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Sample.Interval.Duration <= 0 {
		return fmt.Errorf("sample interval must be positive, got %v", c.Sample.Interval.Duration)
	}
	if c.GPU.UpdateInterval.Duration <= 0 {
		return fmt.Errorf("gpu update interval must be positive, got %v", c.GPU.UpdateInterval.Duration)
	}
	if c.Bench.CPUDuration.Duration <= 0 {
		return fmt.Errorf("cpu benchmark duration must be positive, got %v", c.Bench.CPUDuration.Duration)
	}
	if c.Bench.RAMSizeMB <= 0 || c.Bench.DiskSizeMB <= 0 {
		return fmt.Errorf("benchmark sizes must be positive, got ram=%d disk=%d",
			c.Bench.RAMSizeMB, c.Bench.DiskSizeMB)
	}
	return nil
}

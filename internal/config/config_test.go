package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Sample.Interval.Duration != time.Second {
		t.Errorf("Sample.Interval = %v, want 1s default", cfg.Sample.Interval.Duration)
	}
	if cfg.GPU.UpdateInterval.Duration != 500*time.Millisecond {
		t.Errorf("GPU.UpdateInterval = %v, want 500ms default", cfg.GPU.UpdateInterval.Duration)
	}
	if cfg.Bench.RAMSizeMB != 100 || cfg.Bench.DiskSizeMB != 100 {
		t.Errorf("Bench sizes = %d/%d, want 100/100", cfg.Bench.RAMSizeMB, cfg.Bench.DiskSizeMB)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("gpu:\n  update_interval: \"2s\"\nbench:\n  ram_size_mb: 25\n")
	if err := os.WriteFile(path, data, 0640); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GPU.UpdateInterval.Duration != 2*time.Second {
		t.Errorf("GPU.UpdateInterval = %v, want file value 2s", cfg.GPU.UpdateInterval.Duration)
	}
	if cfg.Bench.RAMSizeMB != 25 {
		t.Errorf("Bench.RAMSizeMB = %d, want file value 25", cfg.Bench.RAMSizeMB)
	}
	// Untouched keys keep their defaults.
	if cfg.Sample.Interval.Duration != time.Second {
		t.Errorf("Sample.Interval = %v, want default 1s", cfg.Sample.Interval.Duration)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("sample:\n  interval: \"5s\"\n"), 0640); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HW_SAMPLE_INTERVAL", "250ms")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Sample.Interval.Duration != 250*time.Millisecond {
		t.Errorf("Sample.Interval = %v, want env override 250ms", cfg.Sample.Interval.Duration)
	}
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Bench.CPUDuration.Duration != time.Second {
		t.Errorf("Bench.CPUDuration = %v, want default 1s", cfg.Bench.CPUDuration.Duration)
	}
}

func TestLoadFromBytes_InvalidDuration(t *testing.T) {
	if _, err := LoadFromBytes([]byte("sample:\n  interval: \"not-a-duration\"\n")); err == nil {
		t.Error("expected an error for an unparseable duration")
	}
}

func TestValidate_RejectsNonPositiveValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GPU.UpdateInterval = Duration{0}
	if err := cfg.Validate(); err == nil {
		t.Error("zero GPU update interval passed validation")
	}

	cfg = DefaultConfig()
	cfg.Bench.DiskSizeMB = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative disk benchmark size passed validation")
	}
}

// Package main is the entry point for hwpulse. It loads configuration,
// constructs the four domain monitors, and drives them from a fixed-interval
// timer, emitting one JSON snapshot per tick to stdout. The monitors never
// push data on their own; this loop is the single scheduling context that
// owns them.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hwpulse/hwpulse/internal/config"
	"github.com/hwpulse/hwpulse/internal/model"
	"github.com/hwpulse/hwpulse/internal/monitor"
)

var (
	// version is set at build time via -ldflags.
	version = "dev"

	configPath  = flag.String("config", "", "Path to configuration file (default: auto-discover)")
	once        = flag.Bool("once", false, "Emit a single snapshot and exit")
	runBench    = flag.Bool("bench", false, "Run all micro-benchmarks and exit")
	showVersion = flag.Bool("version", false, "Show version and exit")
)

// snapshot is one emitted line: the state of all four domains at one tick.
type snapshot struct {
	Timestamp time.Time            `json:"timestamp"`
	CPU       model.CPUSample      `json:"cpu"`
	CPUTemps  model.TemperatureSet `json:"cpu_temps"`
	GPUs      []model.GPUSample    `json:"gpus"`
	Memory    model.MemorySample   `json:"memory"`
	Volumes   []model.VolumeSample `json:"volumes"`
}

// benchReport is the -bench output shape.
type benchReport struct {
	CPUScore float64                          `json:"cpu_score"`
	GPUScore float64                          `json:"gpu_score"`
	RAM      model.BenchmarkResult            `json:"ram"`
	Disks    map[string]model.BenchmarkResult `json:"disks"`
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("hwpulse %s\n", version)
		os.Exit(0)
	}

	path := *configPath
	if path == "" {
		path = config.Locate()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)
	defer logger.Sync()

	logger.Info("Starting hwpulse", zap.String("version", version))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Received signal, shutting down",
			zap.String("signal", sig.String()))
		cancel()
	}()

	run(ctx, cfg, logger)
	logger.Info("hwpulse stopped")
}

// run constructs the monitors and drives the selected mode. It blocks
// until the context is cancelled (or the one-shot mode finishes).
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) {
	cpuMon := monitor.NewCPU(logger)
	gpuMon := monitor.NewGPU(logger,
		monitor.WithGPUUpdateInterval(cfg.GPU.UpdateInterval.Duration))
	defer gpuMon.Close()
	ramMon := monitor.NewRAM(logger)
	storMon := monitor.NewStorage(logger)

	enc := json.NewEncoder(os.Stdout)

	if *runBench {
		report := benchReport{
			CPUScore: cpuMon.RunBenchmark(cfg.Bench.CPUDuration.Duration),
			GPUScore: gpuMon.RunBenchmark(ctx),
			RAM:      ramMon.RunSpeedTest(cfg.Bench.RAMSizeMB),
			Disks:    storMon.RunSpeedTest(ctx, cfg.Bench.DiskSizeMB),
		}
		if err := enc.Encode(report); err != nil {
			logger.Error("Failed to encode benchmark report", zap.Error(err))
		}
		return
	}

	emit := func() {
		s := snapshot{
			Timestamp: time.Now().UTC(),
			CPU:       cpuMon.Sample(ctx),
			CPUTemps:  cpuMon.Temperatures(ctx),
			GPUs:      gpuMon.Samples(ctx),
			Memory:    ramMon.Summary(ctx),
			Volumes:   storMon.VolumeUsage(ctx),
		}
		if err := enc.Encode(s); err != nil {
			logger.Error("Failed to encode snapshot", zap.Error(err))
		}
	}

	emit()
	if *once {
		return
	}

	ticker := time.NewTicker(cfg.Sample.Interval.Duration)
	defer ticker.Stop()

	logger.Info("Sampling",
		zap.Duration("interval", cfg.Sample.Interval.Duration),
		zap.Int("gpus", len(gpuMon.Devices())),
		zap.Int("volumes", len(storMon.Volumes())))

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			emit()
		}
	}
}

// initLogger creates a zap logger based on the configuration.
// It outputs to stderr (human-readable, keeping stdout free for snapshot
// data) and optionally a JSON log file.
func initLogger(cfg *config.Config) *zap.Logger {
	var level zapcore.Level
	switch cfg.Logging.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		level,
	)

	cores := []zapcore.Core{consoleCore}

	// File output (structured JSON, if configured)
	if cfg.Logging.File != "" {
		file, err := os.OpenFile(cfg.Logging.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
		if err == nil {
			fileCore := zapcore.NewCore(
				zapcore.NewJSONEncoder(encoderConfig),
				zapcore.AddSync(file),
				level,
			)
			cores = append(cores, fileCore)
		}
	}

	return zap.New(zapcore.NewTee(cores...))
}

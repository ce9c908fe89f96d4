// Package source implements the data source adapters the domain monitors
// draw from: gopsutil-backed OS sensor readers, vendor management tools
// driven over subprocess, and last-resort system utility text parsers.
// Monitors try adapters in priority order and stop at the first one that
// answers; a missing adapter is expected and silent, never an error.
package source

import (
	"context"

	"go.uber.org/zap"

	"github.com/hwpulse/hwpulse/internal/model"
)

// TemperatureTier is one step in a temperature fallback chain. Read returns
// label → °C; an empty map with a nil error counts as a miss and the chain
// moves on.
type TemperatureTier interface {
	// Name identifies the tier in logs and in TemperatureSet.Source.
	Name() string

	// Read gathers temperature readings. An error means this tier is
	// unavailable or failed; the chain treats both the same way.
	Read(ctx context.Context) (map[string]float64, error)
}

// TemperatureChain tries an ordered list of tiers and short-circuits on the
// first that produces at least one reading. Tier failures are isolated:
// one tier erroring never aborts the rest of the chain.
type TemperatureChain struct {
	tiers  []TemperatureTier
	logger *zap.Logger
}

// NewTemperatureChain builds a chain over the given tiers, highest priority
// first. A nil logger is replaced with a no-op logger.
func NewTemperatureChain(logger *zap.Logger, tiers ...TemperatureTier) *TemperatureChain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemperatureChain{tiers: tiers, logger: logger}
}

// Read walks the chain. If every tier fails or comes back empty, the result
// carries Available=false — an explicit marker distinct from a real 0°C.
func (c *TemperatureChain) Read(ctx context.Context) model.TemperatureSet {
	for _, tier := range c.tiers {
		temps, err := tier.Read(ctx)
		if err != nil {
			c.logger.Debug("Temperature tier unavailable",
				zap.String("tier", tier.Name()),
				zap.Error(err))
			continue
		}
		if len(temps) == 0 {
			c.logger.Debug("Temperature tier returned no readings",
				zap.String("tier", tier.Name()))
			continue
		}
		return model.TemperatureSet{
			Sensors:   temps,
			Source:    tier.Name(),
			Available: true,
		}
	}
	return model.TemperatureSet{Available: false}
}

// Value sanitization — clamps impossible readings before a sample is allowed
// to become a monitor's last-known-good state. Guards against driver races
// where used/free/total counters are read non-atomically.
package model

// ClampPercent forces a percentage into [0, 100].
func ClampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// SanitizeMemory reconciles a (used, free, total) triple. If used exceeds
// total it is clamped to total; if free then exceeds what remains it is
// recomputed as total − used. A zero total passes through untouched since
// nothing can be inferred from it.
func SanitizeMemory(used, free, total uint64) (sanUsed, sanFree uint64) {
	if total == 0 {
		return used, free
	}
	if used > total {
		used = total
	}
	if free > total-used {
		free = total - used
	}
	return used, free
}

// Sanitize enforces the sample invariants in place: percentages in [0, 100],
// used ≤ total, free ≤ total − used.
func (s *GPUSample) Sanitize() {
	s.MemoryUsed, s.MemoryFree = SanitizeMemory(s.MemoryUsed, s.MemoryFree, s.MemoryTotal)
	if s.Load.Known {
		s.Load.Value = ClampPercent(s.Load.Value)
	}
}

// Sanitize enforces the volume invariants in place.
func (s *VolumeSample) Sanitize() {
	s.Used, s.Free = SanitizeMemory(s.Used, s.Free, s.Total)
	s.UsedPercent = ClampPercent(s.UsedPercent)
}

// Sanitize enforces the memory invariants in place, for both physical
// memory and swap.
func (s *MemorySample) Sanitize() {
	s.Used, s.Free = SanitizeMemory(s.Used, s.Free, s.Total)
	s.SwapUsed, s.SwapFree = SanitizeMemory(s.SwapUsed, s.SwapFree, s.SwapTotal)
	s.UsedPercent = ClampPercent(s.UsedPercent)
	s.SwapPercent = ClampPercent(s.SwapPercent)
}

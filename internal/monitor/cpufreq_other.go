//go:build !linux

package monitor

// currentFreqMHz has no live frequency source off Linux; callers fall back
// to the nominal frequency.
func currentFreqMHz() (float64, bool) {
	return 0, false
}

//go:build linux

package monitor

import (
	"os"
	"strconv"
	"strings"
)

// currentFreqMHz reads the live scaling frequency of cpu0 from cpufreq
// sysfs (reported in kHz).
func currentFreqMHz() (float64, bool) {
	data, err := os.ReadFile("/sys/devices/system/cpu/cpu0/cpufreq/scaling_cur_freq")
	if err != nil {
		return 0, false
	}
	khz, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return 0, false
	}
	return khz / 1000, true
}

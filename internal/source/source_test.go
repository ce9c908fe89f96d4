package source

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

// fakeTier is a scripted TemperatureTier for chain tests.
type fakeTier struct {
	name  string
	temps map[string]float64
	err   error
	calls int
}

func (f *fakeTier) Name() string { return f.name }

func (f *fakeTier) Read(ctx context.Context) (map[string]float64, error) {
	f.calls++
	return f.temps, f.err
}

func TestTemperatureChain_FallsThroughToLastTier(t *testing.T) {
	t1 := &fakeTier{name: "one", err: errors.New("no such sensor")}
	t2 := &fakeTier{name: "two", err: errors.New("tool missing")}
	t3 := &fakeTier{name: "three", temps: map[string]float64{"Core 0": 61.5}}

	set := NewTemperatureChain(zap.NewNop(), t1, t2, t3).Read(context.Background())

	if !set.Available {
		t.Fatal("Available = false, want tier 3 to answer")
	}
	if set.Source != "three" {
		t.Errorf("Source = %q, want %q", set.Source, "three")
	}
	if set.Sensors["Core 0"] != 61.5 {
		t.Errorf("Sensors[Core 0] = %v, want 61.5", set.Sensors["Core 0"])
	}
	if t1.calls != 1 || t2.calls != 1 || t3.calls != 1 {
		t.Errorf("tier calls = %d/%d/%d, want 1/1/1", t1.calls, t2.calls, t3.calls)
	}
}

func TestTemperatureChain_ShortCircuitsOnFirstSuccess(t *testing.T) {
	t1 := &fakeTier{name: "one", temps: map[string]float64{"Package": 48}}
	t2 := &fakeTier{name: "two", temps: map[string]float64{"Package": 99}}

	set := NewTemperatureChain(zap.NewNop(), t1, t2).Read(context.Background())

	if set.Source != "one" {
		t.Errorf("Source = %q, want first tier", set.Source)
	}
	if t2.calls != 0 {
		t.Errorf("tier 2 called %d times, want short-circuit", t2.calls)
	}
}

func TestTemperatureChain_AllTiersFail(t *testing.T) {
	t1 := &fakeTier{name: "one", err: errors.New("nope")}
	t2 := &fakeTier{name: "two", temps: map[string]float64{}} // empty counts as a miss

	set := NewTemperatureChain(zap.NewNop(), t1, t2).Read(context.Background())

	if set.Available {
		t.Error("Available = true with every tier failed")
	}
	if len(set.Sensors) != 0 {
		t.Errorf("Sensors = %v, want none", set.Sensors)
	}
}

func TestMatchesSensor(t *testing.T) {
	if !matchesSensor("coretemp_core_0_input", cpuSensorKeys) {
		t.Error("coretemp sensor not matched as CPU")
	}
	if matchesSensor("fan1_input", cpuSensorKeys) {
		t.Error("fan sensor matched as CPU")
	}
	if !matchesSensor("amdgpu_edge_input", gpuSensorKeys) {
		t.Error("amdgpu sensor not matched as GPU")
	}
}

func TestIsValidTemperature(t *testing.T) {
	cases := []struct {
		in   float64
		want bool
	}{
		{-1, false},
		{0, false}, // exactly zero is a common bogus reading
		{45.5, true},
		{150, true},
		{151, false},
	}
	for _, c := range cases {
		if got := isValidTemperature(c.in); got != c.want {
			t.Errorf("isValidTemperature(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseReading(t *testing.T) {
	if r := parseReading("42"); !r.Known || r.Value != 42 {
		t.Errorf("parseReading(42) = %+v", r)
	}
	if r := parseReading("[N/A]"); r.Known {
		t.Errorf("parseReading([N/A]) = %+v, want unknown", r)
	}
}

func TestParseMB(t *testing.T) {
	if got := parseMB(" 8192 "); got != 8192 {
		t.Errorf("parseMB = %d, want 8192", got)
	}
	if got := parseMB("[N/A]"); got != 0 {
		t.Errorf("parseMB garbage = %d, want 0", got)
	}
}

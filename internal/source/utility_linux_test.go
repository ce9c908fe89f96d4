//go:build linux

package source

import "testing"

const sampleSensorsOutput = `coretemp-isa-0000
Adapter: ISA adapter
Package id 0:  +52.0°C  (high = +80.0°C, crit = +100.0°C)
Core 0:        +49.0°C  (high = +80.0°C, crit = +100.0°C)
Core 1:        +51.0°C  (high = +80.0°C, crit = +100.0°C)

nvme-pci-0400
Adapter: PCI adapter
Composite:    +38.9°C  (low  = -273.1°C, high = +81.8°C)

amdgpu-pci-0300
Adapter: PCI adapter
edge:         +44.0°C  (crit = +94.0°C)
fan1:        1200 RPM
`

func TestParseSensorsOutput_CPUKeys(t *testing.T) {
	temps := parseSensorsOutput(sampleSensorsOutput, cpuSensorKeys)

	if len(temps) != 3 {
		t.Fatalf("got %d readings %v, want 3", len(temps), temps)
	}
	if temps["Core 0"] != 49.0 {
		t.Errorf("Core 0 = %v, want 49.0", temps["Core 0"])
	}
	if temps["Package id 0"] != 52.0 {
		t.Errorf("Package id 0 = %v, want 52.0", temps["Package id 0"])
	}
	if _, ok := temps["Composite"]; ok {
		t.Error("nvme Composite reading matched CPU keys")
	}
}

func TestParseSensorsOutput_SkipsNonTemperatureLines(t *testing.T) {
	temps := parseSensorsOutput(sampleSensorsOutput, gpuSensorKeys)
	if _, ok := temps["fan1"]; ok {
		t.Error("fan RPM line parsed as a temperature")
	}
}

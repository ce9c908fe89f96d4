//go:build linux

package source

import "testing"

const sampleSensorsJSON = `{
  "coretemp-isa-0000": {
    "Adapter": "ISA adapter",
    "Package id 0": {
      "temp1_input": 52.0,
      "temp1_max": 80.0,
      "temp1_crit": 100.0
    },
    "Core 0": {
      "temp2_input": 49.0,
      "temp2_max": 80.0
    }
  },
  "nvme-pci-0400": {
    "Adapter": "PCI adapter",
    "Composite": {
      "temp1_input": 38.9
    }
  }
}`

func TestParseSensorsJSON(t *testing.T) {
	temps, err := parseSensorsJSON([]byte(sampleSensorsJSON), cpuSensorKeys)
	if err != nil {
		t.Fatal(err)
	}
	if len(temps) != 2 {
		t.Fatalf("got %d readings %v, want 2", len(temps), temps)
	}
	if temps["Package id 0"] != 52.0 {
		t.Errorf("Package id 0 = %v, want 52.0", temps["Package id 0"])
	}
	if temps["Core 0"] != 49.0 {
		t.Errorf("Core 0 = %v, want 49.0", temps["Core 0"])
	}
	if _, ok := temps["Composite"]; ok {
		t.Error("nvme Composite reading matched CPU keys")
	}
}

func TestParseSensorsJSON_Garbage(t *testing.T) {
	if _, err := parseSensorsJSON([]byte("not json"), cpuSensorKeys); err == nil {
		t.Error("expected an error for non-JSON input")
	}
}

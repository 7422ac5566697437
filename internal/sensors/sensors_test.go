package sensors

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"armoury/internal/execx"
	"armoury/internal/sysfs"

	gosensors "github.com/shirou/gopsutil/v4/sensors"
)

func writeFixture(t *testing.T, root, p, content string) {
	t.Helper()
	full := filepath.Join(root, p)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newReader(root string, r execx.Runner) *Reader {
	rd := New(sysfs.New(root), r)
	rd.temperatures = func(context.Context) ([]gosensors.TemperatureStat, error) { return nil, nil }
	return rd
}

func TestCPUTemperatureFromHwmon(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "/sys/class/hwmon/hwmon0/temp1_input", "0")
	writeFixture(t, root, "/sys/class/hwmon/hwmon2/temp1_input", "52375")

	temp, ok := newReader(root, execx.NewFake()).CPUTemperature(context.Background())
	if !ok || temp != 52.375 {
		t.Fatalf("CPUTemperature = %v, %v", temp, ok)
	}
}

func TestCPUTemperatureFallbacks(t *testing.T) {
	ctx := context.Background()

	fake := execx.NewFake().Set("sensors -A", "k10temp-pci-00c3\nTctl:         +61.5°C\n")
	if temp, ok := newReader(t.TempDir(), fake).CPUTemperature(ctx); !ok || temp != 61.5 {
		t.Fatalf("sensors fallback = %v, %v", temp, ok)
	}

	rd := newReader(t.TempDir(), execx.NewFake())
	rd.temperatures = func(context.Context) ([]gosensors.TemperatureStat, error) {
		return []gosensors.TemperatureStat{
			{SensorKey: "nvme_composite", Temperature: 40},
			{SensorKey: "k10temp_tctl", Temperature: 70},
		}, nil
	}
	if temp, ok := rd.CPUTemperature(ctx); !ok || temp != 70 {
		t.Fatalf("gopsutil fallback = %v, %v", temp, ok)
	}

	root := t.TempDir()
	writeFixture(t, root, "/sys/class/thermal/thermal_zone0/temp", "45000")
	if temp, ok := newReader(root, execx.NewFake()).CPUTemperature(ctx); !ok || temp != 45 {
		t.Fatalf("thermal zone fallback = %v, %v", temp, ok)
	}

	if _, ok := newReader(t.TempDir(), execx.NewFake()).CPUTemperature(ctx); ok {
		t.Fatalf("expected no reading")
	}
}

func TestGPUTemperature(t *testing.T) {
	ctx := context.Background()

	fake := execx.NewFake().Set("nvidia-smi --query-gpu=temperature.gpu --format=csv,noheader", "48\n")
	if temp, ok := newReader(t.TempDir(), fake).GPUTemperature(ctx); !ok || temp != 48 {
		t.Fatalf("nvidia = %v, %v", temp, ok)
	}

	root := t.TempDir()
	writeFixture(t, root, "/sys/class/hwmon/hwmon4/name", "amdgpu")
	writeFixture(t, root, "/sys/class/hwmon/hwmon4/temp1_input", "39000")
	if temp, ok := newReader(root, execx.NewFake()).GPUTemperature(ctx); !ok || temp != 39 {
		t.Fatalf("amdgpu = %v, %v", temp, ok)
	}

	fake = execx.NewFake().Set("sensors", "amdgpu-pci-0400\nedge:         +44.0°C\n")
	if temp, ok := newReader(t.TempDir(), fake).GPUTemperature(ctx); !ok || temp != 44 {
		t.Fatalf("sensors = %v, %v", temp, ok)
	}
}

func TestPowerSupply(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "/sys/class/power_supply/ACAD/online", "0")
	writeFixture(t, root, "/sys/class/power_supply/BAT0/capacity", "64")
	rd := newReader(root, execx.NewFake())

	if rd.OnAC() {
		t.Fatalf("expected battery power")
	}
	if n, ok := rd.BatteryPercent(); !ok || n != 64 {
		t.Fatalf("BatteryPercent = %d, %v", n, ok)
	}

	empty := newReader(t.TempDir(), execx.NewFake())
	if !empty.OnAC() {
		t.Fatalf("unknown power source must default to AC")
	}
	if _, ok := empty.BatteryPercent(); ok {
		t.Fatalf("expected no battery")
	}
}

func TestCurrentTDPAndStatus(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "/sys/class/power_supply/AC/online", "1")
	out := "CPU Family: Rembrandt\n| Name | Value | Parameter |\n| STAPM LIMIT | 35.000 | stapm-limit |\n"
	fake := execx.NewFake().Set("ryzenadj -i", out)
	rd := newReader(root, fake)

	if n, ok := rd.CurrentTDP(context.Background()); !ok || n != 35 {
		t.Fatalf("CurrentTDP = %d, %v", n, ok)
	}
	s := rd.Status(context.Background())
	if !s.OnAC || !s.HasTDP || s.HasBattery || s.HasCPUTemp {
		t.Fatalf("unexpected status %+v", s)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		temp  float64
		level Level
		alert Alert
	}{
		{45, Cool, AlertNone},
		{60, Warm, AlertNone},
		{79.9, Warm, AlertNone},
		{86, Hot, AlertWarning},
		{95, Hot, AlertCritical},
	}
	for _, tt := range tests {
		if got := Classify(tt.temp); got != tt.level {
			t.Errorf("Classify(%v) = %s, want %s", tt.temp, got, tt.level)
		}
		if got := DefaultThresholds.Check(tt.temp); got != tt.alert {
			t.Errorf("Check(%v) = %s, want %s", tt.temp, got, tt.alert)
		}
	}
}

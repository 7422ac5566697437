package fan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"armoury/internal/execx"
	"armoury/internal/sysfs"
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

type fakeTemps struct{}

func (fakeTemps) CPUTemperature(context.Context) (float64, bool) { return 63, true }
func (fakeTemps) GPUTemperature(context.Context) (float64, bool) { return 0, false }

func TestCurveValidate(t *testing.T) {
	for name, c := range Presets {
		if err := c.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
		if len(c) != 8 || c[0].Temp != 30 || c[7].Temp != 100 {
			t.Errorf("preset %s has unexpected shape %v", name, c)
		}
	}

	bad := []Curve{
		{},
		{{30, 10}, {30, 20}},
		{{30, 50}, {40, 40}},
		{{30, 101}},
		{{30, -1}},
	}
	for _, c := range bad {
		if err := c.Validate(); err == nil {
			t.Errorf("expected %v to be rejected", c)
		}
	}
}

func TestCurveString(t *testing.T) {
	c := Curve{{30, 0}, {40, 10}, {50, 25}}
	if got := c.String(); got != "30c:0%,40c:10%,50c:25%" {
		t.Fatalf("String = %q", got)
	}
}

func TestPresetFor(t *testing.T) {
	tests := map[string]string{
		"Silent":      Quiet,
		"quiet":       Quiet,
		"Balanced":    Balanced,
		"Performance": Performance,
		"Full Speed":  FullSpeed,
	}
	for in, want := range tests {
		if got, ok := PresetFor(in); !ok || got != want {
			t.Errorf("PresetFor(%q) = %q, %v", in, got, ok)
		}
	}
	if _, ok := PresetFor("jet"); ok {
		t.Errorf("unexpected preset")
	}
}

func TestSpeeds(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "/sys/class/hwmon/hwmon3/name", "asus")
	writeFixture(t, root, "/sys/class/hwmon/hwmon3/fan1_input", "2400")
	writeFixture(t, root, "/sys/class/hwmon/hwmon3/fan1_label", "cpu_fan")
	writeFixture(t, root, "/sys/class/hwmon/hwmon3/fan2_input", "1800")

	c := New(sysfs.New(root), execx.NewFake(), fakeTemps{})
	got := c.Speeds()
	if len(got) != 2 || got[0].Name != "cpu_fan" || got[0].RPM != 2400 || got[1].Name != "Fan 2" {
		t.Fatalf("Speeds = %+v", got)
	}
	if !c.Supported() || c.HasCurves() {
		t.Fatalf("unexpected support flags")
	}
	temps := c.Temperatures(context.Background())
	if temps["cpu"] != 63 {
		t.Fatalf("Temperatures = %v", temps)
	}
	if _, ok := temps["gpu"]; ok {
		t.Fatalf("missing gpu reading must be absent")
	}
}

func TestApplyPresetAsusctl(t *testing.T) {
	data := Presets[Balanced].String()
	fake := execx.NewFake().
		Set("asusctl fan-curve --mod-profile Balanced --fan cpu --data "+data, "").
		Set("asusctl fan-curve --mod-profile Balanced --fan gpu --data "+data, "").
		Set("asusctl fan-curve --mod-profile Balanced --enable-fan-curves true", "")
	c := New(sysfs.New(t.TempDir()), fake, nil)

	msg, err := c.ApplyPreset(context.Background(), "Balanced")
	if err != nil || msg != "Fan curve set to balanced" {
		t.Fatalf("ApplyPreset = %q, %v", msg, err)
	}
	if len(fake.Calls()) != 3 {
		t.Fatalf("calls = %v", fake.Calls())
	}
}

func TestApplyPresetSysfsFallback(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, curveEnablePath, "0")
	fs := sysfs.New(root)
	c := New(fs, execx.NewFake(), nil)

	msg, err := c.ApplyPreset(context.Background(), "quiet")
	if err != nil || msg != "Custom fan curve enabled" {
		t.Fatalf("ApplyPreset = %q, %v", msg, err)
	}
	if fs.ReadString(curveEnablePath) != "1" {
		t.Fatalf("fan_curve_enable not written")
	}

	empty := New(sysfs.New(t.TempDir()), execx.NewFake(), nil)
	if _, err := empty.ApplyPreset(context.Background(), "quiet"); !errors.Is(err, ErrNotSupported) {
		t.Fatalf("expected ErrNotSupported, got %v", err)
	}
}

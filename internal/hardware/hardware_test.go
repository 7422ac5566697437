package hardware

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
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

func TestReadModel(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "/sys/class/dmi/id/sys_vendor", "ASUSTeK COMPUTER INC.\n")
	writeFixture(t, root, "/sys/class/dmi/id/product_name", "ROG Flow Z13 GZ302EA\n")

	m, ok := ReadModel(sysfs.New(root))
	if !ok || !m.IsASUS() || m.Name() != "ROG Flow Z13 GZ302EA" {
		t.Fatalf("ReadModel = %+v, %v", m, ok)
	}
	if _, ok := ReadModel(sysfs.New(t.TempDir())); ok {
		t.Fatalf("expected no DMI data")
	}
}

func TestMatchModel(t *testing.T) {
	tests := map[string]string{
		"ROG Flow Z13 GZ302EA":        "ROG_FLOW_Z13",
		"ROG Zephyrus G14 GA403UV":    "ROG_ZEPHYRUS",
		"ROG Strix G16 G614JV":        "ROG_STRIX",
		"ASUS TUF Gaming A15 FA507NV": "ASUS_TUF",
		"ROG Ally RC71L":              "OTHER_ASUS_GAMING",
	}
	for product, want := range tests {
		fam, ok := MatchModel(product)
		if !ok || fam.ID != want {
			t.Errorf("MatchModel(%q) = %q, want %q", product, fam.ID, want)
		}
	}
	if _, ok := MatchModel("Vivobook 15"); ok {
		t.Errorf("office laptop must not match")
	}
	if fam, _ := MatchModel("GZ302"); fam.MinTDP != 10 || fam.MaxTDP != 90 {
		t.Errorf("unexpected Z13 TDP range %+v", fam)
	}
}

func TestDetect(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "/sys/class/dmi/id/sys_vendor", "ASUSTeK COMPUTER INC.")
	writeFixture(t, root, "/sys/class/dmi/id/product_name", "ROG Flow Z13 GZ302EA")
	writeFixture(t, root, "/sys/firmware/acpi/platform_profile", "balanced")
	writeFixture(t, root, "/sys/firmware/acpi/platform_profile_choices", "quiet balanced performance")
	writeFixture(t, root, "/sys/class/power_supply/BAT0/charge_control_end_threshold", "80")
	writeFixture(t, root, "/sys/class/leds/asus::kbd_backlight/multi_intensity", "255 0 102")
	writeFixture(t, root, "/sys/devices/platform/asus-nb-wmi/fan_curve_enable", "1")
	writeFixture(t, root, "/sys/devices/platform/asus-nb-wmi/dgpu_disable", "0")

	fake := execx.NewFake().Set("systemctl is-active asusd", "inactive").Set("systemctl is-active supergfxd", "active")
	d := NewDetector(sysfs.New(root), fake)
	d.uname = func() string { return "6.18.0-test" }

	caps := d.Detect(context.Background(), false)
	if !caps.IsASUS || caps.Family != "ROG_FLOW_Z13" || caps.KernelVersion != "6.18.0-test" {
		t.Fatalf("unexpected identity %+v", caps)
	}
	for _, f := range []Feature{PlatformProfile, ChargeControl, KeyboardBacklight, KeyboardRGB, FanCurves, GPUMux} {
		if !caps.Has(f) {
			t.Errorf("expected %s", f)
		}
	}
	for _, f := range []Feature{DGPU, AnimeMatrix, PanelOverdrive} {
		if caps.Has(f) {
			t.Errorf("unexpected %s", f)
		}
	}
	if !reflect.DeepEqual(caps.PlatformProfiles, []string{"quiet", "balanced", "performance"}) {
		t.Errorf("PlatformProfiles = %v", caps.PlatformProfiles)
	}
	if caps.ChargeLimitPath != "/sys/class/power_supply/BAT0/charge_control_end_threshold" {
		t.Errorf("ChargeLimitPath = %q", caps.ChargeLimitPath)
	}
	if caps.AsusdAvailable || !caps.SupergfxAvailable {
		t.Errorf("unexpected services %+v", caps)
	}

	status := caps.FeatureStatus()
	if len(status) != 11 || status[0].Name != "Platform Profile" || status[10].Name != "supergfxctl Available" {
		t.Fatalf("FeatureStatus = %+v", status)
	}

	// cached until forced
	writeFixture(t, root, "/sys/class/leds/asus::anime_matrix/brightness", "0")
	if d.Detect(context.Background(), false).Has(AnimeMatrix) {
		t.Fatalf("expected cached result")
	}
	if !d.Detect(context.Background(), true).Has(AnimeMatrix) {
		t.Fatalf("expected fresh result")
	}
}

type fakePanel struct {
	up bool
	on bool
}

func (f *fakePanel) Available(context.Context) bool { return f.up }
func (f *fakePanel) PanelOverdrive(context.Context) (bool, error) { return f.on, nil }
func (f *fakePanel) SetPanelOverdrive(_ context.Context, on bool) error {
	f.on = on
	return nil
}

func TestPanelOverdrive(t *testing.T) {
	ctx := context.Background()
	empty := sysfs.New(t.TempDir())

	fake := execx.NewFake().Set("asusctl armoury get panel_od", "Current value for panel_od = 1")
	if on, err := NewFirmware(empty, fake, nil).PanelOverdrive(ctx); err != nil || !on {
		t.Fatalf("asusctl PanelOverdrive = %v, %v", on, err)
	}

	panel := &fakePanel{up: true}
	fw := NewFirmware(empty, execx.NewFake(), panel)
	msg, err := fw.SetPanelOverdrive(ctx, true)
	if err != nil || msg != "Panel overdrive enabled" || !panel.on {
		t.Fatalf("asusd SetPanelOverdrive = %q, %v", msg, err)
	}

	root := t.TempDir()
	writeFixture(t, root, "/sys/devices/platform/asus-nb-wmi/panel_od", "0")
	fs := sysfs.New(root)
	fw = NewFirmware(fs, execx.NewFake(), nil)
	if _, err := fw.SetPanelOverdrive(ctx, true); err != nil {
		t.Fatalf("sysfs SetPanelOverdrive: %v", err)
	}
	if on, _ := fw.PanelOverdrive(ctx); !on {
		t.Fatalf("expected panel_od written")
	}

	if _, err := NewFirmware(empty, execx.NewFake(), nil).PanelOverdrive(ctx); !errors.Is(err, ErrNotSupported) {
		t.Fatalf("expected ErrNotSupported, got %v", err)
	}
}

func TestBootSound(t *testing.T) {
	ctx := context.Background()
	fake := execx.NewFake().
		Set("asusctl bios post-sound -g", "POST sound: off").
		Set("asusctl bios post-sound on", "")
	fw := NewFirmware(sysfs.New(t.TempDir()), fake, nil)

	if on, err := fw.BootSound(ctx); err != nil || on {
		t.Fatalf("BootSound = %v, %v", on, err)
	}
	if msg, err := fw.SetBootSound(ctx, true); err != nil || msg != "Boot sound enabled" {
		t.Fatalf("SetBootSound = %q, %v", msg, err)
	}
	if _, err := NewFirmware(sysfs.New(t.TempDir()), execx.NewFake(), nil).BootSound(ctx); !errors.Is(err, ErrNotSupported) {
		t.Fatalf("expected ErrNotSupported, got %v", err)
	}
}

func TestTools(t *testing.T) {
	tools := Tools(execx.NewFake().Install("asusctl"))
	for _, tool := range tools {
		if tool.Available != (tool.Name == "asusctl") {
			t.Errorf("unexpected %+v", tool)
		}
	}
}

package sysfs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"armoury/internal/execx"
)

func writeFixture(t *testing.T, root, p, content string) {
	t.Helper()
	full := filepath.Join(root, p)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestReadAndGlob(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "/sys/class/power_supply/BAT1/capacity", "57\n")
	writeFixture(t, root, "/sys/class/power_supply/BAT0/capacity", "12\n")
	f := New(root)

	n, err := f.ReadInt("/sys/class/power_supply/BAT1/capacity")
	if err != nil || n != 57 {
		t.Fatalf("ReadInt = %d, %v", n, err)
	}
	got := f.Glob("/sys/class/power_supply/BAT*")
	want := []string{"/sys/class/power_supply/BAT0", "/sys/class/power_supply/BAT1"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Glob = %v, want %v", got, want)
	}
	if !f.Exists("/sys/class/power_supply/BAT0") || f.Exists("/sys/class/power_supply/BAT9") {
		t.Fatalf("unexpected Exists results")
	}
}

func TestFindBatteryAndAC(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "/sys/class/power_supply/BATX/capacity", "90")
	writeFixture(t, root, "/sys/class/power_supply/ucsi-source-psy-USBC000:001/type", "USB")
	writeFixture(t, root, "/sys/class/power_supply/ACPI0003:00/type", "Mains")
	f := New(root)

	if p, ok := f.FindBattery(); !ok || p != "/sys/class/power_supply/BATX" {
		t.Fatalf("FindBattery = %q, %v", p, ok)
	}
	if p, ok := f.FindAC(); !ok || p != "/sys/class/power_supply/ACPI0003:00" {
		t.Fatalf("FindAC = %q, %v", p, ok)
	}

	writeFixture(t, root, "/sys/class/power_supply/ADP1/online", "1")
	if p, _ := f.FindAC(); p != "/sys/class/power_supply/ADP1" {
		t.Fatalf("expected named adapter to win, got %q", p)
	}
}

func TestFindHwmonAndDRM(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "/sys/class/hwmon/hwmon0/name", "k10temp")
	writeFixture(t, root, "/sys/class/hwmon/hwmon3/name", "asus")
	writeFixture(t, root, "/sys/class/drm/card1/device/vendor", "0x1002")
	writeFixture(t, root, "/sys/class/drm/card1-eDP-1/device/vendor", "0x1002")
	writeFixture(t, root, "/sys/class/drm/card0/device/vendor", "0x10de")
	writeFixture(t, root, "/sys/class/drm/card1/device/hwmon/hwmon5/temp1_input", "51000")
	f := New(root)

	if p, ok := f.FindHwmon("asus-nb-wmi", "asus"); !ok || p != "/sys/class/hwmon/hwmon3" {
		t.Fatalf("FindHwmon = %q, %v", p, ok)
	}
	devs := f.DRMDevices(VendorAMD)
	if len(devs) != 1 || devs[0] != "/sys/class/drm/card1/device" {
		t.Fatalf("DRMDevices = %v", devs)
	}
	if v, ok := f.HwmonValue(devs[0], "temp1_input"); !ok || v != "51000" {
		t.Fatalf("HwmonValue = %q, %v", v, ok)
	}
}

func TestIsCardDevice(t *testing.T) {
	cases := map[string]bool{"card0": true, "card12": true, "card": false, "card0-DP-1": false, "renderD128": false}
	for name, want := range cases {
		if got := IsCardDevice(name); got != want {
			t.Fatalf("IsCardDevice(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestWritePrivilegedDirect(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "/sys/class/leds/asus::kbd_backlight/brightness", "0")
	f := New(root)
	runner := execx.NewFake()

	if err := f.WritePrivileged(context.Background(), runner, "/sys/class/leds/asus::kbd_backlight/brightness", "2"); err != nil {
		t.Fatalf("WritePrivileged: %v", err)
	}
	if got := f.ReadString("/sys/class/leds/asus::kbd_backlight/brightness"); got != "2" {
		t.Fatalf("expected 2, got %q", got)
	}
	if len(runner.Calls()) != 0 {
		t.Fatalf("expected no helper calls, got %v", runner.Calls())
	}
}

func TestWritePrivilegedFallsBackToPkexec(t *testing.T) {
	root := t.TempDir()
	p := "/sys/class/power_supply/BAT0/charge_control_end_threshold"
	writeFixture(t, root, p, "100")
	f := New(root)

	orig := writeFile
	writeFile = func(name string, data []byte, perm os.FileMode) error {
		return &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}
	t.Cleanup(func() { writeFile = orig })

	runner := execx.NewFake().Set("pkexec tee "+f.Path(p), "80")
	if err := f.WritePrivileged(context.Background(), runner, p, "80"); err != nil {
		t.Fatalf("WritePrivileged: %v", err)
	}
	calls := runner.Calls()
	if len(calls) != 1 || calls[0].Input != "80" {
		t.Fatalf("expected pkexec tee with stdin, got %+v", calls)
	}

	if err := f.WritePrivileged(context.Background(), execx.NewFake(), p, "80"); !errors.Is(err, ErrPermission) {
		t.Fatalf("expected ErrPermission without pkexec, got %v", err)
	}
}

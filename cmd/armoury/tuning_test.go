package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"armoury/internal/app"
	"armoury/internal/config"
	"armoury/internal/execx"
)

// withFakeApp routes controller() to a real App over a temporary sysfs root
// whose commands are answered by fake.
func withFakeApp(t *testing.T, fake *execx.Fake, env map[string]string) string {
	t.Helper()
	root := t.TempDir()
	state := t.TempDir()
	for _, k := range []string{"ARMOURY_MONITOR_INTERVAL", "ARMOURY_COMMAND_TIMEOUT", "ARMOURY_AUTO_SWITCH", "ARMOURY_SYSFS_ROOT", "ARMOURY_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	a, err := app.New(app.Options{
		SysfsRoot:    root,
		Runner:       fake,
		DisableDBus:  true,
		ProfileDir:   filepath.Join(state, "profiles"),
		SettingsPath: filepath.Join(state, "settings.json"),
		StatsDir:     filepath.Join(state, "stats"),
		Getenv:       func(k string) string { return env[k] },
	})
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	withController(t, a)
	return root
}

func writeSysFile(t *testing.T, root, p, content string) {
	t.Helper()
	full := filepath.Join(root, p)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readSysFile(t *testing.T, root, p string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, p))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestCPUEPP(t *testing.T) {
	root := withFakeApp(t, execx.NewFake(), nil)
	dir := "/sys/devices/system/cpu/cpu0/cpufreq/"
	writeSysFile(t, root, dir+"energy_performance_preference", "balance_performance")
	writeSysFile(t, root, dir+"energy_performance_available_preferences", "performance balance_performance power")

	buf := withOutput(t, cmdCPUEPP)
	if err := cmdCPUEPP.RunE(cmdCPUEPP, []string{"power"}); err != nil {
		t.Fatalf("RunE error: %v", err)
	}
	if got := readSysFile(t, root, dir+"energy_performance_preference"); got != "power" {
		t.Fatalf("epp = %q", got)
	}
	if !strings.Contains(buf.String(), "Energy preference set to power") {
		t.Fatalf("unexpected output %q", buf.String())
	}
	if err := cmdCPUEPP.RunE(cmdCPUEPP, []string{"turbo"}); err == nil {
		t.Fatal("expected invalid preference error")
	}
}

func TestCPUFreq(t *testing.T) {
	line := "pkexec cpupower frequency-set -u 3500MHz"
	fake := execx.NewFake().Set(line, "").Install("cpupower")
	withFakeApp(t, fake, nil)

	oldMin, oldMax := cpuFreqMin, cpuFreqMax
	t.Cleanup(func() { cpuFreqMin, cpuFreqMax = oldMin, oldMax })

	cpuFreqMin, cpuFreqMax = 0, 0
	withOutput(t, cmdCPUFreq)
	if err := cmdCPUFreq.RunE(cmdCPUFreq, nil); err == nil || !strings.Contains(err.Error(), "--min or --max") {
		t.Fatalf("expected missing flag error, got %v", err)
	}

	cpuFreqMin, cpuFreqMax = 4000, 3000
	if err := cmdCPUFreq.RunE(cmdCPUFreq, nil); err == nil {
		t.Fatal("expected min above max error")
	}

	cpuFreqMin, cpuFreqMax = 0, 3500
	buf := withOutput(t, cmdCPUFreq)
	if err := cmdCPUFreq.RunE(cmdCPUFreq, nil); err != nil {
		t.Fatalf("RunE error: %v", err)
	}
	if !fake.Called(line) {
		t.Fatalf("calls = %+v", fake.Calls())
	}
	if !strings.Contains(buf.String(), "max 3500 MHz") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestTDPTempLimit(t *testing.T) {
	line := "pkexec ryzenadj --tctl-temp 85"
	fake := execx.NewFake().Set(line, "").Install("ryzenadj")
	withFakeApp(t, fake, nil)

	buf := withOutput(t, cmdTDPTempLimit)
	if err := cmdTDPTempLimit.RunE(cmdTDPTempLimit, []string{"85"}); err != nil {
		t.Fatalf("RunE error: %v", err)
	}
	if !fake.Called(line) || !strings.Contains(buf.String(), "85°C") {
		t.Fatalf("calls = %+v, output %q", fake.Calls(), buf.String())
	}
	if err := cmdTDPTempLimit.RunE(cmdTDPTempLimit, []string{"110"}); err == nil {
		t.Fatal("expected range error")
	}
	if err := cmdTDPTempLimit.RunE(cmdTDPTempLimit, []string{"hot"}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestGPUPowerProfileAndResetClocks(t *testing.T) {
	root := withFakeApp(t, execx.NewFake(), nil)
	dev := "/sys/class/drm/card0/device"
	writeSysFile(t, root, dev+"/vendor", "0x1002")
	writeSysFile(t, root, dev+"/pp_power_profile_mode",
		"PROFILE_INDEX(NAME)\n 0 BOOTUP_DEFAULT :\n 1 3D_FULL_SCREEN*:\n 2 POWER_SAVING :\n")
	writeSysFile(t, root, dev+"/pp_od_clk_voltage", "OD_SCLK:")

	buf := withOutput(t, cmdGPUPowerProfile)
	if err := cmdGPUPowerProfile.RunE(cmdGPUPowerProfile, nil); err != nil {
		t.Fatalf("list: %v", err)
	}
	if out := buf.String(); !strings.Contains(out, "POWER_SAVING") || !strings.Contains(out, "3D_FULL_SCREEN (active)") {
		t.Fatalf("unexpected listing %q", out)
	}

	buf.Reset()
	if err := cmdGPUPowerProfile.RunE(cmdGPUPowerProfile, []string{"2"}); err != nil {
		t.Fatalf("select: %v", err)
	}
	if got := readSysFile(t, root, dev+"/pp_power_profile_mode"); got != "2" {
		t.Fatalf("profile = %q", got)
	}
	if err := cmdGPUPowerProfile.RunE(cmdGPUPowerProfile, []string{"nine"}); err == nil {
		t.Fatal("expected parse error")
	}

	buf = withOutput(t, cmdGPUResetClocks)
	if err := cmdGPUResetClocks.RunE(cmdGPUResetClocks, nil); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if got := readSysFile(t, root, dev+"/pp_od_clk_voltage"); got != "r" {
		t.Fatalf("od table = %q", got)
	}
}

func TestBiosBootSound(t *testing.T) {
	fake := execx.NewFake().
		Set("asusctl bios post-sound -g", "POST sound: on").
		Set("asusctl bios post-sound off", "")
	withFakeApp(t, fake, nil)

	buf := withOutput(t, cmdBiosBootSound)
	if err := cmdBiosBootSound.RunE(cmdBiosBootSound, nil); err != nil {
		t.Fatalf("get: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Boot sound is ") {
		t.Fatalf("unexpected output %q", buf.String())
	}

	buf.Reset()
	if err := cmdBiosBootSound.RunE(cmdBiosBootSound, []string{"off"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !fake.Called("asusctl bios post-sound off") || !strings.Contains(buf.String(), "Boot sound disabled") {
		t.Fatalf("calls = %+v, output %q", fake.Calls(), buf.String())
	}
	if err := cmdBiosBootSound.RunE(cmdBiosBootSound, []string{"loud"}); err == nil {
		t.Fatal("expected on/off error")
	}
}

func TestKbdCycle(t *testing.T) {
	root := withFakeApp(t, execx.NewFake(), nil)
	dir := "/sys/class/leds/asus::kbd_backlight"
	writeSysFile(t, root, dir+"/brightness", "3")
	writeSysFile(t, root, dir+"/max_brightness", "3")

	withOutput(t, cmdKbdCycle)
	if err := cmdKbdCycle.RunE(cmdKbdCycle, nil); err != nil {
		t.Fatalf("RunE error: %v", err)
	}
	if got := readSysFile(t, root, dir+"/brightness"); got != "0" {
		t.Fatalf("brightness after wrap = %q", got)
	}
}

func TestKbdEffectSecondColor(t *testing.T) {
	line := "asusctl aura effect breathe --colour ff0000 --colour2 00ffff --speed med"
	fake := execx.NewFake().Set(line, "")
	withFakeApp(t, fake, nil)

	oldC, oldC2 := kbdEffectColor, kbdEffectColor2
	t.Cleanup(func() { kbdEffectColor, kbdEffectColor2 = oldC, oldC2 })
	if err := kbdEffectColor.Set("red"); err != nil {
		t.Fatal(err)
	}
	if err := kbdEffectColor2.Set("cyan"); err != nil {
		t.Fatal(err)
	}

	withOutput(t, cmdKbdEffect)
	if err := cmdKbdEffect.RunE(cmdKbdEffect, []string{"breathe"}); err != nil {
		t.Fatalf("RunE error: %v", err)
	}
	if !fake.Called(line) {
		t.Fatalf("calls = %+v", fake.Calls())
	}
}

func TestDisplayRates(t *testing.T) {
	fake := execx.NewFake().Set("xrandr --query", `Screen 0: minimum 320 x 200, current 2560 x 1600, maximum 16384 x 16384
eDP-1 connected primary 2560x1600+0+0 (normal left inverted right x axis y axis) 302mm x 189mm
   2560x1600    180.00*+  120.00    60.00
`)
	withFakeApp(t, fake, map[string]string{"XDG_SESSION_TYPE": "x11"})

	buf := withOutput(t, cmdDisplayRates)
	if err := cmdDisplayRates.RunE(cmdDisplayRates, nil); err != nil {
		t.Fatalf("RunE error: %v", err)
	}
	if got := buf.String(); got != "60 Hz\n120 Hz\n180 Hz\n" {
		t.Fatalf("unexpected output %q", got)
	}

	buf = withOutput(t, cmdDisplay)
	if err := cmdDisplay.RunE(cmdDisplay, nil); err != nil {
		t.Fatalf("display: %v", err)
	}
	if out := buf.String(); !strings.Contains(out, "eDP-1") || !strings.Contains(out, "180 Hz") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestSettingsCommands(t *testing.T) {
	withFakeApp(t, execx.NewFake(), nil)

	buf := withOutput(t, cmdSettingsSet)
	if err := cmdSettingsSet.RunE(cmdSettingsSet, []string{"monitoring_interval", "500"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := cmdSettingsSet.RunE(cmdSettingsSet, []string{"theme", "light"}); err != nil {
		t.Fatalf("set string: %v", err)
	}
	if err := cmdSettingsSet.RunE(cmdSettingsSet, []string{"nope", "1"}); err == nil {
		t.Fatal("expected unknown key error")
	}
	if err := cmdSettingsSet.RunE(cmdSettingsSet, []string{"monitoring_interval", "fast"}); err == nil {
		t.Fatal("expected type error")
	}

	ctrl, err := controller()
	if err != nil {
		t.Fatal(err)
	}
	if got := ctrl.Config().MonitorInterval.Milliseconds(); got != 500 {
		t.Fatalf("effective interval = %dms", got)
	}

	buf = withOutput(t, cmdSettingsGet)
	if err := cmdSettingsGet.RunE(cmdSettingsGet, []string{"theme"}); err != nil {
		t.Fatalf("get: %v", err)
	}
	if buf.String() != "light\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
	buf.Reset()
	if err := cmdSettingsGet.RunE(cmdSettingsGet, nil); err != nil {
		t.Fatalf("get all: %v", err)
	}
	if !strings.Contains(buf.String(), "monitoring_interval:") {
		t.Fatalf("unexpected listing %q", buf.String())
	}

	file := filepath.Join(t.TempDir(), "prefs.json")
	withOutput(t, cmdSettingsExport)
	if err := cmdSettingsExport.RunE(cmdSettingsExport, []string{file}); err != nil {
		t.Fatalf("export: %v", err)
	}
	withOutput(t, cmdSettingsReset)
	if err := cmdSettingsReset.RunE(cmdSettingsReset, nil); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if got := ctrl.Config().MonitorInterval; got != config.Default().MonitorInterval {
		t.Fatalf("interval after reset = %v", got)
	}
	withOutput(t, cmdSettingsImport)
	if err := cmdSettingsImport.RunE(cmdSettingsImport, []string{file}); err != nil {
		t.Fatalf("import: %v", err)
	}
	if v, err := ctrl.Setting("theme"); err != nil || v != "light" {
		t.Fatalf("theme after import = %v, %v", v, err)
	}
}

package config

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Fatalf("Load(\"\") = %+v", cfg)
	}
	if cfg.MonitorInterval != 2*time.Second || cfg.ACProfile != "performance" || cfg.BatteryProfile != "efficient" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "json", file: "armoury.json",
			content: `{"monitor_interval":"5s","auto_switch":true,"ac_profile":"gaming","temp_warning":80,"log_level":"debug"}`,
		},
		{
			name: "yaml", file: "armoury.yaml",
			content: "monitor_interval: 5s\nauto_switch: true\nac_profile: gaming\ntemp_warning: 80\nlog_level: debug\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatal(err)
			}
			if cfg.MonitorInterval != 5*time.Second || !cfg.AutoSwitch || cfg.ACProfile != "gaming" {
				t.Fatalf("unexpected config %+v", cfg)
			}
			if cfg.TempWarning != 80 || cfg.TempCritical != 95 || cfg.LogLevel != slog.LevelDebug {
				t.Fatalf("unexpected config %+v", cfg)
			}
			if cfg.BatteryProfile != "efficient" || cfg.CommandTimeout != 10*time.Second {
				t.Fatalf("defaults lost: %+v", cfg)
			}
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := map[string]string{
		`{"monitor_interval":"soon"}`: "parse monitor_interval",
		`{"command_timeout":"-1s"}`:   "command_timeout must be > 0",
		`{"ac_profile":"ludicrous"}`:  "invalid profile: ludicrous",
		`{"temp_warning":99}`:         "temp_warning must be below temp_critical",
		`{"log_level":"loud"}`:        "invalid log_level",
		`{`:                           "unexpected end of JSON input",
	}
	for content, want := range tests {
		_, err := Load(writeFile(t, "c.json", content))
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Fatalf("Load(%s) = %v, want %q", content, err, want)
		}
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(envMonitorInterval, "500ms")
	t.Setenv(envCommandTimeout, "nope")
	t.Setenv(envAutoSwitch, "true")
	t.Setenv(envSysfsRoot, "/tmp/fake-sys")
	t.Setenv(envLogLevel, "warn")

	cfg, err := Load(writeFile(t, "c.json", `{"monitor_interval":"5s"}`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MonitorInterval != 500*time.Millisecond {
		t.Fatalf("MonitorInterval = %v", cfg.MonitorInterval)
	}
	if cfg.CommandTimeout != defaultCommandTimeout {
		t.Fatalf("invalid env value should be ignored, got %v", cfg.CommandTimeout)
	}
	if !cfg.AutoSwitch || cfg.SysfsRoot != "/tmp/fake-sys" || cfg.LogLevel != slog.LevelWarn {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func captureDefaultLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestEnvOverrideNonPositiveWarns(t *testing.T) {
	logs := captureDefaultLog(t)
	t.Setenv(envMonitorInterval, "-1s")
	t.Setenv(envCommandTimeout, "0s")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MonitorInterval != defaultMonitorInterval || cfg.CommandTimeout != defaultCommandTimeout {
		t.Fatalf("non-positive overrides applied: %+v", cfg)
	}
	out := logs.String()
	for _, name := range []string{envMonitorInterval, envCommandTimeout} {
		if !strings.Contains(out, "var="+name) {
			t.Fatalf("no warning for %s, logs = %s", name, out)
		}
	}
}

func TestWithPreferences(t *testing.T) {
	base := Default()

	if got := base.WithPreferences(DefaultPreferences()); got != base {
		t.Fatalf("default preferences changed config: %+v", got)
	}

	prefs := DefaultPreferences()
	prefs.AutoProfileSwitching = true
	prefs.MonitoringInterval = 500
	got := base.WithPreferences(prefs)
	if !got.AutoSwitch || got.MonitorInterval != 500*time.Millisecond {
		t.Fatalf("preferences not applied: %+v", got)
	}

	t.Setenv(envMonitorInterval, "3s")
	if got := base.WithPreferences(prefs); got.MonitorInterval != 3*time.Second {
		t.Fatalf("environment should win over settings, got %v", got.MonitorInterval)
	}
}

func TestSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linux-armoury", "settings.json")
	s, err := OpenSettings(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("defaults not written: %v", err)
	}
	if s.All() != DefaultPreferences() {
		t.Fatalf("All() = %+v", s.All())
	}

	if err := s.Set("last_tdp_profile", "Gaming"); err != nil {
		t.Fatal(err)
	}
	if err := s.Update(map[string]any{"rgb_brightness": 75, "theme": "light"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Set("window_size", []int{1, 2}); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("Set(window_size) = %v", err)
	}
	if err := s.Set("rgb_brightness", "bright"); err == nil {
		t.Fatal("expected type error")
	}
	if v, err := s.Get("rgb_brightness"); err != nil || v != float64(75) {
		t.Fatalf("Get = %v, %v", v, err)
	}

	reopened, err := OpenSettings(path)
	if err != nil {
		t.Fatal(err)
	}
	got := reopened.All()
	if got.LastTDPProfile != "Gaming" || got.RGBBrightness != 75 || got.Theme != "light" {
		t.Fatalf("reopened = %+v", got)
	}

	if err := reopened.Reset(); err != nil {
		t.Fatal(err)
	}
	if reopened.All() != DefaultPreferences() {
		t.Fatal("Reset did not restore defaults")
	}
}

func TestSettingsMergeDefaults(t *testing.T) {
	path := writeFile(t, "settings.json", `{"theme":"light","window_size":[1000,650]}`)
	s, err := OpenSettings(path)
	if err != nil {
		t.Fatal(err)
	}
	got := s.All()
	if got.Theme != "light" || got.BatteryChargeLimit != 80 || got.RGBColor != "#ff0066" {
		t.Fatalf("merged = %+v", got)
	}
}

func TestSettingsExportImport(t *testing.T) {
	dir := t.TempDir()
	src, err := OpenSettings(filepath.Join(dir, "a.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := src.Set("gpu_mode", "Integrated"); err != nil {
		t.Fatal(err)
	}
	export := filepath.Join(dir, "export.json")
	if err := src.Export(export); err != nil {
		t.Fatal(err)
	}

	dst, err := OpenSettings(filepath.Join(dir, "b.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := dst.Import(export); err != nil {
		t.Fatal(err)
	}
	if dst.All().GPUMode != "Integrated" {
		t.Fatalf("imported = %+v", dst.All())
	}
}

// Package config loads the runtime configuration of the daemon and CLI and
// manages the user settings document.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"armoury/internal/power"
)

const (
	defaultMonitorInterval = 2 * time.Second
	defaultCommandTimeout  = 10 * time.Second
	defaultACProfile       = "performance"
	defaultBatteryProfile  = "efficient"
	defaultTempWarning     = 85
	defaultTempCritical    = 95

	envMonitorInterval = "ARMOURY_MONITOR_INTERVAL"
	envCommandTimeout  = "ARMOURY_COMMAND_TIMEOUT"
	envAutoSwitch      = "ARMOURY_AUTO_SWITCH"
	envSysfsRoot       = "ARMOURY_SYSFS_ROOT"
	envLogLevel        = "ARMOURY_LOG_LEVEL"
)

// Config aggregates the tunables of the daemon, monitor and controllers.
type Config struct {
	MonitorInterval time.Duration
	CommandTimeout  time.Duration
	AutoSwitch      bool
	ACProfile       string
	BatteryProfile  string
	TempWarning     float64
	TempCritical    float64
	// SysfsRoot prefixes every sysfs and procfs path; empty means "/".
	SysfsRoot string
	LogLevel  slog.Level
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MonitorInterval: defaultMonitorInterval,
		CommandTimeout:  defaultCommandTimeout,
		ACProfile:       defaultACProfile,
		BatteryProfile:  defaultBatteryProfile,
		TempWarning:     defaultTempWarning,
		TempCritical:    defaultTempCritical,
		LogLevel:        slog.LevelInfo,
	}
}

// Load builds a Config from an optional JSON or YAML file plus environment
// overrides. The format follows the file extension.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

// ParseLogLevel accepts debug, info, warn or error.
func ParseLogLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// WithPreferences overlays the user settings that differ from their
// defaults, then reapplies the environment so it keeps the last word.
func (c Config) WithPreferences(p Preferences) Config {
	def := DefaultPreferences()
	if p.AutoProfileSwitching != def.AutoProfileSwitching {
		c.AutoSwitch = p.AutoProfileSwitching
	}
	if p.MonitoringInterval > 0 && p.MonitoringInterval != def.MonitoringInterval {
		c.MonitorInterval = time.Duration(p.MonitoringInterval) * time.Millisecond
	}
	applyEnvOverrides(&c)
	return c
}

func envDuration(name string, target *time.Duration) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	dur, err := time.ParseDuration(v)
	switch {
	case err != nil:
		slog.Warn("invalid environment override", "var", name, "value", v, "err", err)
	case dur <= 0:
		slog.Warn("ignoring non-positive environment override", "var", name, "value", v)
	default:
		*target = dur
	}
}

func applyEnvOverrides(cfg *Config) {
	envDuration(envMonitorInterval, &cfg.MonitorInterval)
	envDuration(envCommandTimeout, &cfg.CommandTimeout)

	if v := os.Getenv(envAutoSwitch); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.AutoSwitch = b
		} else {
			slog.Warn("invalid environment override", "var", envAutoSwitch, "value", v, "err", err)
		}
	}

	if v := os.Getenv(envSysfsRoot); v != "" {
		cfg.SysfsRoot = v
	}

	if v := os.Getenv(envLogLevel); v != "" {
		if lvl, ok := ParseLogLevel(v); ok {
			cfg.LogLevel = lvl
		} else {
			slog.Warn("invalid environment override", "var", envLogLevel, "value", v)
		}
	}
}

type fileConfig struct {
	MonitorInterval string   `json:"monitor_interval" yaml:"monitor_interval"`
	CommandTimeout  string   `json:"command_timeout" yaml:"command_timeout"`
	AutoSwitch      *bool    `json:"auto_switch" yaml:"auto_switch"`
	ACProfile       string   `json:"ac_profile" yaml:"ac_profile"`
	BatteryProfile  string   `json:"battery_profile" yaml:"battery_profile"`
	TempWarning     *float64 `json:"temp_warning" yaml:"temp_warning"`
	TempCritical    *float64 `json:"temp_critical" yaml:"temp_critical"`
	SysfsRoot       string   `json:"sysfs_root" yaml:"sysfs_root"`
	LogLevel        string   `json:"log_level" yaml:"log_level"`
}

func parsePositive(field, v string) (time.Duration, error) {
	dur, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", field, err)
	}
	if dur <= 0 {
		return 0, fmt.Errorf("%s must be > 0", field)
	}
	return dur, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var raw fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return err
	}

	if raw.MonitorInterval != "" {
		if cfg.MonitorInterval, err = parsePositive("monitor_interval", raw.MonitorInterval); err != nil {
			return err
		}
	}
	if raw.CommandTimeout != "" {
		if cfg.CommandTimeout, err = parsePositive("command_timeout", raw.CommandTimeout); err != nil {
			return err
		}
	}
	if raw.AutoSwitch != nil {
		cfg.AutoSwitch = *raw.AutoSwitch
	}
	if raw.ACProfile != "" {
		if _, ok := power.LookupPreset(raw.ACProfile); !ok {
			return fmt.Errorf("ac_profile: invalid profile: %s", raw.ACProfile)
		}
		cfg.ACProfile = raw.ACProfile
	}
	if raw.BatteryProfile != "" {
		if _, ok := power.LookupPreset(raw.BatteryProfile); !ok {
			return fmt.Errorf("battery_profile: invalid profile: %s", raw.BatteryProfile)
		}
		cfg.BatteryProfile = raw.BatteryProfile
	}
	if raw.TempWarning != nil {
		cfg.TempWarning = *raw.TempWarning
	}
	if raw.TempCritical != nil {
		cfg.TempCritical = *raw.TempCritical
	}
	if cfg.TempWarning >= cfg.TempCritical {
		return errors.New("temp_warning must be below temp_critical")
	}
	if raw.SysfsRoot != "" {
		cfg.SysfsRoot = raw.SysfsRoot
	}
	if raw.LogLevel != "" {
		lvl, ok := ParseLogLevel(raw.LogLevel)
		if !ok {
			return fmt.Errorf("invalid log_level %q", raw.LogLevel)
		}
		cfg.LogLevel = lvl
	}
	return nil
}

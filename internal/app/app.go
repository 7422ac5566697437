// Package app is the facade shared by the CLI, the TUI and the daemon. It
// wires the hardware controllers together and routes state-changing
// operations through the daemon when one is running.
package app

import (
	"fmt"
	"log/slog"
	"os"

	"armoury/internal/asusd"
	"armoury/internal/battery"
	"armoury/internal/config"
	"armoury/internal/display"
	"armoury/internal/execx"
	"armoury/internal/fan"
	"armoury/internal/gpu"
	"armoury/internal/hardware"
	"armoury/internal/keyboard"
	"armoury/internal/monitor"
	"armoury/internal/overclock"
	"armoury/internal/power"
	"armoury/internal/profiles"
	"armoury/internal/sensors"
	"armoury/internal/stats"
	"armoury/internal/sysfs"
	"armoury/internal/sysinfo"
)

// Options configures the top-level controller.
type Options struct {
	// ConfigPath points to the optional JSON or YAML config file.
	ConfigPath string
	// SysfsRoot overrides the config value; used by tests.
	SysfsRoot string
	// Runner replaces the real command runner.
	Runner execx.Runner
	Logger *slog.Logger
	// Without D-Bus, asusd and power-profiles-daemon are reached through
	// their CLIs only.
	DisableDBus bool

	ProfileDir   string
	SettingsPath string
	StatsDir     string
	// Getenv is used for display backend detection.
	Getenv func(string) string
}

// App exposes high-level operations that the CLI/TUI can reuse.
type App struct {
	cfgPath  string
	cfg      config.Config
	log      *slog.Logger
	fs       *sysfs.FS
	runner   execx.Runner
	statsDir string

	power     *power.Manager
	display   *display.Manager
	sensors   *sensors.Reader
	battery   *battery.Controller
	keyboard  *keyboard.Controller
	fans      *fan.Controller
	gpu       *gpu.Controller
	overclock *overclock.Controller
	detector  *hardware.Detector
	firmware  *hardware.Firmware
	sysinfo   *sysinfo.Reader
	profiles  *profiles.Store
	settings  *config.Settings
}

// New loads the configuration and constructs the controllers.
func New(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.SysfsRoot != "" {
		cfg.SysfsRoot = opts.SysfsRoot
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	runner := opts.Runner
	if runner == nil {
		runner = execx.New(cfg.CommandTimeout)
	}
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	a := &App{
		cfgPath:  opts.ConfigPath,
		cfg:      cfg,
		log:      logger,
		fs:       sysfs.New(cfg.SysfsRoot),
		runner:   runner,
		statsDir: opts.StatsDir,
	}
	if a.statsDir == "" {
		a.statsDir = stats.DefaultDir()
	}

	settingsPath := opts.SettingsPath
	if settingsPath == "" {
		settingsPath = config.SettingsPath()
	}
	if a.settings, err = config.OpenSettings(settingsPath); err != nil {
		return nil, fmt.Errorf("open settings: %w", err)
	}
	profileDir := opts.ProfileDir
	if profileDir == "" {
		profileDir = profiles.DefaultDir()
	}
	a.profiles, err = profiles.NewStore(profileDir,
		profiles.WithLogger(logger.With("component", "profiles")),
		profiles.WithSettings(a.settings))
	if err != nil {
		return nil, err
	}

	var platform *asusd.Platform
	var ppd *asusd.PowerProfiles
	if !opts.DisableDBus {
		if platform, err = asusd.SystemPlatform(); err != nil {
			logger.Debug("asusd unavailable", "err", err)
			platform = nil
		}
		if ppd, err = asusd.SystemPowerProfiles(); err != nil {
			logger.Debug("power-profiles-daemon unavailable", "err", err)
			ppd = nil
		}
	}

	a.display = display.NewWithEnv(runner, getenv)
	a.sensors = sensors.New(a.fs, runner)
	a.keyboard = keyboard.New(a.fs, runner)
	a.fans = fan.New(a.fs, runner, a.sensors)
	a.overclock = overclock.New(a.fs, runner)
	a.detector = hardware.NewDetector(a.fs, runner)
	a.sysinfo = sysinfo.New(a.fs, runner)

	powerOpts := []power.Option{power.WithDisplay(a.display), power.WithLogger(logger.With("component", "power"))}
	if platform != nil {
		powerOpts = append(powerOpts, power.WithAsusd(platform))
		a.battery = battery.New(a.fs, runner, platform)
		a.gpu = gpu.New(a.fs, runner, platform)
		a.firmware = hardware.NewFirmware(a.fs, runner, platform)
	} else {
		a.battery = battery.New(a.fs, runner, nil)
		a.gpu = gpu.New(a.fs, runner, nil)
		a.firmware = hardware.NewFirmware(a.fs, runner, nil)
	}
	if ppd != nil {
		powerOpts = append(powerOpts, power.WithPowerProfiles(ppd))
	}
	a.power = power.NewManager(runner, a.fs, powerOpts...)
	return a, nil
}

// ConfigPath returns the configured config file path (if any).
func (a *App) ConfigPath() string {
	return a.cfgPath
}

// Config returns the effective configuration: the loaded file with the
// user settings and then the environment layered on top.
func (a *App) Config() config.Config {
	cfg := a.cfg.WithPreferences(a.settings.All())
	cfg.SysfsRoot = a.cfg.SysfsRoot
	return cfg
}

// Settings returns the user preferences document.
func (a *App) Settings() *config.Settings {
	return a.settings
}

// NewMonitor builds a monitor over this App's sensors. The daemon runs it
// in the background; `armoury monitor` steps it in the foreground.
func (a *App) NewMonitor() *monitor.Monitor {
	cfg := a.Config()
	sampler := monitor.NewSampler(a.fs, a.runner, a.sensors, a.power, a.display)
	return monitor.New(sampler, stats.New(), a.power, monitor.Config{
		Interval:       cfg.MonitorInterval,
		AutoSwitch:     cfg.AutoSwitch,
		ACProfile:      cfg.ACProfile,
		BatteryProfile: cfg.BatteryProfile,
		Thresholds:     sensors.Thresholds{Warning: cfg.TempWarning, Critical: cfg.TempCritical},
		StatsDir:       a.statsDir,
	}, a.log.With("component", "monitor"))
}

// Version returns the application version.
func (a *App) Version() string {
	return power.Version
}


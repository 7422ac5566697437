package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"armoury/internal/app"
	"armoury/internal/battery"
	"armoury/internal/config"
	"armoury/internal/display"
	"armoury/internal/fan"
	"armoury/internal/gpu"
	"armoury/internal/hardware"
	"armoury/internal/keyboard"
	"armoury/internal/overclock"
	"armoury/internal/profiles"
	"armoury/internal/sensors"
	"armoury/internal/stats"
	"armoury/internal/sysinfo"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "armoury [command]",
	Short: "armoury: ASUS ROG laptop control center",
	Long: `armoury switches power profiles, refresh rates, fan curves, keyboard lighting,
battery charge limits and GPU modes on ASUS ROG laptops running Linux.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to JSON or YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// controllerAPI is the subset of app.App the commands use.
type controllerAPI interface {
	Config() config.Config
	Version() string

	Ping(ctx context.Context, timeout time.Duration) (string, error)
	DaemonVersion(ctx context.Context, timeout time.Duration) (string, error)
	Status() (app.DaemonStatus, error)
	StopDaemon(force bool) error
	StartDaemon() (*app.DaemonHandle, error)

	PowerProfiles(ctx context.Context) app.PowerProfiles
	ApplyPowerProfile(ctx context.Context, params app.PowerProfileParams) (app.PowerProfileResult, error)
	SetRefreshRate(ctx context.Context, hz int) (string, error)
	SystemStatus(ctx context.Context, params app.StatusParams) (app.SystemStatus, error)
	Temperatures(ctx context.Context) sensors.Status
	DisplayInfo(ctx context.Context) display.Info
	SupportedRefreshRates(ctx context.Context) []int

	Detect(ctx context.Context, force bool) hardware.Capabilities
	Model() (hardware.Model, bool)
	Tools() []hardware.Tool
	SystemInfo(ctx context.Context) sysinfo.Info
	PanelOverdrive(ctx context.Context) (bool, error)
	SetPanelOverdrive(ctx context.Context, enabled bool) (string, error)
	BootSound(ctx context.Context) (bool, error)
	SetBootSound(ctx context.Context, enabled bool) (string, error)

	BatteryInfo() battery.Info
	SetChargeLimit(ctx context.Context, params app.ChargeLimitParams) (app.ChargeLimitResult, error)

	FanSpeeds(ctx context.Context) ([]fan.Status, map[string]float64)
	ApplyFanPreset(ctx context.Context, name string) (string, error)

	KeyboardInfo() keyboard.Info
	SetKeyboard(ctx context.Context, params app.KeyboardParams) ([]string, error)
	CycleKeyboard(ctx context.Context) (string, error)

	CPUInfo() overclock.CPUInfo
	SetGovernor(ctx context.Context, governor string) (string, error)
	SetTurbo(ctx context.Context, enabled bool) (string, error)
	SetEPP(ctx context.Context, pref string) (string, error)
	SetCPUFrequency(ctx context.Context, minMHz, maxMHz int) (string, error)
	SetTDP(ctx context.Context, params app.TDPParams) (string, error)
	SetTempLimit(ctx context.Context, celsius int) (string, error)
	RyzenAdjInfo(ctx context.Context) ([]overclock.RyzenAdjValue, error)

	AMDGPUInfo() (overclock.AMDGPUInfo, error)
	SetGPUPerformance(ctx context.Context, level string) (string, error)
	GPUPowerProfiles() ([]overclock.PowerProfile, error)
	SetGPUPowerProfile(ctx context.Context, index int) (string, error)
	ResetGPUClocks(ctx context.Context) (string, error)
	GPUSwitching(ctx context.Context) gpu.SwitchingStatus
	SetGPUMode(ctx context.Context, name string) (string, error)
	GPUStats(ctx context.Context) gpu.LiveStats
	GPUDevices(ctx context.Context) []gpu.Device

	SystemProfiles() profiles.Listing
	SystemProfile(name string) (profiles.SystemProfile, error)
	ApplySystemProfile(ctx context.Context, params app.SystemProfileParams) (app.SystemProfileResult, error)
	DeleteSystemProfile(name string) error
	ExportSystemProfile(name, path string) error
	ImportSystemProfile(path string) (profiles.SystemProfile, error)

	SessionSummary(ctx context.Context, timeout time.Duration) (stats.Summary, error)
	StatsHistory() ([]stats.Summary, error)

	SettingValues() (map[string]any, error)
	Setting(key string) (any, error)
	SetSetting(key, raw string) (string, error)
	ResetSettings() error
	ExportSettings(path string) error
	ImportSettings(path string) error
}

var controllerFactory = func() (controllerAPI, error) {
	return app.New(app.Options{ConfigPath: configPath, Logger: newLogger()})
}

func controller() (controllerAPI, error) {
	return controllerFactory()
}

func newLogger() *slog.Logger {
	cfg, err := config.Load(configPath)
	if err != nil {
		// app.New reports the same error.
		cfg = config.Default()
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(cfg, verbose)}))
}

// logLevel honours the configured level; -v lowers it to debug.
func logLevel(cfg config.Config, verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return cfg.LogLevel
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// Package fan reports fan speeds and applies fan curves.
package fan

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"

	"armoury/internal/execx"
	"armoury/internal/sysfs"
)

const curveEnablePath = "/sys/devices/platform/asus-nb-wmi/fan_curve_enable"

// ErrNotSupported is returned when the platform has no fan curve control.
var ErrNotSupported = errors.New("custom fan curves not supported")

// Status is one fan reading.
type Status struct {
	ID   int
	Name string
	RPM  int
}

// TempReader provides the temperatures shown next to fan speeds.
type TempReader interface {
	CPUTemperature(ctx context.Context) (float64, bool)
	GPUTemperature(ctx context.Context) (float64, bool)
}

// Controller reads fans from the ASUS hwmon and writes curves.
type Controller struct {
	fs     *sysfs.FS
	runner execx.Runner
	temps  TempReader
}

// New returns a Controller. temps may be nil.
func New(fs *sysfs.FS, r execx.Runner, temps TempReader) *Controller {
	return &Controller{fs: fs, runner: r, temps: temps}
}

func (c *Controller) hwmon() (string, bool) {
	return c.fs.FindHwmon("asus", "asus-nb-wmi", "asus_wmi_sensors")
}

// Speeds returns the readable fans, at most four.
func (c *Controller) Speeds() []Status {
	dir, ok := c.hwmon()
	if !ok {
		return nil
	}
	var out []Status
	for i := 1; i <= 4; i++ {
		rpm, err := c.fs.ReadInt(path.Join(dir, "fan"+strconv.Itoa(i)+"_input"))
		if err != nil {
			continue
		}
		name := c.fs.ReadString(path.Join(dir, "fan"+strconv.Itoa(i)+"_label"))
		if name == "" {
			name = "Fan " + strconv.Itoa(i)
		}
		out = append(out, Status{ID: i, Name: name, RPM: rpm})
	}
	return out
}

// Supported reports whether at least one fan is readable.
func (c *Controller) Supported() bool {
	return len(c.Speeds()) > 0
}

// HasCurves reports whether the firmware accepts custom curves.
func (c *Controller) HasCurves() bool {
	return c.fs.Exists(curveEnablePath)
}

// EnableCurves toggles fan_curve_enable.
func (c *Controller) EnableCurves(ctx context.Context, enable bool) (string, error) {
	if !c.HasCurves() {
		return "", ErrNotSupported
	}
	value, word := "0", "disabled"
	if enable {
		value, word = "1", "enabled"
	}
	if err := c.fs.WritePrivileged(ctx, c.runner, curveEnablePath, value); err != nil {
		return "", err
	}
	return fmt.Sprintf("Custom fan curve %s", word), nil
}

// ApplyCurve writes curve for both fans under the given asusctl profile
// and enables custom curves.
func (c *Controller) ApplyCurve(ctx context.Context, profile string, curve Curve) error {
	if err := curve.Validate(); err != nil {
		return err
	}
	data := curve.String()
	for _, f := range []string{"cpu", "gpu"} {
		if _, err := c.runner.Run(ctx, "asusctl", "fan-curve", "--mod-profile", profile, "--fan", f, "--data", data); err != nil {
			return fmt.Errorf("set %s fan curve: %w", f, err)
		}
	}
	if _, err := c.runner.Run(ctx, "asusctl", "fan-curve", "--mod-profile", profile, "--enable-fan-curves", "true"); err != nil {
		return fmt.Errorf("enable fan curves: %w", err)
	}
	return nil
}

// ApplyPreset applies a named preset through asusctl, or just enables the
// firmware curve when asusctl is missing.
func (c *Controller) ApplyPreset(ctx context.Context, name string) (string, error) {
	key, ok := PresetFor(name)
	if !ok {
		return "", fmt.Errorf("unknown fan preset: %s", name)
	}
	if !c.runner.LookPath("asusctl") {
		return c.EnableCurves(ctx, true)
	}
	if err := c.ApplyCurve(ctx, asusctlProfile(key), Presets[key]); err != nil {
		return "", err
	}
	return fmt.Sprintf("Fan curve set to %s", key), nil
}

// Temperatures returns CPU and GPU temperatures; missing readings are absent.
func (c *Controller) Temperatures(ctx context.Context) map[string]float64 {
	out := make(map[string]float64, 2)
	if c.temps == nil {
		return out
	}
	if t, ok := c.temps.CPUTemperature(ctx); ok {
		out["cpu"] = t
	}
	if t, ok := c.temps.GPUTemperature(ctx); ok {
		out["gpu"] = t
	}
	return out
}

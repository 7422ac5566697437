// Package battery controls the charge end threshold and reports pack health.
package battery

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path"

	"armoury/internal/execx"
	"armoury/internal/sysfs"
)

// Charge limit presets.
const (
	Maximum  = 100
	Balanced = 80
	Lifespan = 60
)

const thresholdFile = "charge_control_end_threshold"

var (
	// ErrNotSupported is returned when the battery has no threshold control.
	ErrNotSupported = errors.New("charge limit control not supported")
	// ErrInvalidLimit carries the user facing range message.
	ErrInvalidLimit = errors.New("charge limit must be between 60 and 100")
)

// ChargeClient is the asusd subset used for the threshold.
type ChargeClient interface {
	Available(ctx context.Context) bool
	SetChargeLimit(ctx context.Context, limit int) error
}

// Controller reads and writes the battery charge limit.
type Controller struct {
	fs     *sysfs.FS
	runner execx.Runner
	asusd  ChargeClient
}

// New returns a Controller. asusd may be nil.
func New(fs *sysfs.FS, r execx.Runner, asusd ChargeClient) *Controller {
	return &Controller{fs: fs, runner: r, asusd: asusd}
}

// Path returns the battery directory.
func (c *Controller) Path() (string, bool) {
	return c.fs.FindBattery()
}

func (c *Controller) thresholdPath() (string, bool) {
	dir, ok := c.fs.FindBattery()
	if !ok {
		return "", false
	}
	p := path.Join(dir, thresholdFile)
	return p, c.fs.Exists(p)
}

// Supported reports whether the threshold file exists.
func (c *Controller) Supported() bool {
	_, ok := c.thresholdPath()
	return ok
}

// Limit returns the current threshold.
func (c *Controller) Limit() (int, error) {
	p, ok := c.thresholdPath()
	if !ok {
		return 0, ErrNotSupported
	}
	return c.fs.ReadInt(p)
}

// ValidLimit reports whether n is an accepted threshold.
func ValidLimit(n int) bool {
	return n >= Lifespan && n <= Maximum
}

// SetLimit writes the threshold through asusd when it is running, else
// directly or through pkexec.
func (c *Controller) SetLimit(ctx context.Context, limit int) (string, error) {
	if !ValidLimit(limit) {
		return "", ErrInvalidLimit
	}
	msg := fmt.Sprintf("Charge limit set to %d%%", limit)
	if c.asusd != nil && c.asusd.Available(ctx) {
		if err := c.asusd.SetChargeLimit(ctx, limit); err == nil {
			return msg, nil
		}
	}
	p, ok := c.thresholdPath()
	if !ok {
		return "", ErrNotSupported
	}
	if err := c.fs.WritePrivileged(ctx, c.runner, p, fmt.Sprint(limit)); err != nil {
		return "", fmt.Errorf("failed to set charge limit: %w", err)
	}
	return msg, nil
}

// Info is a battery report.
type Info struct {
	Supported        bool
	ChargeLimit      int
	Status           string
	Capacity         int
	EnergyFull       int64
	EnergyFullDesign int64
	VoltageNow       int64
	CurrentNow       int64
	// Health is energy_full / energy_full_design in percent, 0 when unknown.
	Health float64
}

// Info reads every battery attribute that exists.
func (c *Controller) Info() Info {
	info := Info{Supported: c.Supported()}
	info.ChargeLimit, _ = c.Limit()
	dir, ok := c.fs.FindBattery()
	if !ok {
		return info
	}
	info.Status = c.fs.ReadString(path.Join(dir, "status"))
	info.Capacity, _ = c.fs.ReadInt(path.Join(dir, "capacity"))
	info.EnergyFull, _ = c.fs.ReadInt64(path.Join(dir, "energy_full"))
	info.EnergyFullDesign, _ = c.fs.ReadInt64(path.Join(dir, "energy_full_design"))
	info.VoltageNow, _ = c.fs.ReadInt64(path.Join(dir, "voltage_now"))
	info.CurrentNow, _ = c.fs.ReadInt64(path.Join(dir, "current_now"))
	if info.EnergyFullDesign > 0 && info.EnergyFull > 0 {
		info.Health = math.Round(float64(info.EnergyFull)/float64(info.EnergyFullDesign)*1000) / 10
	}
	return info
}

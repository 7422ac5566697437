// Package keyboard drives the keyboard backlight and Aura RGB lighting.
package keyboard

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path"
	"strconv"
	"strings"

	"armoury/internal/execx"
	"armoury/internal/sysfs"
)

// BacklightPath is the asus-wmi keyboard LED.
const BacklightPath = "/sys/class/leds/asus::kbd_backlight"

const defaultMaxBrightness = 3

var (
	ErrNotSupported    = errors.New("keyboard backlight not supported")
	ErrRGBNotSupported = errors.New("RGB control not supported")
)

// Controller reads and writes the keyboard LED.
type Controller struct {
	fs     *sysfs.FS
	runner execx.Runner
}

// New returns a Controller.
func New(fs *sysfs.FS, r execx.Runner) *Controller {
	return &Controller{fs: fs, runner: r}
}

// Supported reports whether the backlight exists.
func (c *Controller) Supported() bool {
	return c.fs.Exists(BacklightPath)
}

// HasRGB reports whether multi_intensity is exposed.
func (c *Controller) HasRGB() bool {
	return c.fs.Exists(path.Join(BacklightPath, "multi_intensity"))
}

// MaxBrightness returns max_brightness, 3 when unreadable.
func (c *Controller) MaxBrightness() int {
	if n, err := c.fs.ReadInt(path.Join(BacklightPath, "max_brightness")); err == nil && n > 0 {
		return n
	}
	return defaultMaxBrightness
}

// Brightness returns the current level.
func (c *Controller) Brightness() (int, error) {
	if !c.Supported() {
		return 0, ErrNotSupported
	}
	return c.fs.ReadInt(path.Join(BacklightPath, "brightness"))
}

// SetBrightness clamps level to 0..max and writes it.
func (c *Controller) SetBrightness(ctx context.Context, level int) (string, error) {
	if !c.Supported() {
		return "", ErrNotSupported
	}
	level = max(0, min(c.MaxBrightness(), level))
	if err := c.fs.WritePrivileged(ctx, c.runner, path.Join(BacklightPath, "brightness"), strconv.Itoa(level)); err != nil {
		return "", err
	}
	return fmt.Sprintf("Brightness set to %d", level), nil
}

// SetBrightnessPercent maps 0..100 onto the hardware levels.
func (c *Controller) SetBrightnessPercent(ctx context.Context, percent int) (string, error) {
	percent = max(0, min(100, percent))
	level := int(math.Round(float64(percent) / 100 * float64(c.MaxBrightness())))
	return c.SetBrightness(ctx, level)
}

// Cycle steps to the next level, wrapping to off after max.
func (c *Controller) Cycle(ctx context.Context) (string, error) {
	cur, err := c.Brightness()
	if err != nil {
		return "", fmt.Errorf("could not read current brightness: %w", err)
	}
	return c.SetBrightness(ctx, (cur+1)%(c.MaxBrightness()+1))
}

// Color returns the current RGB colour.
func (c *Controller) Color() (RGB, error) {
	if !c.HasRGB() {
		return RGB{}, ErrRGBNotSupported
	}
	v, err := c.fs.Read(path.Join(BacklightPath, "multi_intensity"))
	if err != nil {
		return RGB{}, err
	}
	parts := strings.Fields(v)
	if len(parts) < 3 {
		return RGB{}, fmt.Errorf("unexpected multi_intensity %q", v)
	}
	var ch [3]int
	for i := range ch {
		if ch[i], err = strconv.Atoi(parts[i]); err != nil {
			return RGB{}, fmt.Errorf("parse multi_intensity: %w", err)
		}
	}
	return NewRGB(ch[0], ch[1], ch[2]), nil
}

// SetColor writes color to multi_intensity.
func (c *Controller) SetColor(ctx context.Context, color RGB) (string, error) {
	if !c.HasRGB() {
		return "", ErrRGBNotSupported
	}
	value := fmt.Sprintf("%d %d %d", color.R, color.G, color.B)
	if err := c.fs.WritePrivileged(ctx, c.runner, path.Join(BacklightPath, "multi_intensity"), value); err != nil {
		return "", err
	}
	return fmt.Sprintf("Color set to %s", color.Hex()), nil
}

// Info summarises the keyboard state.
type Info struct {
	Supported     bool
	HasRGB        bool
	Brightness    int
	MaxBrightness int
	Color         string
}

// Info reads the keyboard state.
func (c *Controller) Info() Info {
	info := Info{
		Supported:     c.Supported(),
		HasRGB:        c.HasRGB(),
		MaxBrightness: c.MaxBrightness(),
	}
	info.Brightness, _ = c.Brightness()
	if col, err := c.Color(); err == nil {
		info.Color = col.Hex()
	}
	return info
}

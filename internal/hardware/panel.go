package hardware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"armoury/internal/execx"
	"armoury/internal/sysfs"
)

// ErrNotSupported is returned when neither asusctl, asusd nor sysfs expose
// the requested control.
var ErrNotSupported = errors.New("not supported on this hardware")

// PanelClient is the asusd subset used for panel overdrive.
type PanelClient interface {
	Available(ctx context.Context) bool
	PanelOverdrive(ctx context.Context) (bool, error)
	SetPanelOverdrive(ctx context.Context, enabled bool) error
}

// Firmware toggles panel overdrive and the POST boot sound.
type Firmware struct {
	fs     *sysfs.FS
	runner execx.Runner
	asusd  PanelClient
}

// NewFirmware returns a Firmware. asusd may be nil.
func NewFirmware(fs *sysfs.FS, r execx.Runner, asusd PanelClient) *Firmware {
	return &Firmware{fs: fs, runner: r, asusd: asusd}
}

func parseToggle(out string) bool {
	fields := strings.Fields(strings.ToLower(out))
	if len(fields) == 0 {
		return false
	}
	switch fields[len(fields)-1] {
	case "1", "on", "true", "enabled":
		return true
	case "0", "off", "false", "disabled":
		return false
	}
	out = strings.ToLower(out)
	return strings.Contains(out, "true") || strings.Contains(out, "enabled")
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}

func enabledWord(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

// PanelOverdrive returns the current panel overdrive state.
func (f *Firmware) PanelOverdrive(ctx context.Context) (bool, error) {
	if f.runner.LookPath("asusctl") {
		if out, err := f.runner.Run(ctx, "asusctl", "armoury", "get", "panel_od"); err == nil {
			return parseToggle(out), nil
		}
	}
	if f.asusd != nil && f.asusd.Available(ctx) {
		if on, err := f.asusd.PanelOverdrive(ctx); err == nil {
			return on, nil
		}
	}
	if v, err := f.fs.Read(panelODPath); err == nil {
		return v == "1", nil
	}
	return false, ErrNotSupported
}

// SetPanelOverdrive enables or disables panel overdrive.
func (f *Firmware) SetPanelOverdrive(ctx context.Context, enabled bool) (string, error) {
	msg := fmt.Sprintf("Panel overdrive %s", enabledWord(enabled))
	value := "0"
	if enabled {
		value = "1"
	}
	if f.runner.LookPath("asusctl") {
		if _, err := f.runner.Run(ctx, "asusctl", "armoury", "set", "panel_od", value); err == nil {
			return msg, nil
		}
	}
	if f.asusd != nil && f.asusd.Available(ctx) {
		if err := f.asusd.SetPanelOverdrive(ctx, enabled); err == nil {
			return msg, nil
		}
	}
	if !f.fs.Exists(panelODPath) {
		return "", fmt.Errorf("panel overdrive: %w", ErrNotSupported)
	}
	if err := f.fs.WritePrivileged(ctx, f.runner, panelODPath, value); err != nil {
		return "", err
	}
	return msg, nil
}

// BootSound returns whether the POST sound is enabled.
func (f *Firmware) BootSound(ctx context.Context) (bool, error) {
	out, err := f.runner.Run(ctx, "asusctl", "bios", "post-sound", "-g")
	if err != nil {
		if errors.Is(err, execx.ErrNotFound) {
			return false, ErrNotSupported
		}
		return false, err
	}
	return parseToggle(out), nil
}

// SetBootSound enables or disables the POST sound.
func (f *Firmware) SetBootSound(ctx context.Context, enabled bool) (string, error) {
	if _, err := f.runner.Run(ctx, "asusctl", "bios", "post-sound", onOff(enabled)); err != nil {
		return "", err
	}
	return fmt.Sprintf("Boot sound %s", enabledWord(enabled)), nil
}

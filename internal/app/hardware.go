package app

import (
	"context"
	"errors"
	"fmt"

	armouryv1 "armoury/api/armoury/v1"
	"armoury/internal/battery"
	"armoury/internal/daemon"
	"armoury/internal/display"
	"armoury/internal/fan"
	"armoury/internal/hardware"
	"armoury/internal/keyboard"
	"armoury/internal/sensors"
	"armoury/internal/sysinfo"

	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Detect returns the hardware capabilities, cached unless force is set.
func (a *App) Detect(ctx context.Context, force bool) hardware.Capabilities {
	return a.detector.Detect(ctx, force)
}

// Model returns the DMI identification.
func (a *App) Model() (hardware.Model, bool) {
	return hardware.ReadModel(a.fs)
}

// Tools reports the installed helper binaries.
func (a *App) Tools() []hardware.Tool {
	return hardware.Tools(a.runner)
}

// Temperatures reads every sensor once.
func (a *App) Temperatures(ctx context.Context) sensors.Status {
	return a.sensors.Status(ctx)
}

// DisplayInfo reports the primary display.
func (a *App) DisplayInfo(ctx context.Context) display.Info {
	return a.display.Info(ctx)
}

// SystemInfo collects CPU, GPU, memory, storage and OS details.
func (a *App) SystemInfo(ctx context.Context) sysinfo.Info {
	return a.sysinfo.Collect(ctx)
}

// BatteryInfo reads the battery report.
func (a *App) BatteryInfo() battery.Info {
	return a.battery.Info()
}

// SetChargeLimit sets the battery threshold, through the daemon when it is
// running.
func (a *App) SetChargeLimit(ctx context.Context, params ChargeLimitParams) (ChargeLimitResult, error) {
	if !battery.ValidLimit(params.Limit) {
		return ChargeLimitResult{}, battery.ErrInvalidLimit
	}
	var res ChargeLimitResult
	remote, err := a.viaDaemon(ctx, params.Timeout, func(ctx context.Context, client armouryv1.ArmouryClient) error {
		resp, err := client.SetChargeLimit(ctx, wrapperspb.Int32(int32(params.Limit)))
		if err != nil {
			return fmt.Errorf("daemon charge limit RPC failed: %w", err)
		}
		return daemon.DecodeStruct(resp, &res)
	})
	if remote {
		res.ViaDaemon = true
		return res, err
	}
	msg, err := a.battery.SetLimit(ctx, params.Limit)
	if err != nil {
		return ChargeLimitResult{}, err
	}
	return ChargeLimitResult{Message: msg}, nil
}

// FanSpeeds returns the fan readings and the temperatures next to them.
func (a *App) FanSpeeds(ctx context.Context) ([]fan.Status, map[string]float64) {
	return a.fans.Speeds(), a.fans.Temperatures(ctx)
}

// ApplyFanPreset applies a named fan curve.
func (a *App) ApplyFanPreset(ctx context.Context, name string) (string, error) {
	return a.fans.ApplyPreset(ctx, name)
}

// KeyboardInfo reads the keyboard state.
func (a *App) KeyboardInfo() keyboard.Info {
	return a.keyboard.Info()
}

// SetKeyboard applies every non-zero field of params and returns one
// message per change.
func (a *App) SetKeyboard(ctx context.Context, params KeyboardParams) ([]string, error) {
	var msgs []string
	if params.Brightness >= 0 {
		msg, err := a.keyboard.SetBrightness(ctx, params.Brightness)
		if err != nil {
			return msgs, err
		}
		msgs = append(msgs, msg)
	}
	var color *keyboard.RGB
	if params.Color != "" {
		c, err := keyboard.ParseColor(params.Color)
		if err != nil {
			return msgs, err
		}
		color = &c
		if params.Effect == "" {
			msg, err := a.keyboard.SetColor(ctx, c)
			if err != nil {
				return msgs, err
			}
			msgs = append(msgs, msg)
		}
	}
	if params.Effect != "" {
		e, ok := keyboard.ParseEffect(params.Effect)
		if !ok {
			return msgs, fmt.Errorf("unknown effect: %s", params.Effect)
		}
		var color2 *keyboard.RGB
		if params.Color2 != "" {
			if !keyboard.TakesSecondColor(e) {
				return msgs, fmt.Errorf("effect %s takes no second colour", e)
			}
			c, err := keyboard.ParseColor(params.Color2)
			if err != nil {
				return msgs, err
			}
			color2 = &c
		}
		msg, err := a.keyboard.SetEffect(ctx, e, color, color2)
		if err != nil {
			return msgs, err
		}
		msgs = append(msgs, msg)
	}
	if len(msgs) == 0 {
		return nil, errors.New("nothing to change")
	}
	return msgs, nil
}

// PanelOverdrive reports the panel overdrive state.
func (a *App) PanelOverdrive(ctx context.Context) (bool, error) {
	return a.firmware.PanelOverdrive(ctx)
}

// SetPanelOverdrive toggles panel overdrive.
func (a *App) SetPanelOverdrive(ctx context.Context, enabled bool) (string, error) {
	return a.firmware.SetPanelOverdrive(ctx, enabled)
}

// CycleKeyboard steps the backlight to the next level.
func (a *App) CycleKeyboard(ctx context.Context) (string, error) {
	return a.keyboard.Cycle(ctx)
}

// BootSound reports whether the POST sound is enabled.
func (a *App) BootSound(ctx context.Context) (bool, error) {
	return a.firmware.BootSound(ctx)
}

// SetBootSound toggles the POST sound.
func (a *App) SetBootSound(ctx context.Context, enabled bool) (string, error) {
	return a.firmware.SetBootSound(ctx, enabled)
}

// SupportedRefreshRates lists the rates of the primary display at its
// current resolution.
func (a *App) SupportedRefreshRates(ctx context.Context) []int {
	return a.display.SupportedRates(ctx)
}

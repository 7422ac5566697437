package app

import (
	"context"
	"fmt"

	armouryv1 "armoury/api/armoury/v1"
	"armoury/internal/daemon"
	"armoury/internal/fan"
	"armoury/internal/gpu"
	"armoury/internal/keyboard"
	"armoury/internal/overclock"
	"armoury/internal/power"
	"armoury/internal/profiles"

	"google.golang.org/protobuf/types/known/wrapperspb"
)

// hardwareApplier runs the individual steps of a system profile against
// the local controllers.
type hardwareApplier struct {
	a *App
}

// SetTDP uses the profile wattage for STAPM and slow limits and five
// watts more for the fast limit, capped at the hardware maximum.
func (h hardwareApplier) SetTDP(ctx context.Context, watts int) error {
	_, err := h.a.overclock.SetTDP(ctx, overclock.TDP{STAPM: watts, Fast: min(watts+5, power.MaxTDP), Slow: watts})
	return err
}

func (h hardwareApplier) SetGPUMode(ctx context.Context, name string) error {
	mode, ok := gpu.ParseMode(name)
	if !ok {
		return fmt.Errorf("unknown GPU mode: %s", name)
	}
	_, err := h.a.gpu.SetMode(ctx, mode)
	return err
}

func (h hardwareApplier) SetFanCurve(ctx context.Context, curve string) error {
	if _, ok := fan.PresetFor(curve); !ok {
		return fmt.Errorf("unknown fan curve: %s", curve)
	}
	_, err := h.a.fans.ApplyPreset(ctx, curve)
	return err
}

func (h hardwareApplier) SetKeyboardBrightness(ctx context.Context, percent int) error {
	_, err := h.a.keyboard.SetBrightnessPercent(ctx, percent)
	return err
}

func (h hardwareApplier) SetKeyboardEffect(ctx context.Context, name string) error {
	e, ok := keyboard.ParseEffect(name)
	if !ok {
		return fmt.Errorf("unknown effect: %s", name)
	}
	_, err := h.a.keyboard.SetEffect(ctx, e, nil, nil)
	return err
}

func (h hardwareApplier) SetChargeLimit(ctx context.Context, limit int) error {
	_, err := h.a.battery.SetLimit(ctx, limit)
	return err
}

func (h hardwareApplier) SetRefreshRate(ctx context.Context, hz int) error {
	_, err := h.a.display.SetRefreshRate(ctx, hz)
	return err
}

// SystemProfiles lists builtin and custom profiles.
func (a *App) SystemProfiles() profiles.Listing {
	return a.profiles.List()
}

// SystemProfile returns one profile by name.
func (a *App) SystemProfile(name string) (profiles.SystemProfile, error) {
	return a.profiles.Get(name)
}

// ApplyProfileLocal applies a stored profile in this process. The daemon
// calls it for ApplySystemProfile.
func (a *App) ApplyProfileLocal(ctx context.Context, name string) (profiles.ApplyResult, error) {
	p, err := a.profiles.Get(name)
	if err != nil {
		return profiles.ApplyResult{}, err
	}
	return a.profiles.Apply(ctx, p, hardwareApplier{a: a}), nil
}

// ApplySystemProfile applies a stored profile, through the daemon when it
// is running.
func (a *App) ApplySystemProfile(ctx context.Context, params SystemProfileParams) (SystemProfileResult, error) {
	var res SystemProfileResult
	remote, err := a.viaDaemon(ctx, params.Timeout, func(ctx context.Context, client armouryv1.ArmouryClient) error {
		resp, err := client.ApplySystemProfile(ctx, wrapperspb.String(params.Name))
		if err != nil {
			return fmt.Errorf("daemon apply profile RPC failed: %w", err)
		}
		return daemon.DecodeStruct(resp, &res)
	})
	if remote {
		res.ViaDaemon = true
		return res, err
	}
	out, err := a.ApplyProfileLocal(ctx, params.Name)
	if err != nil {
		return SystemProfileResult{}, err
	}
	return SystemProfileResult{OK: out.OK(), Message: out.Message(), Failed: out.Failed}, nil
}

// SaveSystemProfile stores a custom profile.
func (a *App) SaveSystemProfile(p profiles.SystemProfile) error {
	return a.profiles.Save(p)
}

// DeleteSystemProfile removes a custom profile.
func (a *App) DeleteSystemProfile(name string) error {
	return a.profiles.Delete(name)
}

// ExportSystemProfile writes a profile to path as JSON or YAML.
func (a *App) ExportSystemProfile(name, path string) error {
	return a.profiles.Export(name, path)
}

// ImportSystemProfile reads a profile file and stores it.
func (a *App) ImportSystemProfile(path string) (profiles.SystemProfile, error) {
	return a.profiles.Import(path)
}

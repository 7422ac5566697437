package profiles

import (
	"context"
	"strings"
)

// Applier performs the individual hardware steps of a profile.
type Applier interface {
	SetTDP(ctx context.Context, watts int) error
	SetGPUMode(ctx context.Context, mode string) error
	SetFanCurve(ctx context.Context, curve string) error
	SetKeyboardBrightness(ctx context.Context, percent int) error
	SetKeyboardEffect(ctx context.Context, effect string) error
	SetChargeLimit(ctx context.Context, limit int) error
	SetRefreshRate(ctx context.Context, hz int) error
}

// Step names reported in ApplyResult.Failed.
const (
	StepTDP         = "tdp"
	StepGPUMode     = "gpu_mode"
	StepFanCurve    = "fan_curve"
	StepRGB         = "rgb"
	StepBattery     = "battery_limit"
	StepRefreshRate = "refresh_rate"
)

// ApplyResult lists the steps that failed.
type ApplyResult struct {
	Profile string
	Failed  []string
}

// OK reports whether every step succeeded.
func (r ApplyResult) OK() bool { return len(r.Failed) == 0 }

// Message is the user facing outcome.
func (r ApplyResult) Message() string {
	if r.OK() {
		return "Profile '" + r.Profile + "' applied successfully"
	}
	return "Profile '" + r.Profile + "' applied with errors: " + strings.Join(r.Failed, ", ")
}

// Apply runs every step of p in order. A failing step is logged and
// recorded; the remaining steps still run.
func (s *Store) Apply(ctx context.Context, p SystemProfile, a Applier) ApplyResult {
	res := ApplyResult{Profile: p.Name}
	s.log.Info("applying profile", "name", p.Name)

	step := func(name string, fn func() error) {
		if err := fn(); err != nil {
			s.log.Error("profile step failed", "profile", p.Name, "step", name, "err", err)
			res.Failed = append(res.Failed, name)
		}
	}

	step(StepTDP, func() error { return a.SetTDP(ctx, p.TDPWatts) })
	step(StepGPUMode, func() error { return a.SetGPUMode(ctx, p.GPUMode) })
	step(StepFanCurve, func() error { return a.SetFanCurve(ctx, p.FanCurve) })
	step(StepRGB, func() error {
		if err := a.SetKeyboardBrightness(ctx, p.RGBBrightness); err != nil {
			return err
		}
		if p.RGBEffect == EffectOff {
			return nil
		}
		return a.SetKeyboardEffect(ctx, p.RGBEffect)
	})
	step(StepBattery, func() error { return a.SetChargeLimit(ctx, p.BatteryLimit) })
	if p.RefreshRate != nil {
		step(StepRefreshRate, func() error { return a.SetRefreshRate(ctx, *p.RefreshRate) })
	}

	if s.settings != nil {
		if err := s.settings.Set("last_tdp_profile", p.Name); err != nil {
			s.log.Warn("record last profile failed", "err", err)
		}
	}
	s.log.Info("profile applied", "name", p.Name, "ok", res.OK(), "failed", res.Failed)
	return res
}

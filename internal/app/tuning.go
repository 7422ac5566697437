package app

import (
	"context"
	"fmt"
	"slices"

	"armoury/internal/gpu"
	"armoury/internal/overclock"
)

// CPUInfo reports frequencies, governor, turbo and EPP.
func (a *App) CPUInfo() overclock.CPUInfo {
	return a.overclock.CPUInfo()
}

// SetGovernor switches the CPU frequency governor.
func (a *App) SetGovernor(ctx context.Context, governor string) (string, error) {
	if err := a.overclock.SetGovernor(ctx, governor); err != nil {
		return "", err
	}
	return fmt.Sprintf("CPU governor set to %s", governor), nil
}

// SetTurbo toggles CPU boost.
func (a *App) SetTurbo(ctx context.Context, enabled bool) (string, error) {
	if err := a.overclock.SetTurbo(ctx, enabled); err != nil {
		return "", err
	}
	word := "disabled"
	if enabled {
		word = "enabled"
	}
	return fmt.Sprintf("CPU turbo %s", word), nil
}

// SetTDP applies a named ryzenadj preset or a custom triple.
func (a *App) SetTDP(ctx context.Context, params TDPParams) (string, error) {
	var t overclock.TDP
	switch {
	case params.Preset != "":
		p, ok := overclock.TDPPresets[params.Preset]
		if !ok {
			return "", fmt.Errorf("unknown TDP preset: %s (available: %v)", params.Preset, overclock.TDPPresetNames())
		}
		t = p
	case params.Custom != "":
		p, err := overclock.ParseTDPTriple(params.Custom)
		if err != nil {
			return "", err
		}
		t = p
	default:
		return "", fmt.Errorf("no TDP preset or custom value given")
	}
	return a.overclock.SetTDP(ctx, t)
}

// RyzenAdjInfo returns the ryzenadj limit table.
func (a *App) RyzenAdjInfo(ctx context.Context) ([]overclock.RyzenAdjValue, error) {
	return a.overclock.RyzenAdjInfo(ctx)
}

// AMDGPUInfo reports the AMD GPU state.
func (a *App) AMDGPUInfo() (overclock.AMDGPUInfo, error) {
	return a.overclock.AMDGPUInfo()
}

// SetGPUPerformance sets the AMD power_dpm_force_performance_level.
func (a *App) SetGPUPerformance(ctx context.Context, level string) (string, error) {
	if !slices.Contains(overclock.PerformanceLevels, level) {
		return "", fmt.Errorf("invalid performance level %q; available: %v", level, overclock.PerformanceLevels)
	}
	if err := a.overclock.SetGPUPerformanceLevel(ctx, level); err != nil {
		return "", err
	}
	return fmt.Sprintf("GPU performance level set to %s", level), nil
}

// GPUSwitching reports supergfxctl state.
func (a *App) GPUSwitching(ctx context.Context) gpu.SwitchingStatus {
	return a.gpu.SwitchingStatus(ctx)
}

// SetGPUMode switches the GPU mode by name.
func (a *App) SetGPUMode(ctx context.Context, name string) (string, error) {
	mode, ok := gpu.ParseMode(name)
	if !ok {
		return "", fmt.Errorf("unknown GPU mode: %s", name)
	}
	return a.gpu.SetMode(ctx, mode)
}

// GPUStats samples the active GPU.
func (a *App) GPUStats(ctx context.Context) gpu.LiveStats {
	return a.gpu.LiveStats(ctx)
}

// GPUDevices lists the DRM GPUs.
func (a *App) GPUDevices(ctx context.Context) []gpu.Device {
	return a.gpu.Devices(ctx)
}

// SetEPP sets the energy performance preference on every core.
func (a *App) SetEPP(ctx context.Context, pref string) (string, error) {
	if err := a.overclock.SetEPP(ctx, pref); err != nil {
		return "", err
	}
	return fmt.Sprintf("Energy preference set to %s", pref), nil
}

// SetCPUFrequency bounds CPU scaling in MHz. Zero leaves a bound unchanged.
func (a *App) SetCPUFrequency(ctx context.Context, minMHz, maxMHz int) (string, error) {
	if minMHz < 0 || maxMHz < 0 {
		return "", fmt.Errorf("frequency limits must not be negative")
	}
	if minMHz > 0 && maxMHz > 0 && minMHz > maxMHz {
		return "", fmt.Errorf("minimum %d MHz is above maximum %d MHz", minMHz, maxMHz)
	}
	if err := a.overclock.SetFrequencyLimits(ctx, minMHz, maxMHz); err != nil {
		return "", err
	}
	return fmt.Sprintf("CPU frequency limits set (min %s, max %s)", mhzOrKept(minMHz), mhzOrKept(maxMHz)), nil
}

func mhzOrKept(v int) string {
	if v <= 0 {
		return "unchanged"
	}
	return fmt.Sprintf("%d MHz", v)
}

// SetTempLimit sets the ryzenadj Tctl limit in Celsius.
func (a *App) SetTempLimit(ctx context.Context, celsius int) (string, error) {
	if err := a.overclock.SetTempLimit(ctx, celsius); err != nil {
		return "", err
	}
	return fmt.Sprintf("Temperature limit set to %d°C", celsius), nil
}

// GPUPowerProfiles lists the AMD GPU power profile modes.
func (a *App) GPUPowerProfiles() ([]overclock.PowerProfile, error) {
	return a.overclock.GPUPowerProfiles()
}

// SetGPUPowerProfile selects an AMD GPU power profile by index.
func (a *App) SetGPUPowerProfile(ctx context.Context, index int) (string, error) {
	if err := a.overclock.SetGPUPowerProfile(ctx, index); err != nil {
		return "", err
	}
	return fmt.Sprintf("GPU power profile set to %d", index), nil
}

// ResetGPUClocks restores the default AMD overdrive clocks.
func (a *App) ResetGPUClocks(ctx context.Context) (string, error) {
	if err := a.overclock.ResetGPUClocks(ctx); err != nil {
		return "", err
	}
	return "GPU clocks reset to defaults", nil
}

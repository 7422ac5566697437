package app

import (
	"context"
	"fmt"

	armouryv1 "armoury/api/armoury/v1"
	"armoury/internal/daemon"
	"armoury/internal/monitor"
	"armoury/internal/power"

	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// PowerProfiles returns the backend, the active profile and the presets.
func (a *App) PowerProfiles(ctx context.Context) PowerProfiles {
	cur, ok := a.power.Current(ctx)
	return PowerProfiles{
		Backend:    a.power.Backend(ctx),
		Current:    cur,
		HasCurrent: ok,
		Available:  a.power.Available(ctx),
		Presets:    power.Presets,
	}
}

// ApplyPowerProfile switches to a preset, through the daemon when it is
// running.
func (a *App) ApplyPowerProfile(ctx context.Context, params PowerProfileParams) (PowerProfileResult, error) {
	if _, ok := power.LookupPreset(params.Name); !ok {
		return PowerProfileResult{}, fmt.Errorf("invalid profile: %s", params.Name)
	}
	var res PowerProfileResult
	remote, err := a.viaDaemon(ctx, params.Timeout, func(ctx context.Context, client armouryv1.ArmouryClient) error {
		resp, err := client.SetPowerProfile(ctx, wrapperspb.String(params.Name))
		if err != nil {
			return fmt.Errorf("daemon set profile RPC failed: %w", err)
		}
		return daemon.DecodeStruct(resp, &res)
	})
	if remote {
		res.ViaDaemon = true
		return res, err
	}

	out, err := a.power.Apply(ctx, params.Name)
	if err != nil {
		return PowerProfileResult{}, err
	}
	res = PowerProfileResult{Message: out.Message, RefreshSet: out.RefreshSet}
	if out.RefreshError != nil {
		res.RefreshError = out.RefreshError.Error()
	}
	return res, nil
}

// SetRefreshRate changes the panel refresh rate.
func (a *App) SetRefreshRate(ctx context.Context, hz int) (string, error) {
	if !power.ValidRefreshRate(hz) {
		return "", fmt.Errorf("invalid refresh rate: %d (supported: %v)", hz, power.SupportedRefreshRates)
	}
	return a.display.SetRefreshRate(ctx, hz)
}

// SystemStatus returns the daemon's latest sample when it is running,
// otherwise samples locally.
func (a *App) SystemStatus(ctx context.Context, params StatusParams) (SystemStatus, error) {
	if !params.Local {
		var st SystemStatus
		remote, err := a.viaDaemon(ctx, params.Timeout, func(ctx context.Context, client armouryv1.ArmouryClient) error {
			resp, err := client.GetStatus(ctx, &emptypb.Empty{})
			if err != nil {
				return fmt.Errorf("daemon status RPC failed: %w", err)
			}
			return daemon.DecodeStruct(resp, &st)
		})
		if remote && err == nil {
			st.FromDaemon = true
			return st, nil
		}
		if remote {
			a.log.Warn("daemon status failed, sampling locally", "err", err)
		}
	}
	sampler := monitor.NewSampler(a.fs, a.runner, a.sensors, a.power, a.display)
	return statusFromSample(sampler.Sample(ctx)), nil
}

func statusFromSample(s monitor.Sample) SystemStatus {
	st := SystemStatus{OnAC: s.OnAC, Profile: s.Profile, Gaming: s.Gaming, CPULoad: s.CPULoad}
	if s.HasCPUTemp {
		st.CPUTemp = &s.CPUTemp
	}
	if s.HasGPUTemp {
		st.GPUTemp = &s.GPUTemp
	}
	if s.HasBattery {
		st.Battery = &s.Battery
	}
	if s.RefreshRate > 0 {
		st.RefreshRate = &s.RefreshRate
	}
	return st
}

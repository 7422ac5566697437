package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"armoury/internal/app"
	"armoury/internal/config"
)

func TestProfileApply(t *testing.T) {
	var got app.PowerProfileParams
	withController(t, &stubController{
		applyPowerFunc: func(ctx context.Context, params app.PowerProfileParams) (app.PowerProfileResult, error) {
			got = params
			return app.PowerProfileResult{Message: "Set profile to gaming", RefreshError: "no display"}, nil
		},
	})
	buf := withOutput(t, cmdProfileApply)

	if err := cmdProfileApply.RunE(cmdProfileApply, []string{"gaming"}); err != nil {
		t.Fatalf("RunE error: %v", err)
	}
	if got.Name != "gaming" || got.Timeout != 5*time.Second {
		t.Fatalf("unexpected params %+v", got)
	}
	out := buf.String()
	if !strings.Contains(out, "Set profile to gaming") || !strings.Contains(out, "Refresh rate not changed: no display") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestDaemonTimeoutValidation(t *testing.T) {
	old := daemonTimeoutSeconds
	daemonTimeoutSeconds = 0
	t.Cleanup(func() { daemonTimeoutSeconds = old })

	withController(t, &stubController{})
	withOutput(t, cmdProfileApply)
	if err := cmdProfileApply.RunE(cmdProfileApply, []string{"gaming"}); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestBatteryLimitRejectsNonNumber(t *testing.T) {
	withController(t, &stubController{})
	withOutput(t, cmdBatteryLimit)
	if err := cmdBatteryLimit.RunE(cmdBatteryLimit, []string{"eighty"}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestBatteryLimit(t *testing.T) {
	withController(t, &stubController{
		chargeFunc: func(ctx context.Context, params app.ChargeLimitParams) (app.ChargeLimitResult, error) {
			if params.Limit != 80 {
				t.Fatalf("limit = %d", params.Limit)
			}
			return app.ChargeLimitResult{Message: "Battery charge limit set to 80%"}, nil
		},
	})
	buf := withOutput(t, cmdBatteryLimit)
	if err := cmdBatteryLimit.RunE(cmdBatteryLimit, []string{"80"}); err != nil {
		t.Fatalf("RunE error: %v", err)
	}
	if !strings.Contains(buf.String(), "80%") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestStatusOutput(t *testing.T) {
	cpu, bat := 91.0, 55
	withController(t, &stubController{
		statusFunc: func(ctx context.Context, params app.StatusParams) (app.SystemStatus, error) {
			if !params.Local {
				t.Fatal("--local not passed through")
			}
			return app.SystemStatus{CPUTemp: &cpu, Battery: &bat, Profile: "performance"}, nil
		},
	})
	old := statusLocal
	statusLocal = true
	t.Cleanup(func() { statusLocal = old })

	buf := withOutput(t, cmdStatus)
	if err := cmdStatus.RunE(cmdStatus, nil); err != nil {
		t.Fatalf("RunE error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"performance", "91.0°C (warning)", "55%", "in-process"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "GPU temperature:") || !strings.Contains(out, "n/a") {
		t.Errorf("missing GPU reading should print n/a:\n%s", out)
	}
}

func TestRunMonitorStopsAfterCount(t *testing.T) {
	calls := 0
	ctrl := &stubController{
		statusFunc: func(ctx context.Context, params app.StatusParams) (app.SystemStatus, error) {
			calls++
			return app.SystemStatus{Profile: "balanced"}, nil
		},
	}
	var buf bytes.Buffer
	if err := runMonitor(context.Background(), &buf, ctrl, time.Millisecond, time.Second, 3); err != nil {
		t.Fatalf("runMonitor: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
	if n := strings.Count(buf.String(), "balanced"); n != 3 {
		t.Fatalf("printed %d lines:\n%s", n, buf.String())
	}
}

func TestRunMonitorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ctrl := &stubController{
		statusFunc: func(context.Context, app.StatusParams) (app.SystemStatus, error) {
			cancel()
			return app.SystemStatus{}, nil
		},
	}
	var buf bytes.Buffer
	if err := runMonitor(ctx, &buf, ctrl, time.Hour, time.Second, 0); err != nil {
		t.Fatalf("runMonitor: %v", err)
	}
}

func TestKbdEffectWithColor(t *testing.T) {
	var got app.KeyboardParams
	withController(t, &stubController{
		keyboardFunc: func(ctx context.Context, params app.KeyboardParams) ([]string, error) {
			got = params
			return []string{"Keyboard effect set to Breathe"}, nil
		},
	})
	old := kbdEffectColor
	t.Cleanup(func() { kbdEffectColor = old })
	if err := kbdEffectColor.Set("red"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	buf := withOutput(t, cmdKbdEffect)
	if err := cmdKbdEffect.RunE(cmdKbdEffect, []string{"breathe"}); err != nil {
		t.Fatalf("RunE error: %v", err)
	}
	if got.Brightness != -1 || got.Effect != "breathe" || got.Color != "#ff0000" {
		t.Fatalf("unexpected params %+v", got)
	}
	if !strings.Contains(buf.String(), "Breathe") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestKbdBrightnessRejectsNegative(t *testing.T) {
	withController(t, &stubController{})
	withOutput(t, cmdKbdBrightness)
	if err := cmdKbdBrightness.RunE(cmdKbdBrightness, []string{"-2"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestTDPSetRequiresFlag(t *testing.T) {
	old := tdpCustom
	tdpCustom = tdpFlag{}
	t.Cleanup(func() { tdpCustom = old })

	withController(t, &stubController{})
	withOutput(t, cmdTDPSet)
	if err := cmdTDPSet.RunE(cmdTDPSet, nil); err == nil || !strings.Contains(err.Error(), "--tdp-custom") {
		t.Fatalf("expected missing flag error, got %v", err)
	}
}

func TestTDPSetCustom(t *testing.T) {
	old := tdpCustom
	t.Cleanup(func() { tdpCustom = old })
	if err := tdpCustom.Set("30,40,30"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	withController(t, &stubController{
		tdpFunc: func(ctx context.Context, params app.TDPParams) (string, error) {
			if params.Custom != "30,40,30" || params.Preset != "" {
				t.Fatalf("unexpected params %+v", params)
			}
			return "TDP set", nil
		},
	})
	buf := withOutput(t, cmdTDPSet)
	if err := cmdTDPSet.RunE(cmdTDPSet, nil); err != nil {
		t.Fatalf("RunE error: %v", err)
	}
	if buf.String() != "TDP set\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestSysProfileApplyPartialFailure(t *testing.T) {
	withController(t, &stubController{
		systemProfileFunc: func(ctx context.Context, params app.SystemProfileParams) (app.SystemProfileResult, error) {
			return app.SystemProfileResult{
				OK:      false,
				Message: "Profile Gaming applied with errors: gpu_mode",
				Failed:  []string{"gpu_mode"},
			}, nil
		},
	})
	buf := withOutput(t, cmdSysProfileApply)
	err := cmdSysProfileApply.RunE(cmdSysProfileApply, []string{"Gaming"})
	if err == nil || !strings.Contains(err.Error(), "1 step(s) failed") {
		t.Fatalf("expected failure, got %v", err)
	}
	if !strings.Contains(buf.String(), "gpu_mode") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestSysProfileApplyError(t *testing.T) {
	expected := errors.New("profile not found")
	withController(t, &stubController{
		systemProfileFunc: func(context.Context, app.SystemProfileParams) (app.SystemProfileResult, error) {
			return app.SystemProfileResult{}, expected
		},
	})
	withOutput(t, cmdSysProfileApply)
	if err := cmdSysProfileApply.RunE(cmdSysProfileApply, []string{"Nope"}); !errors.Is(err, expected) {
		t.Fatalf("expected %v, got %v", expected, err)
	}
}

func TestLogLevel(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = slog.LevelError
	if got := logLevel(cfg, false); got != slog.LevelError {
		t.Fatalf("configured level = %v", got)
	}
	if got := logLevel(cfg, true); got != slog.LevelDebug {
		t.Fatalf("-v level = %v", got)
	}

	t.Setenv("ARMOURY_LOG_LEVEL", "warn")
	loaded, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if got := logLevel(loaded, false); got != slog.LevelWarn {
		t.Fatalf("env level = %v", got)
	}
}

package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"armoury/internal/app"
	"armoury/internal/config"

	"github.com/spf13/cobra"
)

// stubController implements only what a test scripts; anything else
// panics through the nil embedded interface.
type stubController struct {
	controllerAPI

	pingFunc          func(ctx context.Context, timeout time.Duration) (string, error)
	applyPowerFunc    func(ctx context.Context, params app.PowerProfileParams) (app.PowerProfileResult, error)
	statusFunc        func(ctx context.Context, params app.StatusParams) (app.SystemStatus, error)
	keyboardFunc      func(ctx context.Context, params app.KeyboardParams) ([]string, error)
	tdpFunc           func(ctx context.Context, params app.TDPParams) (string, error)
	systemProfileFunc func(ctx context.Context, params app.SystemProfileParams) (app.SystemProfileResult, error)
	chargeFunc        func(ctx context.Context, params app.ChargeLimitParams) (app.ChargeLimitResult, error)
}

func (s *stubController) Config() config.Config { return config.Default() }

func (s *stubController) Ping(ctx context.Context, timeout time.Duration) (string, error) {
	if s.pingFunc != nil {
		return s.pingFunc(ctx, timeout)
	}
	return "", errors.New("ping not implemented")
}

func (s *stubController) ApplyPowerProfile(ctx context.Context, params app.PowerProfileParams) (app.PowerProfileResult, error) {
	return s.applyPowerFunc(ctx, params)
}

func (s *stubController) SystemStatus(ctx context.Context, params app.StatusParams) (app.SystemStatus, error) {
	return s.statusFunc(ctx, params)
}

func (s *stubController) SetKeyboard(ctx context.Context, params app.KeyboardParams) ([]string, error) {
	return s.keyboardFunc(ctx, params)
}

func (s *stubController) SetTDP(ctx context.Context, params app.TDPParams) (string, error) {
	return s.tdpFunc(ctx, params)
}

func (s *stubController) ApplySystemProfile(ctx context.Context, params app.SystemProfileParams) (app.SystemProfileResult, error) {
	return s.systemProfileFunc(ctx, params)
}

func (s *stubController) SetChargeLimit(ctx context.Context, params app.ChargeLimitParams) (app.ChargeLimitResult, error) {
	return s.chargeFunc(ctx, params)
}

func withController(t *testing.T, stub controllerAPI) {
	t.Helper()
	origFactory := controllerFactory
	controllerFactory = func() (controllerAPI, error) {
		return stub, nil
	}
	t.Cleanup(func() {
		controllerFactory = origFactory
	})
}

func withOutput(t *testing.T, cmd *cobra.Command) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetContext(context.Background())
	t.Cleanup(func() {
		cmd.SetOut(nil)
	})
	return buf
}

func TestPingSuccess(t *testing.T) {
	withController(t, &stubController{
		pingFunc: func(ctx context.Context, timeout time.Duration) (string, error) {
			if timeout != 2*time.Second {
				t.Fatalf("expected timeout 2s, got %v", timeout)
			}
			return "pong", nil
		},
	})
	buf := withOutput(t, cmdPing)

	oldTimeout := pingTimeoutSeconds
	pingTimeoutSeconds = 2
	t.Cleanup(func() { pingTimeoutSeconds = oldTimeout })

	if err := cmdPing.RunE(cmdPing, nil); err != nil {
		t.Fatalf("RunE error: %v", err)
	}
	if got := buf.String(); got != "pong\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestPingError(t *testing.T) {
	expected := errors.New("daemon down")
	withController(t, &stubController{
		pingFunc: func(ctx context.Context, timeout time.Duration) (string, error) {
			return "", expected
		},
	})
	withOutput(t, cmdPing)
	oldTimeout := pingTimeoutSeconds
	pingTimeoutSeconds = 1
	t.Cleanup(func() { pingTimeoutSeconds = oldTimeout })

	err := cmdPing.RunE(cmdPing, nil)
	if !errors.Is(err, expected) {
		t.Fatalf("expected error %v, got %v", expected, err)
	}
}

func TestControllerFactoryError(t *testing.T) {
	expected := errors.New("bad config")
	origFactory := controllerFactory
	controllerFactory = func() (controllerAPI, error) { return nil, expected }
	t.Cleanup(func() { controllerFactory = origFactory })

	withOutput(t, cmdPing)
	if err := cmdPing.RunE(cmdPing, nil); !errors.Is(err, expected) {
		t.Fatalf("expected %v, got %v", expected, err)
	}
}

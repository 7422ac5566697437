package gpu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"armoury/internal/execx"
	"armoury/internal/sysfs"
)

// ErrNoSupergfx is returned when neither supergfxctl nor asusd can switch.
var ErrNoSupergfx = errors.New("supergfxctl is not installed")

// MuxClient is the asusd subset used for MUX switching.
type MuxClient interface {
	Available(ctx context.Context) bool
	GPUMuxMode(ctx context.Context) (string, error)
	SetGPUMuxMode(ctx context.Context, dedicated bool) error
}

// SwitchingStatus is the supergfxctl view of the graphics setup.
type SwitchingStatus struct {
	Available      bool
	Current        Mode
	Supported      []Mode
	Vendor         string
	Power          PowerStatus
	PendingAction  string
	PendingMode    Mode
	RequiresLogout bool
	RequiresReboot bool
}

// Controller drives supergfxctl and reads GPU statistics.
type Controller struct {
	fs     *sysfs.FS
	runner execx.Runner
	mux    MuxClient
}

// New returns a Controller. mux may be nil.
func New(fs *sysfs.FS, r execx.Runner, mux MuxClient) *Controller {
	return &Controller{fs: fs, runner: r, mux: mux}
}

// SupergfxAvailable reports whether supergfxctl answers.
func (c *Controller) SupergfxAvailable(ctx context.Context) bool {
	if !c.runner.LookPath("supergfxctl") {
		return false
	}
	_, err := c.runner.Run(ctx, "supergfxctl", "--version")
	return err == nil
}

func (c *Controller) query(ctx context.Context, flag string) (string, bool) {
	out, err := c.runner.Run(ctx, "supergfxctl", flag)
	if err != nil {
		return "", false
	}
	out = strings.TrimSpace(out)
	if out == "" || strings.EqualFold(out, "none") {
		return "", false
	}
	return out, true
}

// SwitchingStatus queries supergfxctl. Without it, the asusd MUX state is
// reported when available.
func (c *Controller) SwitchingStatus(ctx context.Context) SwitchingStatus {
	st := SwitchingStatus{Vendor: "Unknown", Power: PowerUnknown}
	if !c.SupergfxAvailable(ctx) {
		if c.mux != nil && c.mux.Available(ctx) {
			if v, err := c.mux.GPUMuxMode(ctx); err == nil {
				st.Available = true
				st.Supported = []Mode{Hybrid, AsusMuxDgpu}
				st.Current = Hybrid
				if v == "1" {
					st.Current = AsusMuxDgpu
				}
			}
		}
		return st
	}
	st.Available = true

	if out, ok := c.query(ctx, "--get"); ok {
		st.Current, _ = ParseMode(out)
	}
	if out, ok := c.query(ctx, "--supported"); ok {
		for _, s := range strings.Split(strings.Trim(out, "[]"), ",") {
			if m, ok := ParseMode(s); ok {
				st.Supported = append(st.Supported, m)
			}
		}
	}
	if out, ok := c.query(ctx, "--vendor"); ok {
		st.Vendor = out
	}
	if out, ok := c.query(ctx, "--status"); ok {
		st.Power = parsePowerStatus(out)
	}
	if out, ok := c.query(ctx, "--pend-action"); ok {
		st.PendingAction = out
		lower := strings.ToLower(out)
		st.RequiresLogout = strings.Contains(lower, "logout")
		st.RequiresReboot = strings.Contains(lower, "reboot")
	}
	if out, ok := c.query(ctx, "--pend-mode"); ok {
		st.PendingMode, _ = ParseMode(out)
	}
	return st
}

// SetMode switches to mode. The message tells the user whether a logout
// or reboot is needed.
func (c *Controller) SetMode(ctx context.Context, mode Mode) (string, error) {
	if !c.SupergfxAvailable(ctx) {
		if c.mux != nil && c.mux.Available(ctx) && (mode == AsusMuxDgpu || mode == Hybrid) {
			if err := c.mux.SetGPUMuxMode(ctx, mode == AsusMuxDgpu); err != nil {
				return "", err
			}
			return "Mode change queued. Please reboot.", nil
		}
		return "", ErrNoSupergfx
	}

	ctx, cancel := context.WithTimeout(ctx, execx.PrivilegedTimeout)
	defer cancel()
	out, err := c.runner.Run(ctx, "supergfxctl", "--mode", string(mode))
	if err != nil {
		return "", fmt.Errorf("failed to set mode: %w", err)
	}
	lower := strings.ToLower(out)
	switch {
	case strings.Contains(lower, "logout"):
		return "Mode change queued. Please log out and back in.", nil
	case strings.Contains(lower, "reboot"):
		return "Mode change queued. Please reboot.", nil
	}
	return fmt.Sprintf("GPU mode set to %s", mode), nil
}

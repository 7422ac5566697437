// Package display reads and changes the refresh rate of the primary panel
// through xrandr on X11 or wlr-randr / kscreen-doctor on Wayland.
package display

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"

	"armoury/internal/execx"
)

// Backend is the display server family of the current session.
type Backend string

const (
	Wayland Backend = "wayland"
	X11     Backend = "x11"
	Unknown Backend = "unknown"
)

const (
	fallbackOutput = "eDP-1"
	fallbackWidth  = 1920
	fallbackHeight = 1080
)

// waylandTools in priority order.
var waylandTools = []string{"wlr-randr", "gnome-randr", "kscreen-doctor"}

var (
	// ErrNoWaylandTool is returned when no supported Wayland tool is installed.
	ErrNoWaylandTool = errors.New("no Wayland display configuration tool found; install wlr-randr or use GNOME Settings")
	// ErrUnsupportedTool is returned for tools that can be detected but not driven.
	ErrUnsupportedTool = errors.New("no supported Wayland tool available")

	outputNameRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// Info is a snapshot of the primary display.
type Info struct {
	Backend Backend
	Tool    string
	Output  string
	Width   int
	Height  int
	Rate    int
	Rates   []int
}

// Resolution formats the mode as WxH.
func (i Info) Resolution() string {
	return fmt.Sprintf("%dx%d", i.Width, i.Height)
}

// Manager queries and drives the display tools.
type Manager struct {
	runner execx.Runner
	getenv func(string) string
}

// New returns a Manager using the process environment.
func New(r execx.Runner) *Manager {
	return &Manager{runner: r, getenv: os.Getenv}
}

// NewWithEnv is New with an explicit environment lookup.
func NewWithEnv(r execx.Runner, getenv func(string) string) *Manager {
	return &Manager{runner: r, getenv: getenv}
}

// Backend detects the session type: XDG_SESSION_TYPE first, then
// WAYLAND_DISPLAY, then DISPLAY.
func (m *Manager) Backend() Backend {
	switch m.getenv("XDG_SESSION_TYPE") {
	case "wayland", "Wayland":
		return Wayland
	case "x11", "X11":
		return X11
	}
	if m.getenv("WAYLAND_DISPLAY") != "" {
		return Wayland
	}
	if m.getenv("DISPLAY") != "" {
		return X11
	}
	return Unknown
}

// WaylandTool returns the first installed Wayland tool or "".
func (m *Manager) WaylandTool() string {
	for _, tool := range waylandTools {
		if m.runner.LookPath(tool) {
			return tool
		}
	}
	return ""
}

// query runs the listing command for the active backend. The returned
// parser is nil when nothing could be queried.
func (m *Manager) query(ctx context.Context) (string, parser) {
	if m.Backend() != Wayland {
		out, err := m.runner.Run(ctx, "xrandr", "--query")
		if err != nil {
			return "xrandr", nil
		}
		return "xrandr", x11Parser{out: out}
	}
	switch tool := m.WaylandTool(); tool {
	case "wlr-randr":
		out, err := m.runner.Run(ctx, "wlr-randr")
		if err != nil {
			return tool, nil
		}
		return tool, wlrParser{out: out}
	case "kscreen-doctor":
		out, err := m.runner.Run(ctx, "kscreen-doctor", "-o")
		if err != nil {
			return tool, nil
		}
		return tool, kscreenParser{out: out}
	default:
		return tool, nil
	}
}

// Info gathers output name, mode and rates with a single tool invocation.
func (m *Manager) Info(ctx context.Context) Info {
	tool, p := m.query(ctx)
	info := Info{
		Backend: m.Backend(),
		Tool:    tool,
		Output:  fallbackOutput,
		Width:   fallbackWidth,
		Height:  fallbackHeight,
	}
	if p == nil {
		return info
	}
	if name, ok := p.primary(); ok {
		info.Output = name
	}
	if w, h, ok := p.resolution(); ok {
		info.Width, info.Height = w, h
	}
	if rate, ok := p.currentRate(); ok {
		info.Rate = rate
	}
	info.Rates = p.rates(info.Resolution())
	return info
}

// PrimaryDisplay returns the primary output name, eDP-1 when unknown.
func (m *Manager) PrimaryDisplay(ctx context.Context) string {
	return m.Info(ctx).Output
}

// Resolution returns the current mode, 1920x1080 when unknown.
func (m *Manager) Resolution(ctx context.Context) (int, int) {
	info := m.Info(ctx)
	return info.Width, info.Height
}

// CurrentRate returns the active refresh rate in Hz.
func (m *Manager) CurrentRate(ctx context.Context) (int, bool) {
	info := m.Info(ctx)
	return info.Rate, info.Rate > 0
}

// SupportedRates lists the rates available at the current resolution.
func (m *Manager) SupportedRates(ctx context.Context) []int {
	return m.Info(ctx).Rates
}

// SetRefreshRate switches the primary output to rate Hz at its current
// resolution and returns a human readable confirmation.
func (m *Manager) SetRefreshRate(ctx context.Context, rate int) (string, error) {
	if rate <= 0 {
		return "", fmt.Errorf("invalid refresh rate: %d", rate)
	}
	backend := m.Backend()
	if backend == Wayland && m.WaylandTool() == "" {
		return "", ErrNoWaylandTool
	}

	info := m.Info(ctx)
	if !outputNameRe.MatchString(info.Output) {
		return "", fmt.Errorf("invalid display name: %s", info.Output)
	}

	ctx, cancel := context.WithTimeout(ctx, execx.DefaultTimeout)
	defer cancel()

	mode := info.Resolution()
	switch {
	case backend != Wayland:
		if _, err := m.runner.Run(ctx, "xrandr", "--output", info.Output, "--mode", mode, "--rate", fmt.Sprint(rate)); err != nil {
			return "", fmt.Errorf("failed to set refresh rate: %w", err)
		}
		return fmt.Sprintf("Refresh rate set to %d Hz", rate), nil
	case info.Tool == "wlr-randr":
		if _, err := m.runner.Run(ctx, "wlr-randr", "--output", info.Output, "--mode", fmt.Sprintf("%s@%d", mode, rate)); err != nil {
			return "", fmt.Errorf("failed to set refresh rate: %w", err)
		}
		return fmt.Sprintf("Refresh rate set to %d Hz (Wayland)", rate), nil
	case info.Tool == "kscreen-doctor":
		arg := fmt.Sprintf("output.%s.mode.%s@%d", info.Output, mode, rate)
		if _, err := m.runner.Run(ctx, "kscreen-doctor", arg); err != nil {
			return "", fmt.Errorf("failed to set refresh rate: %w", err)
		}
		return fmt.Sprintf("Refresh rate set to %d Hz (Wayland/KDE)", rate), nil
	default:
		return "", ErrUnsupportedTool
	}
}

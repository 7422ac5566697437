package power

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"armoury/internal/asusd"
	"armoury/internal/execx"
	"armoury/internal/sysfs"
)

const (
	PlatformProfilePath    = "/sys/firmware/acpi/platform_profile"
	PlatformProfileChoices = "/sys/firmware/acpi/platform_profile_choices"
)

// Backend names the mechanism used to change profiles.
type Backend string

const (
	BackendPwrcfg  Backend = "pwrcfg"
	BackendAsusctl Backend = "asusctl"
	BackendAsusd   Backend = "asusd"
	BackendPPD     Backend = "power-profiles-daemon"
	BackendSysfs   Backend = "sysfs"
	BackendNone    Backend = "none"
)

// ErrNoBackend is returned when no profile mechanism exists.
var ErrNoBackend = errors.New("no power profile backend available")

// ThrottleClient is the asusd subset used for profiles.
type ThrottleClient interface {
	Available(ctx context.Context) bool
	ThrottlePolicy(ctx context.Context) (asusd.ThrottlePolicy, error)
	SetThrottlePolicy(ctx context.Context, policy asusd.ThrottlePolicy) error
}

// ProfilesClient is the power-profiles-daemon subset used for profiles.
type ProfilesClient interface {
	Available(ctx context.Context) bool
	ActiveProfile(ctx context.Context) (string, error)
	SetActiveProfile(ctx context.Context, profile string) error
}

// RefreshSetter changes the panel refresh rate.
type RefreshSetter interface {
	SetRefreshRate(ctx context.Context, rate int) (string, error)
}

// Manager detects the profile backend and drives it.
type Manager struct {
	runner  execx.Runner
	fs      *sysfs.FS
	asusd   ThrottleClient
	ppd     ProfilesClient
	display RefreshSetter
	logger  *slog.Logger
}

// Option customises a Manager.
type Option func(*Manager)

// WithAsusd sets the asusd D-Bus client.
func WithAsusd(c ThrottleClient) Option {
	return func(m *Manager) { m.asusd = c }
}

// WithPowerProfiles sets the power-profiles-daemon D-Bus client.
func WithPowerProfiles(c ProfilesClient) Option {
	return func(m *Manager) { m.ppd = c }
}

// WithDisplay sets the refresh rate controller used by Apply.
func WithDisplay(d RefreshSetter) Option {
	return func(m *Manager) { m.display = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager builds a Manager. D-Bus clients are optional.
func NewManager(r execx.Runner, fs *sysfs.FS, opts ...Option) *Manager {
	m := &Manager{runner: r, fs: fs, logger: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) asusdUp(ctx context.Context) bool {
	return m.asusd != nil && m.asusd.Available(ctx)
}

func (m *Manager) ppdUp(ctx context.Context) bool {
	return m.ppd != nil && m.ppd.Available(ctx)
}

// Backend returns the first usable backend.
func (m *Manager) Backend(ctx context.Context) Backend {
	switch {
	case m.runner.LookPath("pwrcfg"):
		return BackendPwrcfg
	case m.runner.LookPath("asusctl"):
		return BackendAsusctl
	case m.asusdUp(ctx):
		return BackendAsusd
	case m.ppdUp(ctx) || m.runner.LookPath("powerprofilesctl"):
		return BackendPPD
	case m.fs.Exists(PlatformProfilePath):
		return BackendSysfs
	}
	return BackendNone
}

// Current returns the active profile name. pwrcfg has no query command,
// so the readers below it are consulted even when pwrcfg is installed.
func (m *Manager) Current(ctx context.Context) (string, bool) {
	if m.runner.LookPath("asusctl") {
		if out, err := m.runner.Run(ctx, "asusctl", "profile", "-p"); err == nil {
			if _, after, ok := strings.Cut(out, "Active profile:"); ok {
				return strings.TrimSpace(after), true
			}
			if _, after, ok := strings.Cut(out, "Active profile is"); ok {
				return strings.TrimSpace(after), true
			}
		}
	}
	if m.asusdUp(ctx) {
		if p, err := m.asusd.ThrottlePolicy(ctx); err == nil {
			return p.String(), true
		}
	}
	if m.ppd != nil {
		if p, err := m.ppd.ActiveProfile(ctx); err == nil && p != "" {
			return p, true
		}
	}
	if m.runner.LookPath("powerprofilesctl") {
		if out, err := m.runner.Run(ctx, "powerprofilesctl", "get"); err == nil && out != "" {
			return out, true
		}
	}
	if v, err := m.fs.Read(PlatformProfilePath); err == nil && v != "" {
		return v, true
	}
	return "", false
}

// Available lists the profile names the active backend accepts.
func (m *Manager) Available(ctx context.Context) []string {
	switch m.Backend(ctx) {
	case BackendPwrcfg:
		return PresetNames()
	case BackendAsusctl, BackendAsusd:
		return []string{"Quiet", "Balanced", "Performance"}
	case BackendPPD:
		return []string{"power-saver", "balanced", "performance"}
	case BackendSysfs:
		if v, err := m.fs.Read(PlatformProfileChoices); err == nil && v != "" {
			return strings.Fields(v)
		}
	}
	return []string{"balanced"}
}

// AsusctlProfile maps generic names to asusctl's Quiet/Balanced/Performance.
func AsusctlProfile(name string) string {
	switch strings.ToLower(name) {
	case "silent", "battery", "power-saver", "low-power", "quiet", "emergency", "efficient":
		return "Quiet"
	case "balanced":
		return "Balanced"
	case "performance", "gaming", "turbo", "maximum":
		return "Performance"
	}
	return name
}

// PPDProfile maps generic names to power-profiles-daemon profiles.
func PPDProfile(name string) string {
	switch strings.ToLower(name) {
	case "silent", "quiet", "battery", "low-power", "emergency", "power-saver":
		return "power-saver"
	case "balanced", "efficient":
		return "balanced"
	case "performance", "gaming", "turbo", "maximum":
		return "performance"
	}
	return name
}

// Set switches to profile and returns a confirmation message.
func (m *Manager) Set(ctx context.Context, profile string) (string, error) {
	profile = strings.TrimSpace(profile)
	if profile == "" {
		return "", errors.New("profile name is required")
	}
	switch backend := m.Backend(ctx); backend {
	case BackendPwrcfg:
		if _, err := execx.Privileged(ctx, m.runner, "pwrcfg", profile); err != nil {
			return "", fmt.Errorf("pwrcfg failed: %w", err)
		}
		return fmt.Sprintf("Set profile to %s", profile), nil

	case BackendAsusctl:
		target := AsusctlProfile(profile)
		if _, err := m.runner.Run(ctx, "asusctl", "profile", "-P", target); err != nil {
			return "", fmt.Errorf("asusctl failed: %w", err)
		}
		return fmt.Sprintf("Set profile to %s", target), nil

	case BackendAsusd:
		policy, ok := asusd.ParseThrottlePolicy(AsusctlProfile(profile))
		if !ok {
			return "", fmt.Errorf("unknown profile for asusd: %s", profile)
		}
		if err := m.asusd.SetThrottlePolicy(ctx, policy); err != nil {
			return "", err
		}
		return fmt.Sprintf("Set profile to %s", policy), nil

	case BackendPPD:
		target := PPDProfile(profile)
		if m.ppdUp(ctx) {
			err := m.ppd.SetActiveProfile(ctx, target)
			if err == nil {
				return fmt.Sprintf("Set profile to %s", target), nil
			}
			m.logger.Debug("power-profiles-daemon dbus set failed", "profile", target, "err", err)
		}
		if _, err := m.runner.Run(ctx, "powerprofilesctl", "set", target); err != nil {
			return "", fmt.Errorf("powerprofilesctl failed: %w", err)
		}
		return fmt.Sprintf("Set profile to %s", target), nil

	case BackendSysfs:
		if err := m.fs.Write(PlatformProfilePath, profile); err != nil {
			return "", err
		}
		return fmt.Sprintf("Set profile to %s", profile), nil
	}
	return "", ErrNoBackend
}

// ApplyResult reports what Apply changed.
type ApplyResult struct {
	Preset       Preset
	Message      string
	RefreshSet   bool
	RefreshError error
}

// Apply switches to a preset. pwrcfg sets the refresh rate itself; for
// every other backend the preset rate is applied here and a failure there
// is reported without failing the whole operation.
func (m *Manager) Apply(ctx context.Context, name string) (ApplyResult, error) {
	preset, ok := LookupPreset(name)
	if !ok {
		return ApplyResult{}, fmt.Errorf("invalid profile: %s", name)
	}
	backend := m.Backend(ctx)
	msg, err := m.Set(ctx, preset.Name)
	if err != nil {
		return ApplyResult{Preset: preset}, err
	}
	res := ApplyResult{Preset: preset, Message: msg}
	if backend == BackendPwrcfg || m.display == nil {
		return res, nil
	}
	if _, err := m.display.SetRefreshRate(ctx, preset.Refresh); err != nil {
		m.logger.Warn("refresh rate not applied", "profile", preset.Name, "rate", preset.Refresh, "err", err)
		res.RefreshError = err
		return res, nil
	}
	res.RefreshSet = true
	return res, nil
}

// AutoSwitch applies acProfile when on AC power and batteryProfile otherwise.
func (m *Manager) AutoSwitch(ctx context.Context, onAC bool, acProfile, batteryProfile string) (ApplyResult, error) {
	target := batteryProfile
	if onAC {
		target = acProfile
	}
	m.logger.Info("power source changed", "on_ac", onAC, "profile", target)
	return m.Apply(ctx, target)
}

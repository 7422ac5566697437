// Package asusd talks to the asusd and power-profiles-daemon system services
// over D-Bus.
package asusd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
)

const (
	Service       = "org.asuslinux.Daemon"
	PlatformPath  = "/org/asuslinux/Platform"
	PlatformIface = "org.asuslinux.Platform"

	introspect = "org.freedesktop.DBus.Introspectable.Introspect"
	propGet    = "org.freedesktop.DBus.Properties.Get"
	propSet    = "org.freedesktop.DBus.Properties.Set"
)

// ErrUnavailable is returned when the bus or the service cannot be reached.
var ErrUnavailable = errors.New("asusd is not available")

// ThrottlePolicy is the platform thermal policy exposed by asusd.
type ThrottlePolicy uint32

const (
	PolicyBalanced    ThrottlePolicy = 0
	PolicyPerformance ThrottlePolicy = 1
	PolicyQuiet       ThrottlePolicy = 2
)

func (p ThrottlePolicy) String() string {
	switch p {
	case PolicyBalanced:
		return "Balanced"
	case PolicyPerformance:
		return "Performance"
	case PolicyQuiet:
		return "Quiet"
	default:
		return fmt.Sprintf("ThrottlePolicy(%d)", uint32(p))
	}
}

// ParseThrottlePolicy accepts Quiet, Balanced or Performance in any case.
func ParseThrottlePolicy(name string) (ThrottlePolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "balanced":
		return PolicyBalanced, true
	case "performance":
		return PolicyPerformance, true
	case "quiet":
		return PolicyQuiet, true
	}
	return 0, false
}

// Platform is a client for the org.asuslinux.Platform interface.
type Platform struct {
	obj dbus.BusObject
}

// NewPlatform wraps an existing bus object.
func NewPlatform(obj dbus.BusObject) *Platform {
	return &Platform{obj: obj}
}

// SystemPlatform connects to asusd on the system bus.
func SystemPlatform() (*Platform, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect to system bus: %w", err)
	}
	return NewPlatform(conn.Object(Service, dbus.ObjectPath(PlatformPath))), nil
}

// Available reports whether asusd answers on the bus.
func (p *Platform) Available(ctx context.Context) bool {
	if p == nil || p.obj == nil {
		return false
	}
	var xml string
	return p.obj.CallWithContext(ctx, introspect, 0).Store(&xml) == nil
}

func (p *Platform) call(ctx context.Context, method string, out interface{}, args ...interface{}) error {
	if p == nil || p.obj == nil {
		return ErrUnavailable
	}
	call := p.obj.CallWithContext(ctx, PlatformIface+"."+method, 0, args...)
	if call.Err != nil {
		return fmt.Errorf("asusd %s: %w", method, call.Err)
	}
	if out == nil {
		return nil
	}
	if err := call.Store(out); err != nil {
		return fmt.Errorf("asusd %s: %w", method, err)
	}
	return nil
}

// ThrottlePolicy returns the active thermal policy.
func (p *Platform) ThrottlePolicy(ctx context.Context) (ThrottlePolicy, error) {
	var v uint32
	if err := p.call(ctx, "ThrottleThermalPolicy", &v); err != nil {
		return 0, err
	}
	return ThrottlePolicy(v), nil
}

// SetThrottlePolicy switches the thermal policy.
func (p *Platform) SetThrottlePolicy(ctx context.Context, policy ThrottlePolicy) error {
	return p.call(ctx, "SetThrottleThermalPolicy", nil, uint32(policy))
}

// ChargeLimit returns the battery charge end threshold.
func (p *Platform) ChargeLimit(ctx context.Context) (int, error) {
	var v uint8
	if err := p.call(ctx, "ChargeControlEndThreshold", &v); err != nil {
		return 0, err
	}
	return int(v), nil
}

// SetChargeLimit sets the battery charge end threshold (60..100).
func (p *Platform) SetChargeLimit(ctx context.Context, limit int) error {
	if limit < 60 || limit > 100 {
		return errors.New("charge limit must be between 60 and 100")
	}
	return p.call(ctx, "SetChargeControlEndThreshold", nil, uint8(limit))
}

// PanelOverdrive reports the panel overdrive state.
func (p *Platform) PanelOverdrive(ctx context.Context) (bool, error) {
	var v bool
	if err := p.call(ctx, "PanelOd", &v); err != nil {
		return false, err
	}
	return v, nil
}

// SetPanelOverdrive toggles panel overdrive.
func (p *Platform) SetPanelOverdrive(ctx context.Context, enabled bool) error {
	return p.call(ctx, "SetPanelOd", nil, enabled)
}

// GPUMuxMode returns the raw MUX mode value.
func (p *Platform) GPUMuxMode(ctx context.Context) (string, error) {
	var v interface{}
	if err := p.call(ctx, "GpuMuxMode", &v); err != nil {
		return "", err
	}
	return fmt.Sprint(v), nil
}

// SetGPUMuxMode selects dedicated (1) or hybrid (0) MUX mode.
func (p *Platform) SetGPUMuxMode(ctx context.Context, dedicated bool) error {
	var mode uint8
	if dedicated {
		mode = 1
	}
	return p.call(ctx, "SetGpuMuxMode", nil, mode)
}

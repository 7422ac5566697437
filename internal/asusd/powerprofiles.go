package asusd

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	PPDService = "net.hadess.PowerProfiles"
	PPDPath    = "/net/hadess/PowerProfiles"
)

// PowerProfiles is a client for power-profiles-daemon.
type PowerProfiles struct {
	obj dbus.BusObject
}

// NewPowerProfiles wraps an existing bus object.
func NewPowerProfiles(obj dbus.BusObject) *PowerProfiles {
	return &PowerProfiles{obj: obj}
}

// SystemPowerProfiles connects to power-profiles-daemon on the system bus.
func SystemPowerProfiles() (*PowerProfiles, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect to system bus: %w", err)
	}
	return NewPowerProfiles(conn.Object(PPDService, dbus.ObjectPath(PPDPath))), nil
}

// Available reports whether power-profiles-daemon answers on the bus.
func (p *PowerProfiles) Available(ctx context.Context) bool {
	if p == nil || p.obj == nil {
		return false
	}
	var xml string
	return p.obj.CallWithContext(ctx, introspect, 0).Store(&xml) == nil
}

// ActiveProfile returns the current profile (power-saver, balanced, performance).
func (p *PowerProfiles) ActiveProfile(ctx context.Context) (string, error) {
	if p == nil || p.obj == nil {
		return "", ErrUnavailable
	}
	var profile string
	if err := p.obj.CallWithContext(ctx, propGet, 0, PPDService, "ActiveProfile").Store(&profile); err != nil {
		return "", fmt.Errorf("get active profile: %w", err)
	}
	return profile, nil
}

// SetActiveProfile switches the active profile.
func (p *PowerProfiles) SetActiveProfile(ctx context.Context, profile string) error {
	if p == nil || p.obj == nil {
		return ErrUnavailable
	}
	call := p.obj.CallWithContext(ctx, propSet, 0, PPDService, "ActiveProfile", dbus.MakeVariant(profile))
	if call.Err != nil {
		return fmt.Errorf("set active profile: %w", call.Err)
	}
	return nil
}

// Profiles lists the profile names the daemon offers.
func (p *PowerProfiles) Profiles(ctx context.Context) ([]string, error) {
	if p == nil || p.obj == nil {
		return nil, ErrUnavailable
	}
	var raw []map[string]dbus.Variant
	if err := p.obj.CallWithContext(ctx, propGet, 0, PPDService, "Profiles").Store(&raw); err != nil {
		return nil, fmt.Errorf("get profiles: %w", err)
	}
	out := make([]string, 0, len(raw))
	for _, entry := range raw {
		if v, ok := entry["Profile"]; ok {
			if name, ok := v.Value().(string); ok {
				out = append(out, name)
			}
		}
	}
	return out, nil
}

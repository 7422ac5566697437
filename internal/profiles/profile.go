// Package profiles manages whole-system profiles: builtin presets plus
// user-defined ones stored as JSON files.
package profiles

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"armoury/internal/battery"
	"armoury/internal/fan"
	"armoury/internal/gpu"
	"armoury/internal/keyboard"
	"armoury/internal/power"
)

var (
	// ErrNotFound is returned for unknown profile names.
	ErrNotFound = errors.New("profile not found")
	// ErrBuiltin is returned when modifying a builtin profile.
	ErrBuiltin = errors.New("builtin profiles cannot be modified")
)

const maxNameLen = 64

// EffectOff skips the keyboard effect step.
const EffectOff = "Off"

// SystemProfile bundles the settings applied together.
type SystemProfile struct {
	Name          string `json:"name" yaml:"name"`
	TDPWatts      int    `json:"tdp_watts" yaml:"tdp_watts"`
	GPUMode       string `json:"gpu_mode" yaml:"gpu_mode"`
	FanCurve      string `json:"fan_curve" yaml:"fan_curve"`
	RGBBrightness int    `json:"rgb_brightness" yaml:"rgb_brightness"`
	RGBEffect     string `json:"rgb_effect" yaml:"rgb_effect"`
	BatteryLimit  int    `json:"battery_limit" yaml:"battery_limit"`
	RefreshRate   *int   `json:"refresh_rate" yaml:"refresh_rate"`
	Description   string `json:"description" yaml:"description"`
}

func hz(v int) *int { return &v }

// Builtins are the shipped profiles, in display order.
var Builtins = []SystemProfile{
	{Name: "Gaming", TDPWatts: 70, GPUMode: "Ultimate", FanCurve: "Performance", RGBBrightness: 100, RGBEffect: "Rainbow", BatteryLimit: 100, RefreshRate: hz(165), Description: "Maximum performance for gaming sessions"},
	{Name: "Balanced", TDPWatts: 40, GPUMode: "Hybrid", FanCurve: "Balanced", RGBBrightness: 50, RGBEffect: "Static", BatteryLimit: 80, Description: "Balanced performance and efficiency"},
	{Name: "Work", TDPWatts: 35, GPUMode: "Hybrid", FanCurve: "Quiet", RGBBrightness: 30, RGBEffect: "Static", BatteryLimit: 80, RefreshRate: hz(60), Description: "Optimized for productivity"},
	{Name: "Battery Saver", TDPWatts: 18, GPUMode: "Eco", FanCurve: "Silent", RGBBrightness: 0, RGBEffect: EffectOff, BatteryLimit: 80, RefreshRate: hz(60), Description: "Maximum battery life"},
	{Name: "Silent", TDPWatts: 30, GPUMode: "Hybrid", FanCurve: "Silent", RGBBrightness: 20, RGBEffect: "Breathe", BatteryLimit: 80, RefreshRate: hz(60), Description: "Quiet operation for noise-sensitive environments"},
	{Name: "Turbo", TDPWatts: 90, GPUMode: "Ultimate", FanCurve: "Performance", RGBBrightness: 100, RGBEffect: "Rainbow", BatteryLimit: 100, RefreshRate: hz(165), Description: "Maximum performance, no limits"},
}

// Builtin returns the builtin profile called name.
func Builtin(name string) (SystemProfile, bool) {
	for _, p := range Builtins {
		if p.Name == name {
			return p, true
		}
	}
	return SystemProfile{}, false
}

// IsBuiltin reports whether name belongs to a builtin profile.
func IsBuiltin(name string) bool {
	_, ok := Builtin(name)
	return ok
}

// Validate checks every field against the ranges the controllers accept.
// Refresh rates are not limited to the power preset rates since panels
// differ.
func (p SystemProfile) Validate() error {
	if _, err := normalizeName(p.Name); err != nil {
		return err
	}
	if !power.ValidTDP(p.TDPWatts) {
		return fmt.Errorf("tdp_watts %d out of range %d-%d", p.TDPWatts, power.MinTDP, power.MaxTDP)
	}
	if _, ok := gpu.ParseMode(p.GPUMode); !ok {
		return fmt.Errorf("unknown gpu_mode %q", p.GPUMode)
	}
	if _, ok := fan.PresetFor(p.FanCurve); !ok {
		return fmt.Errorf("unknown fan_curve %q", p.FanCurve)
	}
	if p.RGBBrightness < 0 || p.RGBBrightness > 100 {
		return fmt.Errorf("rgb_brightness %d out of range 0-100", p.RGBBrightness)
	}
	if p.RGBEffect != EffectOff {
		if _, ok := keyboard.ParseEffect(p.RGBEffect); !ok {
			return fmt.Errorf("unknown rgb_effect %q", p.RGBEffect)
		}
	}
	if !battery.ValidLimit(p.BatteryLimit) {
		return battery.ErrInvalidLimit
	}
	if p.RefreshRate != nil && *p.RefreshRate <= 0 {
		return fmt.Errorf("refresh_rate %d must be positive", *p.RefreshRate)
	}
	return nil
}

func normalizeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", errors.New("profile name is required")
	}
	if len(name) > maxNameLen {
		return "", fmt.Errorf("name %q is too long (max %d characters)", name, maxNameLen)
	}
	for _, r := range name {
		if isAllowedNameRune(r) {
			continue
		}
		return "", fmt.Errorf("name %q contains invalid character %q (allowed: letters, digits, spaces, '.', '-', '_')", name, r)
	}
	if strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("name %q must not start with '.'", name)
	}
	return name, nil
}

func isAllowedNameRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case '-', '_', '.', ' ':
		return true
	default:
		return false
	}
}

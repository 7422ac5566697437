// Package power switches platform power profiles and holds the
// application-wide presets (TDP and refresh rate per profile).
package power

import (
	"slices"
	"strings"
)

const (
	Version = "1.1.0"
	AppID   = "com.github.th3cavalry.linux-armoury"
	AppName = "Linux Armoury"
)

// TDP bounds accepted by the hardware, in watts.
const (
	MinTDP = 10
	MaxTDP = 90
)

// SupportedRefreshRates are the panel rates the CLI accepts.
var SupportedRefreshRates = []int{30, 60, 90, 120, 180}

// Preset is one named power profile.
type Preset struct {
	Name        string
	TDP         int
	Refresh     int
	Description string
}

// Presets in order from lowest to highest power draw.
var Presets = []Preset{
	{Name: "emergency", TDP: 10, Refresh: 30, Description: "Emergency battery saving"},
	{Name: "battery", TDP: 18, Refresh: 30, Description: "Maximum battery life"},
	{Name: "efficient", TDP: 30, Refresh: 60, Description: "Efficient with good performance"},
	{Name: "balanced", TDP: 40, Refresh: 90, Description: "Balanced performance"},
	{Name: "performance", TDP: 55, Refresh: 120, Description: "High performance"},
	{Name: "gaming", TDP: 70, Refresh: 180, Description: "Gaming optimized"},
	{Name: "maximum", TDP: 90, Refresh: 180, Description: "Maximum performance"},
}

// LookupPreset finds a preset by name, ignoring case.
func LookupPreset(name string) (Preset, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range Presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// PresetNames lists the preset names in order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for _, p := range Presets {
		names = append(names, p.Name)
	}
	return names
}

// ValidRefreshRate reports whether hz is one of SupportedRefreshRates.
func ValidRefreshRate(hz int) bool {
	return slices.Contains(SupportedRefreshRates, hz)
}

// ValidTDP reports whether w is inside MinTDP..MaxTDP.
func ValidTDP(w int) bool {
	return w >= MinTDP && w <= MaxTDP
}

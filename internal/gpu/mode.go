// Package gpu switches graphics modes through supergfxctl and reads live
// statistics for NVIDIA, AMD and Intel GPUs.
package gpu

import "strings"

// Mode is a supergfxctl graphics mode.
type Mode string

const (
	Hybrid      Mode = "Hybrid"
	Integrated  Mode = "Integrated"
	Vfio        Mode = "Vfio"
	AsusEgpu    Mode = "AsusEgpu"
	AsusMuxDgpu Mode = "AsusMuxDgpu"
)

// Modes lists every mode supergfxctl knows.
var Modes = []Mode{Hybrid, Integrated, Vfio, AsusEgpu, AsusMuxDgpu}

// ParseMode matches s case-insensitively. The profile names Ultimate and
// Dedicated map to AsusMuxDgpu and Eco to Integrated.
func ParseMode(s string) (Mode, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "ultimate", "dedicated":
		return AsusMuxDgpu, true
	case "eco":
		return Integrated, true
	}
	for _, m := range Modes {
		if strings.ToLower(string(m)) == s {
			return m, true
		}
	}
	return "", false
}

// PowerStatus is the dGPU runtime power state.
type PowerStatus string

const (
	PowerActive    PowerStatus = "active"
	PowerSuspended PowerStatus = "suspended"
	PowerOff       PowerStatus = "off"
	PowerUnknown   PowerStatus = "unknown"
)

func parsePowerStatus(s string) PowerStatus {
	s = strings.ToLower(s)
	switch {
	case strings.Contains(s, "active"):
		return PowerActive
	case strings.Contains(s, "suspend"):
		return PowerSuspended
	case strings.Contains(s, "off"):
		return PowerOff
	}
	return PowerUnknown
}

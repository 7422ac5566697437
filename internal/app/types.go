package app

import (
	"time"

	"armoury/internal/power"
)

// StatusParams controls SystemStatus.
type StatusParams struct {
	Timeout time.Duration
	// Local skips the daemon and samples in-process.
	Local bool
}

// SystemStatus is one reading of the machine. Nil fields were not
// available. The json tags match the daemon's GetStatus fields.
type SystemStatus struct {
	CPUTemp     *float64 `json:"cpu_temperature"`
	GPUTemp     *float64 `json:"gpu_temperature"`
	Battery     *int     `json:"battery_percent"`
	RefreshRate *int     `json:"refresh_rate"`
	OnAC        bool     `json:"on_ac_power"`
	Profile     string   `json:"power_profile"`
	Gaming      bool     `json:"gaming_active"`
	CPULoad     float64  `json:"cpu_load"`
	FromDaemon  bool     `json:"-"`
}

// PowerProfileParams selects a power preset.
type PowerProfileParams struct {
	Name    string
	Timeout time.Duration
}

// PowerProfileResult reports a preset switch.
type PowerProfileResult struct {
	Message      string `json:"message"`
	RefreshSet   bool   `json:"refresh_set"`
	RefreshError string `json:"refresh_error,omitempty"`
	ViaDaemon    bool   `json:"-"`
}

// PowerProfiles describes the profile backend.
type PowerProfiles struct {
	Backend    power.Backend
	Current    string
	HasCurrent bool
	Available  []string
	Presets    []power.Preset
}

// ChargeLimitParams sets the battery threshold.
type ChargeLimitParams struct {
	Limit   int
	Timeout time.Duration
}

// ChargeLimitResult reports a threshold change.
type ChargeLimitResult struct {
	Message   string `json:"message"`
	ViaDaemon bool   `json:"-"`
}

// SystemProfileParams names a stored system profile.
type SystemProfileParams struct {
	Name    string
	Timeout time.Duration
}

// SystemProfileResult reports a system profile application.
type SystemProfileResult struct {
	OK        bool     `json:"ok"`
	Message   string   `json:"message"`
	Failed    []string `json:"failed_steps"`
	ViaDaemon bool     `json:"-"`
}

// KeyboardParams changes the keyboard lighting. Zero fields are left
// untouched; Brightness uses -1 for "unchanged".
type KeyboardParams struct {
	Brightness int
	Color      string
	// Color2 is the second colour of the blending effects.
	Color2     string
	Effect     string
}

// TDPParams selects a TDP preset or custom triple. Preset wins when set.
type TDPParams struct {
	Preset string
	Custom string
}

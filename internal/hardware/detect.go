package hardware

import (
	"context"
	"strings"
	"sync"

	"armoury/internal/execx"
	"armoury/internal/sysfs"

	"golang.org/x/sys/unix"
)

// Feature is one optional hardware capability.
type Feature int

const (
	PlatformProfile Feature = iota
	ChargeControl
	KeyboardBacklight
	KeyboardRGB
	FanCurves
	GPUMux
	DGPU
	AnimeMatrix
	PanelOverdrive
)

var featureLabels = map[Feature]string{
	PlatformProfile:   "Platform Profile",
	ChargeControl:     "Battery Charge Control",
	KeyboardBacklight: "Keyboard Backlight",
	KeyboardRGB:       "Keyboard RGB",
	FanCurves:         "Fan Curves",
	GPUMux:            "GPU Switching",
	DGPU:              "Discrete GPU",
	AnimeMatrix:       "Anime Matrix",
	PanelOverdrive:    "Panel Overdrive",
}

func (f Feature) String() string {
	return featureLabels[f]
}

const (
	AsusWMIDir             = "/sys/devices/platform/asus-nb-wmi"
	platformProfilePath    = "/sys/firmware/acpi/platform_profile"
	platformProfileChoices = "/sys/firmware/acpi/platform_profile_choices"
	chargeControlGlob      = "/sys/class/power_supply/BAT*/charge_control_end_threshold"
	kbdBacklightGlob       = "/sys/class/leds/*::kbd_backlight"
	animeMatrixPath        = "/sys/class/leds/asus::anime_matrix"
	fanCurveGlob           = AsusWMIDir + "/fan_curve_*"
	dgpuPath               = "/sys/bus/pci/devices/0000:01:00.0"
	panelODPath            = AsusWMIDir + "/panel_od"
	dgpuDisablePath        = AsusWMIDir + "/dgpu_disable"
)

// Capabilities is the result of one detection pass.
type Capabilities struct {
	IsASUS            bool
	Model             string
	Family            string
	KernelVersion     string
	Features          map[Feature]bool
	AsusdAvailable    bool
	SupergfxAvailable bool
	PlatformProfiles  []string
	ChargeLimitPath   string
	KbdBacklightPath  string
	FanCurvePaths     []string
	DGPUPath          string
}

// Has reports whether f was detected.
func (c Capabilities) Has(f Feature) bool {
	return c.Features[f]
}

// FeatureState is one row of the capability report.
type FeatureState struct {
	Name      string
	Available bool
}

// FeatureStatus returns the capability report in display order.
func (c Capabilities) FeatureStatus() []FeatureState {
	out := make([]FeatureState, 0, len(featureLabels)+2)
	for f := PlatformProfile; f <= PanelOverdrive; f++ {
		out = append(out, FeatureState{Name: f.String(), Available: c.Has(f)})
	}
	return append(out,
		FeatureState{Name: "asusd Available", Available: c.AsusdAvailable},
		FeatureState{Name: "supergfxctl Available", Available: c.SupergfxAvailable},
	)
}

// Detector inspects sysfs and systemd. Results are cached until Detect is
// called with force.
type Detector struct {
	fs     *sysfs.FS
	runner execx.Runner
	uname  func() string

	mu   sync.Mutex
	caps *Capabilities
}

// NewDetector returns a Detector.
func NewDetector(fs *sysfs.FS, r execx.Runner) *Detector {
	return &Detector{fs: fs, runner: r, uname: kernelRelease}
}

func kernelRelease() string {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return ""
	}
	return unix.ByteSliceToString(u.Release[:])
}

func (d *Detector) serviceActive(ctx context.Context, unit string) bool {
	out, err := d.runner.Run(ctx, "systemctl", "is-active", unit)
	return err == nil && strings.TrimSpace(out) == "active"
}

func (d *Detector) exists(p string) bool {
	if strings.Contains(p, "*") {
		return len(d.fs.Glob(p)) > 0
	}
	return d.fs.Exists(p)
}

func (d *Detector) hasRGBKeyboard() bool {
	if len(d.fs.Glob("/sys/class/leds/asus::kbd_backlight/device/leds/*/brightness")) > 0 {
		return true
	}
	return d.fs.Exists("/sys/class/leds/asus::kbd_backlight/multi_intensity")
}

// Detect runs the checks, or returns the cached result unless force is set.
func (d *Detector) Detect(ctx context.Context, force bool) Capabilities {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.caps != nil && !force {
		return *d.caps
	}

	model, _ := ReadModel(d.fs)
	caps := Capabilities{
		IsASUS:            model.IsASUS(),
		Model:             model.Name(),
		KernelVersion:     d.uname(),
		Features:          make(map[Feature]bool),
		AsusdAvailable:    d.serviceActive(ctx, "asusd"),
		SupergfxAvailable: d.serviceActive(ctx, "supergfxd"),
	}
	if fam, ok := MatchModel(model.Name()); ok {
		caps.Family = fam.ID
	}

	if d.fs.Exists(platformProfilePath) {
		caps.Features[PlatformProfile] = true
		caps.PlatformProfiles = strings.Fields(d.fs.ReadString(platformProfileChoices))
	}
	if paths := d.fs.Glob(chargeControlGlob); len(paths) > 0 {
		caps.Features[ChargeControl] = true
		caps.ChargeLimitPath = paths[0]
	}
	if paths := d.fs.Glob(kbdBacklightGlob); len(paths) > 0 {
		caps.Features[KeyboardBacklight] = true
		caps.KbdBacklightPath = paths[0]
		caps.Features[KeyboardRGB] = d.hasRGBKeyboard()
	}
	if paths := d.fs.Glob(fanCurveGlob); len(paths) > 0 {
		caps.Features[FanCurves] = true
		caps.FanCurvePaths = paths
	}
	if d.exists(dgpuPath) {
		caps.Features[DGPU] = true
		caps.DGPUPath = dgpuPath
	}
	caps.Features[AnimeMatrix] = d.exists(animeMatrixPath)
	caps.Features[PanelOverdrive] = d.exists(panelODPath)
	caps.Features[GPUMux] = caps.AsusdAvailable || d.exists(dgpuDisablePath)

	d.caps = &caps
	return caps
}

// Tool is the presence of one helper binary.
type Tool struct {
	Name      string
	Available bool
}

// Tools reports which of the main helper binaries are installed.
func Tools(r execx.Runner) []Tool {
	names := []string{"pwrcfg", "asusctl", "supergfxctl", "xrandr", "sensors", "ryzenadj"}
	out := make([]Tool, 0, len(names))
	for _, n := range names {
		out = append(out, Tool{Name: n, Available: r.LookPath(n)})
	}
	return out
}

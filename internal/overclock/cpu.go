// Package overclock tunes CPU frequency scaling, APU power limits through
// ryzenadj and AMD GPU power states.
package overclock

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"armoury/internal/execx"
	"armoury/internal/sysfs"
)

const (
	cpuDir       = "/sys/devices/system/cpu"
	cpu0Freq     = cpuDir + "/cpu0/cpufreq"
	intelNoTurbo = cpuDir + "/intel_pstate/no_turbo"
	cpufreqBoost = cpuDir + "/cpufreq/boost"
)

// ErrNotSupported is returned when the control is not exposed.
var ErrNotSupported = errors.New("not supported on this system")

var (
	modelNameRe = regexp.MustCompile(`(?m)^model name\s*:\s*(.+)$`)
	cpuCoresRe  = regexp.MustCompile(`(?m)^cpu cores\s*:\s*(\d+)`)
	processorRe = regexp.MustCompile(`(?m)^processor\s*:`)
)

// CPUInfo is the frequency scaling state of cpu0.
type CPUInfo struct {
	Model         string
	Cores         int
	Threads       int
	MinFreqMHz    float64
	MaxFreqMHz    float64
	CurFreqMHz    float64
	Governor      string
	Governors     []string
	Turbo         bool
	EPP           string
	AvailableEPPs []string
}

// Controller reads and writes CPU, APU and AMD GPU tuning knobs.
type Controller struct {
	fs     *sysfs.FS
	runner execx.Runner
}

// New returns a Controller.
func New(fs *sysfs.FS, r execx.Runner) *Controller {
	return &Controller{fs: fs, runner: r}
}

func (c *Controller) khzToMHz(p string) float64 {
	n, err := c.fs.ReadInt64(p)
	if err != nil {
		return 0
	}
	return float64(n) / 1000
}

// CPUInfo reads /proc/cpuinfo and the cpu0 cpufreq files.
func (c *Controller) CPUInfo() CPUInfo {
	var info CPUInfo
	if raw, err := c.fs.Read("/proc/cpuinfo"); err == nil {
		if m := modelNameRe.FindStringSubmatch(raw); m != nil {
			info.Model = strings.TrimSpace(m[1])
		}
		info.Threads = len(processorRe.FindAllStringIndex(raw, -1))
		info.Cores = info.Threads
		if m := cpuCoresRe.FindStringSubmatch(raw); m != nil {
			info.Cores, _ = strconv.Atoi(m[1])
		}
	}
	info.MinFreqMHz = c.khzToMHz(cpu0Freq + "/cpuinfo_min_freq")
	info.MaxFreqMHz = c.khzToMHz(cpu0Freq + "/cpuinfo_max_freq")
	info.CurFreqMHz = c.khzToMHz(cpu0Freq + "/scaling_cur_freq")
	info.Governor = c.fs.ReadString(cpu0Freq + "/scaling_governor")
	info.Governors = c.Governors()
	info.Turbo = c.TurboEnabled()
	info.EPP = c.fs.ReadString(cpu0Freq + "/energy_performance_preference")
	info.AvailableEPPs = strings.Fields(c.fs.ReadString(cpu0Freq + "/energy_performance_available_preferences"))
	return info
}

// Governors lists the scaling governors of cpu0.
func (c *Controller) Governors() []string {
	return strings.Fields(c.fs.ReadString(cpu0Freq + "/scaling_available_governors"))
}

// TurboEnabled reads intel_pstate/no_turbo (0 means on), then
// cpufreq/boost (1 means on). Unknown counts as enabled.
func (c *Controller) TurboEnabled() bool {
	if v, err := c.fs.Read(intelNoTurbo); err == nil && v != "" {
		return v == "0"
	}
	if v, err := c.fs.Read(cpufreqBoost); err == nil && v != "" {
		return v == "1"
	}
	return true
}

// SetTurbo enables or disables turbo boost.
func (c *Controller) SetTurbo(ctx context.Context, enabled bool) error {
	switch {
	case c.fs.Exists(intelNoTurbo):
		v := "1"
		if enabled {
			v = "0"
		}
		return c.fs.WritePrivileged(ctx, c.runner, intelNoTurbo, v)
	case c.fs.Exists(cpufreqBoost):
		v := "0"
		if enabled {
			v = "1"
		}
		return c.fs.WritePrivileged(ctx, c.runner, cpufreqBoost, v)
	}
	return fmt.Errorf("turbo boost: %w", ErrNotSupported)
}

// cpuDirs returns the cpufreq directories of cpu0, cpu1, ...
func (c *Controller) cpuDirs() []string {
	names, err := c.fs.List(cpuDir)
	if err != nil {
		return nil
	}
	var out []string
	for _, n := range names {
		num, ok := strings.CutPrefix(n, "cpu")
		if !ok || num == "" {
			continue
		}
		if _, err := strconv.Atoi(num); err != nil {
			continue
		}
		out = append(out, path.Join(cpuDir, n, "cpufreq"))
	}
	return out
}

// writeAllCPUs writes value to file in every cpufreq directory that has it.
func (c *Controller) writeAllCPUs(ctx context.Context, file, value string) error {
	var errs []error
	wrote := false
	for _, dir := range c.cpuDirs() {
		p := path.Join(dir, file)
		if !c.fs.Exists(p) {
			continue
		}
		wrote = true
		if err := c.fs.WritePrivileged(ctx, c.runner, p, value); err != nil {
			errs = append(errs, err)
		}
	}
	if !wrote {
		return fmt.Errorf("%s: %w", file, ErrNotSupported)
	}
	return errors.Join(errs...)
}

// SetGovernor switches every core to governor.
func (c *Controller) SetGovernor(ctx context.Context, governor string) error {
	if avail := c.Governors(); len(avail) > 0 && !slices.Contains(avail, governor) {
		return fmt.Errorf("invalid governor %q; available: %s", governor, strings.Join(avail, ", "))
	}
	if c.runner.LookPath("cpupower") {
		_, err := execx.Privileged(ctx, c.runner, "cpupower", "frequency-set", "-g", governor)
		return err
	}
	return c.writeAllCPUs(ctx, "scaling_governor", governor)
}

// SetFrequencyLimits bounds scaling through cpupower. Zero leaves a bound
// unchanged.
func (c *Controller) SetFrequencyLimits(ctx context.Context, minMHz, maxMHz int) error {
	if !c.runner.LookPath("cpupower") {
		return fmt.Errorf("cpupower: %w", execx.ErrNotFound)
	}
	args := []string{"frequency-set"}
	if minMHz > 0 {
		args = append(args, "-d", fmt.Sprintf("%dMHz", minMHz))
	}
	if maxMHz > 0 {
		args = append(args, "-u", fmt.Sprintf("%dMHz", maxMHz))
	}
	if len(args) == 1 {
		return errors.New("no frequency limit given")
	}
	_, err := execx.Privileged(ctx, c.runner, "cpupower", args...)
	return err
}

// SetEPP writes the energy performance preference of every core.
func (c *Controller) SetEPP(ctx context.Context, pref string) error {
	avail := strings.Fields(c.fs.ReadString(cpu0Freq + "/energy_performance_available_preferences"))
	if len(avail) > 0 && !slices.Contains(avail, pref) {
		return fmt.Errorf("invalid energy preference %q; available: %s", pref, strings.Join(avail, ", "))
	}
	return c.writeAllCPUs(ctx, "energy_performance_preference", pref)
}

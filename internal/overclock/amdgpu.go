package overclock

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strconv"
	"strings"

	"armoury/internal/sysfs"
)

// GPU performance levels accepted by power_dpm_force_performance_level.
var PerformanceLevels = []string{"auto", "low", "high", "manual"}

// AMDGPUInfo is the tuning state of the first AMD DRM card.
type AMDGPUInfo struct {
	Device        string
	Name          string
	VRAMMB        int64
	CoreClock     string
	MemClock      string
	TempC         float64
	HasTemp       bool
	PerfLevel     string
	PowerProfile  string
	PowerProfiles []string
}

// PowerProfile is one row of pp_power_profile_mode.
type PowerProfile struct {
	Index  int
	Name   string
	Active bool
}

func (c *Controller) amdDevice() (string, error) {
	devs := c.fs.DRMDevices(sysfs.VendorAMD)
	if len(devs) == 0 {
		return "", fmt.Errorf("amd gpu: %w", ErrNotSupported)
	}
	return devs[0], nil
}

// AMDGPUInfo reads clocks, temperature and power state of the AMD GPU.
func (c *Controller) AMDGPUInfo() (AMDGPUInfo, error) {
	dev, err := c.amdDevice()
	if err != nil {
		return AMDGPUInfo{}, err
	}
	info := AMDGPUInfo{Device: dev}
	info.Name = c.fs.ReadString(path.Join(dev, "product_name"))
	if info.Name == "" {
		info.Name, _ = c.fs.HwmonValue(dev, "name")
	}
	if n, err := c.fs.ReadInt64(path.Join(dev, "mem_info_vram_total")); err == nil {
		info.VRAMMB = n / (1024 * 1024)
	}
	info.CoreClock = activeDPM(c.fs.ReadString(path.Join(dev, "pp_dpm_sclk")))
	info.MemClock = activeDPM(c.fs.ReadString(path.Join(dev, "pp_dpm_mclk")))
	if v, ok := c.fs.HwmonValue(dev, "temp1_input"); ok {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			info.TempC, info.HasTemp = n/1000, true
		}
	}
	info.PerfLevel = c.fs.ReadString(path.Join(dev, "power_dpm_force_performance_level"))
	for _, p := range parsePowerProfiles(c.fs.ReadString(path.Join(dev, "pp_power_profile_mode"))) {
		info.PowerProfiles = append(info.PowerProfiles, p.Name)
		if p.Active {
			info.PowerProfile = p.Name
		}
	}
	return info, nil
}

// activeDPM returns the clock of the line marked with "*" in a pp_dpm table.
func activeDPM(table string) string {
	for _, line := range strings.Split(table, "\n") {
		if !strings.Contains(line, "*") {
			continue
		}
		_, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "*"))
	}
	return ""
}

func parsePowerProfiles(raw string) []PowerProfile {
	var out []PowerProfile
	for _, line := range strings.Split(raw, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		idx, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		name := fields[1]
		active := strings.Contains(name, "*")
		name = strings.TrimRight(name, "*:")
		if name == "" {
			continue
		}
		out = append(out, PowerProfile{Index: idx, Name: name, Active: active})
	}
	return out
}

// SetGPUPerformanceLevel forces the DPM performance level.
func (c *Controller) SetGPUPerformanceLevel(ctx context.Context, level string) error {
	if !slices.Contains(PerformanceLevels, level) {
		return fmt.Errorf("invalid performance level %q; available: %s", level, strings.Join(PerformanceLevels, ", "))
	}
	dev, err := c.amdDevice()
	if err != nil {
		return err
	}
	return c.fs.WritePrivileged(ctx, c.runner, path.Join(dev, "power_dpm_force_performance_level"), level)
}

// GPUPowerProfiles lists the power profile modes of the AMD GPU.
func (c *Controller) GPUPowerProfiles() ([]PowerProfile, error) {
	dev, err := c.amdDevice()
	if err != nil {
		return nil, err
	}
	raw, err := c.fs.Read(path.Join(dev, "pp_power_profile_mode"))
	if err != nil {
		return nil, fmt.Errorf("power profiles: %w", ErrNotSupported)
	}
	return parsePowerProfiles(raw), nil
}

// SetGPUPowerProfile selects a power profile by index. The driver only
// honours it under the manual performance level.
func (c *Controller) SetGPUPowerProfile(ctx context.Context, index int) error {
	profiles, err := c.GPUPowerProfiles()
	if err != nil {
		return err
	}
	if !slices.ContainsFunc(profiles, func(p PowerProfile) bool { return p.Index == index }) {
		return fmt.Errorf("invalid power profile index %d", index)
	}
	dev, _ := c.amdDevice()
	return c.fs.WritePrivileged(ctx, c.runner, path.Join(dev, "pp_power_profile_mode"), strconv.Itoa(index))
}

// ResetGPUClocks restores the default overdrive clock table.
func (c *Controller) ResetGPUClocks(ctx context.Context) error {
	dev, err := c.amdDevice()
	if err != nil {
		return err
	}
	p := path.Join(dev, "pp_od_clk_voltage")
	if !c.fs.Exists(p) {
		return fmt.Errorf("overdrive: %w", ErrNotSupported)
	}
	return c.fs.WritePrivileged(ctx, c.runner, p, "r")
}

package gpu

import (
	"context"
	"path"
	"regexp"
	"strconv"
	"strings"

	"armoury/internal/sysfs"
)

// LiveStats is a snapshot of the active GPU.
type LiveStats struct {
	Name            string
	Vendor          string
	Driver          string
	ClockMHz        int
	MemClockMHz     int
	ClockMaxMHz     int
	MemClockMaxMHz  int
	UsagePercent    int
	MemUsagePercent int
	EncoderPercent  int
	DecoderPercent  int
	VRAMTotalMB     int
	VRAMUsedMB      int
	VRAMFreeMB      int
	TempC           int
	JunctionTempC   int
	MemTempC        int
	PowerDrawW      float64
	PowerLimitW     float64
	FanRPM          int
	FanPercent      int
	PerfLevel       string
	PowerProfile    string
}

func emptyStats() LiveStats {
	return LiveStats{
		Name:         "Unknown",
		Vendor:       "Unknown",
		Driver:       "Unknown",
		PerfLevel:    "auto",
		PowerProfile: "default",
	}
}

var (
	mhzRe     = regexp.MustCompile(`(\d+)\s*[Mm][Hh]z`)
	bracketRe = regexp.MustCompile(`\[([^\[\]]+)\][^\[]*$`)
)

var nvidiaFields = []string{
	"gpu_name", "driver_version",
	"clocks.current.graphics", "clocks.current.memory",
	"clocks.max.graphics", "clocks.max.memory",
	"utilization.gpu", "utilization.memory",
	"utilization.encoder", "utilization.decoder",
	"memory.total", "memory.used", "memory.free",
	"temperature.gpu", "power.draw", "power.limit", "fan.speed",
}

func atoi(s string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return int(f)
}

func atof(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

// LiveStats returns NVIDIA stats when nvidia-smi works, else AMD, else Intel.
func (c *Controller) LiveStats(ctx context.Context) LiveStats {
	if s, ok := c.nvidiaStats(ctx); ok {
		return s
	}
	if devs := c.fs.DRMDevices(sysfs.VendorAMD); len(devs) > 0 {
		return c.amdStats(ctx, devs[0])
	}
	if devs := c.fs.DRMDevices(sysfs.VendorIntel); len(devs) > 0 {
		return c.intelStats(ctx, devs[0])
	}
	return emptyStats()
}

func (c *Controller) nvidiaStats(ctx context.Context) (LiveStats, bool) {
	if !c.runner.LookPath("nvidia-smi") {
		return LiveStats{}, false
	}
	out, err := c.runner.Run(ctx, "nvidia-smi", "--query-gpu="+strings.Join(nvidiaFields, ","), "--format=csv,noheader,nounits")
	if err != nil {
		return LiveStats{}, false
	}
	first, _, _ := strings.Cut(out, "\n")
	v := strings.Split(first, ", ")
	if len(v) < len(nvidiaFields) {
		return LiveStats{}, false
	}
	s := emptyStats()
	s.Name = v[0]
	s.Vendor = "NVIDIA"
	s.Driver = v[1]
	s.ClockMHz = atoi(v[2])
	s.MemClockMHz = atoi(v[3])
	s.ClockMaxMHz = atoi(v[4])
	s.MemClockMaxMHz = atoi(v[5])
	s.UsagePercent = atoi(v[6])
	s.MemUsagePercent = atoi(v[7])
	s.EncoderPercent = atoi(v[8])
	s.DecoderPercent = atoi(v[9])
	s.VRAMTotalMB = atoi(v[10])
	s.VRAMUsedMB = atoi(v[11])
	s.VRAMFreeMB = atoi(v[12])
	s.TempC = atoi(v[13])
	s.PowerDrawW = atof(v[14])
	s.PowerLimitW = atof(v[15])
	s.FanPercent = atoi(v[16])
	return s, true
}

// lspciName returns the last bracketed name on the first VGA line that
// mentions one of vendors.
func (c *Controller) lspciName(ctx context.Context, vendors ...string) string {
	out, err := c.runner.Run(ctx, "lspci", "-v")
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "VGA") {
			continue
		}
		for _, v := range vendors {
			if strings.Contains(line, v) {
				if m := bracketRe.FindStringSubmatch(line); m != nil {
					return m[1]
				}
			}
		}
	}
	return ""
}

// dpmClocks returns the active ("*") and highest clock of a pp_dpm file.
func dpmClocks(table string) (cur, highest int) {
	for _, line := range strings.Split(table, "\n") {
		m := mhzRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		clk, _ := strconv.Atoi(m[1])
		highest = max(highest, clk)
		if strings.Contains(line, "*") {
			cur = clk
		}
	}
	return cur, highest
}

func (c *Controller) amdStats(ctx context.Context, dev string) LiveStats {
	s := emptyStats()
	s.Vendor = "AMD"
	read := func(name string) string { return c.fs.ReadString(path.Join(dev, name)) }
	hwmon := func(name string) int {
		v, _ := c.fs.HwmonValue(dev, name)
		return atoi(v)
	}

	if s.Name = c.lspciName(ctx, "AMD", "ATI", "Radeon"); s.Name == "" {
		s.Name = "AMD GPU"
	}
	s.UsagePercent = atoi(read("gpu_busy_percent"))
	s.ClockMHz, s.ClockMaxMHz = dpmClocks(read("pp_dpm_sclk"))
	s.MemClockMHz, s.MemClockMaxMHz = dpmClocks(read("pp_dpm_mclk"))
	s.TempC = hwmon("temp1_input") / 1000
	s.JunctionTempC = hwmon("temp2_input") / 1000
	s.MemTempC = hwmon("temp3_input") / 1000
	s.PowerDrawW = float64(hwmon("power1_average")) / 1e6
	s.PowerLimitW = float64(hwmon("power1_cap")) / 1e6
	s.FanRPM = hwmon("fan1_input")
	if fanMax := hwmon("fan1_max"); fanMax > 0 && s.FanRPM > 0 {
		s.FanPercent = s.FanRPM * 100 / fanMax
	}

	const mib = 1024 * 1024
	s.VRAMTotalMB = atoi(read("mem_info_vram_total")) / mib
	if used := read("mem_info_vram_used"); used != "" {
		s.VRAMUsedMB = atoi(used) / mib
		s.VRAMFreeMB = s.VRAMTotalMB - s.VRAMUsedMB
		if s.VRAMTotalMB > 0 {
			s.MemUsagePercent = s.VRAMUsedMB * 100 / s.VRAMTotalMB
		}
	}

	if lvl := read("power_dpm_force_performance_level"); lvl != "" {
		s.PerfLevel = lvl
	}
	for _, line := range strings.Split(read("pp_power_profile_mode"), "\n") {
		if !strings.Contains(line, "*") {
			continue
		}
		if parts := strings.Fields(line); len(parts) >= 2 {
			s.PowerProfile = strings.NewReplacer("*", "", ":", "").Replace(parts[1])
			break
		}
	}
	if target, err := c.fs.Readlink(path.Join(dev, "driver")); err == nil {
		s.Driver = path.Base(target)
	}
	return s
}

func (c *Controller) intelStats(ctx context.Context, dev string) LiveStats {
	s := emptyStats()
	s.Vendor = "Intel"
	if s.Name = c.lspciName(ctx, "Intel"); s.Name == "" {
		s.Name = "Intel Integrated Graphics"
	}
	if v, ok := c.fs.HwmonValue(dev, "temp1_input"); ok {
		s.TempC = atoi(v) / 1000
	}
	if v, ok := c.fs.HwmonValue(dev, "power1_input"); ok {
		s.PowerDrawW = atof(v) / 1e6
	}
	s.Driver = "i915"
	return s
}

// Device is one entry of the GPU inventory.
type Device struct {
	Index  int
	Name   string
	Vendor string
	Type   string
}

var integratedAMD = []string{"Vega", "Renoir", "Cezanne", "Barcelo", "Phoenix", "Hawk", "Strix"}

// Devices lists NVIDIA GPUs from nvidia-smi and AMD/Intel GPUs from DRM.
func (c *Controller) Devices(ctx context.Context) []Device {
	var out []Device
	if c.runner.LookPath("nvidia-smi") {
		if res, err := c.runner.Run(ctx, "nvidia-smi", "--query-gpu=index,name", "--format=csv,noheader"); err == nil {
			for _, line := range strings.Split(res, "\n") {
				idx, name, ok := strings.Cut(line, ", ")
				if !ok {
					continue
				}
				out = append(out, Device{Index: atoi(idx), Name: name, Vendor: "NVIDIA", Type: "discrete"})
			}
		}
	}
	for _, dev := range c.fs.DRMDevices(sysfs.VendorAMD) {
		name := c.lspciName(ctx, "AMD", "Radeon")
		if name == "" {
			name = "AMD GPU"
		}
		typ := "discrete"
		for _, k := range integratedAMD {
			if strings.Contains(name, k) {
				typ = "integrated"
				break
			}
		}
		out = append(out, Device{Index: cardIndex(dev), Name: name, Vendor: "AMD", Type: typ})
	}
	for _, dev := range c.fs.DRMDevices(sysfs.VendorIntel) {
		name := c.lspciName(ctx, "Intel")
		if name == "" {
			name = "Intel Graphics"
		}
		out = append(out, Device{Index: cardIndex(dev), Name: name, Vendor: "Intel", Type: "integrated"})
	}
	return out
}

// cardIndex extracts N from /sys/class/drm/cardN/device.
func cardIndex(dev string) int {
	return atoi(strings.TrimPrefix(path.Base(path.Dir(dev)), "card"))
}

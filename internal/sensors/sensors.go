// Package sensors reads temperatures, power source and the live TDP limit.
package sensors

import (
	"context"
	"path"
	"regexp"
	"strconv"
	"strings"

	"armoury/internal/execx"
	"armoury/internal/sysfs"

	gosensors "github.com/shirou/gopsutil/v4/sensors"
)

var (
	celsiusRe = regexp.MustCompile(`(\d+\.\d+)°C`)
	intRe     = regexp.MustCompile(`(\d+)`)
)

// Reader gathers readings from sysfs, lm-sensors, nvidia-smi and ryzenadj.
type Reader struct {
	fs     *sysfs.FS
	runner execx.Runner
	// temperatures is the gopsutil reader, replaced in tests.
	temperatures func(ctx context.Context) ([]gosensors.TemperatureStat, error)
}

// New returns a Reader over fs using r for helper tools.
func New(fs *sysfs.FS, r execx.Runner) *Reader {
	return &Reader{fs: fs, runner: r, temperatures: gosensors.TemperaturesWithContext}
}

func milli(v string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	return n / 1000, true
}

// CPUTemperature returns the CPU temperature in Celsius.
func (r *Reader) CPUTemperature(ctx context.Context) (float64, bool) {
	for i := 0; i < 4; i++ {
		p := path.Join(sysfs.HwmonDir, "hwmon"+strconv.Itoa(i), "temp1_input")
		if t, ok := milli(r.fs.ReadString(p)); ok && t > 0 && t < 150 {
			return t, true
		}
	}

	if out, err := r.runner.Run(ctx, "sensors", "-A"); err == nil {
		for _, line := range strings.Split(out, "\n") {
			if !strings.Contains(line, "Tctl") && !strings.Contains(line, "CPU") {
				continue
			}
			if m := celsiusRe.FindStringSubmatch(line); m != nil {
				t, _ := strconv.ParseFloat(m[1], 64)
				return t, true
			}
		}
	}

	if r.temperatures != nil {
		// gopsutil may return partial results together with an error.
		stats, _ := r.temperatures(ctx)
		for _, s := range stats {
			key := strings.ToLower(s.SensorKey)
			if (strings.Contains(key, "k10temp") || strings.Contains(key, "coretemp") || strings.Contains(key, "tctl")) && s.Temperature > 0 {
				return s.Temperature, true
			}
		}
	}

	if t, ok := milli(r.fs.ReadString("/sys/class/thermal/thermal_zone0/temp")); ok && t > 0 {
		return t, true
	}
	return 0, false
}

// GPUTemperature returns the GPU temperature in Celsius.
func (r *Reader) GPUTemperature(ctx context.Context) (float64, bool) {
	if r.runner.LookPath("nvidia-smi") {
		out, err := r.runner.Run(ctx, "nvidia-smi", "--query-gpu=temperature.gpu", "--format=csv,noheader")
		if err == nil {
			first, _, _ := strings.Cut(out, "\n")
			if t, err := strconv.ParseFloat(strings.TrimSpace(first), 64); err == nil {
				return t, true
			}
		}
	}

	if dir, ok := r.fs.FindHwmon("amdgpu"); ok {
		if t, ok := milli(r.fs.ReadString(path.Join(dir, "temp1_input"))); ok && t > 0 {
			return t, true
		}
	}

	if out, err := r.runner.Run(ctx, "sensors"); err == nil {
		for _, line := range strings.Split(out, "\n") {
			lower := strings.ToLower(line)
			if !strings.Contains(lower, "edge") && !strings.Contains(lower, "gpu") {
				continue
			}
			if m := celsiusRe.FindStringSubmatch(line); m != nil {
				t, _ := strconv.ParseFloat(m[1], 64)
				return t, true
			}
		}
	}
	return 0, false
}

// OnAC reports whether the laptop runs from mains power. Unknown is
// treated as AC.
func (r *Reader) OnAC() bool {
	if v, err := r.fs.Read(path.Join(sysfs.PowerSupplyDir, "AC", "online")); err == nil {
		return v == "1"
	}
	if names, err := r.fs.List(sysfs.PowerSupplyDir); err == nil {
		for _, name := range names {
			if !strings.Contains(name, "AC") {
				continue
			}
			if v, err := r.fs.Read(path.Join(sysfs.PowerSupplyDir, name, "online")); err == nil {
				return v == "1"
			}
		}
	}
	if dir, ok := r.fs.FindAC(); ok {
		if v, err := r.fs.Read(path.Join(dir, "online")); err == nil {
			return v == "1"
		}
	}
	return true
}

// BatteryPercent returns the battery charge level.
func (r *Reader) BatteryPercent() (int, bool) {
	dir, ok := r.fs.FindBattery()
	if !ok {
		return 0, false
	}
	n, err := r.fs.ReadInt(path.Join(dir, "capacity"))
	if err != nil {
		return 0, false
	}
	return n, true
}

// CurrentTDP returns the STAPM limit in watts as reported by ryzenadj.
func (r *Reader) CurrentTDP(ctx context.Context) (int, bool) {
	out, err := r.runner.Run(ctx, "ryzenadj", "-i")
	if err != nil {
		return 0, false
	}
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "STAPM LIMIT") {
			continue
		}
		if m := intRe.FindStringSubmatch(line); m != nil {
			n, _ := strconv.Atoi(m[1])
			return n, true
		}
	}
	return 0, false
}

// Status is one aggregated reading.
type Status struct {
	CPUTemp    float64
	HasCPUTemp bool
	GPUTemp    float64
	HasGPUTemp bool
	OnAC       bool
	Battery    int
	HasBattery bool
	TDP        int
	HasTDP     bool
}

// Status reads every sensor once.
func (r *Reader) Status(ctx context.Context) Status {
	var s Status
	s.CPUTemp, s.HasCPUTemp = r.CPUTemperature(ctx)
	s.GPUTemp, s.HasGPUTemp = r.GPUTemperature(ctx)
	s.OnAC = r.OnAC()
	s.Battery, s.HasBattery = r.BatteryPercent()
	s.TDP, s.HasTDP = r.CurrentTDP(ctx)
	return s
}

// Package monitor polls the sensors on a fixed interval, records session
// statistics, raises temperature alerts and switches power profiles when
// the power source changes.
package monitor

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"

	"armoury/internal/execx"
	"armoury/internal/sysfs"
)

// Sample is one poll of the machine state.
type Sample struct {
	Time        time.Time
	CPUTemp     float64
	HasCPUTemp  bool
	GPUTemp     float64
	HasGPUTemp  bool
	Battery     int
	HasBattery  bool
	OnAC        bool
	Profile     string
	RefreshRate int
	CPULoad     float64
	Gaming      bool
}

// SensorReader is the subset of sensors.Reader polled every tick.
type SensorReader interface {
	CPUTemperature(ctx context.Context) (float64, bool)
	GPUTemperature(ctx context.Context) (float64, bool)
	OnAC() bool
	BatteryPercent() (int, bool)
}

// ProfileReader reports the active power profile.
type ProfileReader interface {
	Current(ctx context.Context) (string, bool)
}

// RateReader reports the current refresh rate.
type RateReader interface {
	CurrentRate(ctx context.Context) (int, bool)
}

// Sampler collects Samples. Profile and Rate may be nil.
type Sampler struct {
	Sensors SensorReader
	Profile ProfileReader
	Rate    RateReader

	fs     *sysfs.FS
	runner execx.Runner
	now    func() time.Time

	// replaced in tests
	processes func(ctx context.Context) ([]string, error)
	cpuLoad   func(ctx context.Context) (float64, error)
}

// NewSampler returns a Sampler reading process and CPU data through
// gopsutil, with /proc and ps as fallbacks for process names.
func NewSampler(fs *sysfs.FS, r execx.Runner, sr SensorReader, profile ProfileReader, rate RateReader) *Sampler {
	return &Sampler{
		Sensors:   sr,
		Profile:   profile,
		Rate:      rate,
		fs:        fs,
		runner:    r,
		now:       time.Now,
		processes: processNames,
		cpuLoad:   cpuPercent,
	}
}

func cpuPercent(ctx context.Context) (float64, error) {
	v, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil || len(v) == 0 {
		return 0, err
	}
	return v[0], nil
}

// ProcessNames lists running process names. gopsutil is tried first, then
// /proc/<pid>/comm, then `ps -eo comm`.
func (s *Sampler) ProcessNames(ctx context.Context) []string {
	if s.processes != nil {
		if names, err := s.processes(ctx); err == nil && len(names) > 0 {
			return names
		}
	}
	if names := procComm(s.fs); len(names) > 0 {
		return names
	}
	return psComm(ctx, s.runner)
}

// GamingActive reports whether a known game or launcher is running.
func (s *Sampler) GamingActive(ctx context.Context) bool {
	return IsGaming(s.ProcessNames(ctx))
}

// Sample polls every source once.
func (s *Sampler) Sample(ctx context.Context) Sample {
	out := Sample{Time: s.now()}
	if s.Sensors != nil {
		out.CPUTemp, out.HasCPUTemp = s.Sensors.CPUTemperature(ctx)
		out.GPUTemp, out.HasGPUTemp = s.Sensors.GPUTemperature(ctx)
		out.Battery, out.HasBattery = s.Sensors.BatteryPercent()
		out.OnAC = s.Sensors.OnAC()
	}
	if s.Profile != nil {
		out.Profile, _ = s.Profile.Current(ctx)
	}
	if s.Rate != nil {
		out.RefreshRate, _ = s.Rate.CurrentRate(ctx)
	}
	if s.cpuLoad != nil {
		out.CPULoad, _ = s.cpuLoad(ctx)
	}
	out.Gaming = s.GamingActive(ctx)
	return out
}

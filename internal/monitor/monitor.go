package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"armoury/internal/power"
	"armoury/internal/sensors"
	"armoury/internal/stats"
)

// DefaultInterval matches the dashboard refresh period.
const DefaultInterval = 2 * time.Second

// Switcher applies the AC or battery profile.
type Switcher interface {
	AutoSwitch(ctx context.Context, onAC bool, acProfile, batteryProfile string) (power.ApplyResult, error)
}

// Config controls the polling loop.
type Config struct {
	Interval       time.Duration
	AutoSwitch     bool
	ACProfile      string
	BatteryProfile string
	Thresholds     sensors.Thresholds
	// StatsDir receives the session file when Run returns. Empty disables
	// saving.
	StatsDir string
}

// Monitor drives a Sampler on a ticker.
type Monitor struct {
	sampler  *Sampler
	session  *stats.Session
	switcher Switcher
	cfg      Config
	log      *slog.Logger

	mu      sync.RWMutex
	latest  Sample
	sampled bool
	cpuAl   sensors.Alert
	gpuAl   sensors.Alert
}

// New returns a Monitor. A nil switcher disables auto-switching and a nil
// logger means slog.Default().
func New(sampler *Sampler, session *stats.Session, switcher Switcher, cfg Config, logger *slog.Logger) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Thresholds == (sensors.Thresholds{}) {
		cfg.Thresholds = sensors.DefaultThresholds
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{sampler: sampler, session: session, switcher: switcher, cfg: cfg, log: logger}
}

// Session returns the statistics being recorded.
func (m *Monitor) Session() *stats.Session {
	return m.session
}

// Config returns the effective polling configuration.
func (m *Monitor) Config() Config {
	return m.cfg
}

// Latest returns the most recent sample.
func (m *Monitor) Latest() (Sample, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest, m.sampled
}

// Run samples immediately and then every Interval until ctx ends. The
// session is saved on the way out.
func (m *Monitor) Run(ctx context.Context) error {
	m.log.Info("monitor started", "interval", m.cfg.Interval, "auto_switch", m.cfg.AutoSwitch)
	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	m.Step(ctx)
	for {
		select {
		case <-ctx.Done():
			m.save()
			m.log.Info("monitor stopped")
			return nil
		case <-ticker.C:
			m.Step(ctx)
		}
	}
}

func (m *Monitor) save() {
	if m.cfg.StatsDir == "" || m.session == nil {
		return
	}
	path, err := m.session.Save(m.cfg.StatsDir)
	if err != nil {
		m.log.Warn("save session failed", "err", err)
		return
	}
	m.log.Info("session saved", "path", path)
}

// Step takes one sample and reacts to it.
func (m *Monitor) Step(ctx context.Context) Sample {
	s := m.sampler.Sample(ctx)

	m.mu.Lock()
	prev, hadPrev := m.latest, m.sampled
	m.latest, m.sampled = s, true
	m.checkTemps(s)
	m.mu.Unlock()

	if m.session != nil {
		m.session.Add(toStats(s))
	}

	if m.cfg.AutoSwitch && m.switcher != nil && hadPrev && prev.OnAC != s.OnAC {
		res, err := m.switcher.AutoSwitch(ctx, s.OnAC, m.cfg.ACProfile, m.cfg.BatteryProfile)
		switch {
		case err != nil:
			m.log.Error("auto-switch failed", "on_ac", s.OnAC, "err", err)
		case res.RefreshError != nil:
			m.log.Warn("auto-switch refresh rate failed", "profile", res.Preset.Name, "err", res.RefreshError)
		default:
			m.log.Info("auto-switched profile", "profile", res.Preset.Name, "message", res.Message)
		}
	}
	return s
}

// checkTemps must be called with mu held.
func (m *Monitor) checkTemps(s Sample) {
	if s.HasCPUTemp {
		m.cpuAl = m.alert("cpu", s.CPUTemp, m.cpuAl)
	}
	if s.HasGPUTemp {
		m.gpuAl = m.alert("gpu", s.GPUTemp, m.gpuAl)
	}
}

// alert logs when the alert level of a sensor changes upward, and once when
// it returns to normal.
func (m *Monitor) alert(sensor string, temp float64, prev sensors.Alert) sensors.Alert {
	cur := m.cfg.Thresholds.Check(temp)
	switch {
	case cur == prev:
	case cur == sensors.AlertCritical:
		m.log.Error("temperature critical", "sensor", sensor, "celsius", temp, "threshold", m.cfg.Thresholds.Critical)
	case cur == sensors.AlertWarning && prev == sensors.AlertNone:
		m.log.Warn("temperature high", "sensor", sensor, "celsius", temp, "threshold", m.cfg.Thresholds.Warning)
	case cur == sensors.AlertNone:
		m.log.Info("temperature normal", "sensor", sensor, "celsius", temp)
	}
	return cur
}

func toStats(s Sample) stats.Sample {
	out := stats.Sample{Time: s.Time, OnAC: s.OnAC, Profile: s.Profile}
	if s.HasCPUTemp {
		v := s.CPUTemp
		out.CPUTemp = &v
	}
	if s.HasGPUTemp {
		v := s.GPUTemp
		out.GPUTemp = &v
	}
	if s.HasBattery {
		v := s.Battery
		out.Battery = &v
	}
	return out
}

// Package stats accumulates per-session temperature, battery and profile
// statistics and persists session summaries.
package stats

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// MaxSamples bounds the in-memory history, 30 minutes at 2s intervals.
const MaxSamples = 900

// Sample is one recorded reading. Nil fields were not available.
type Sample struct {
	Time    time.Time `json:"timestamp"`
	CPUTemp *float64  `json:"cpu_temp"`
	GPUTemp *float64  `json:"gpu_temp"`
	Battery *int      `json:"battery_level"`
	OnAC    bool      `json:"on_ac"`
	Profile string    `json:"power_profile,omitempty"`
}

// TempSummary holds the peak and mean of one sensor, rounded to 0.1.
type TempSummary struct {
	Max *float64 `json:"max_temp"`
	Avg *float64 `json:"avg_temp"`
}

// BatterySummary describes charge use over the session.
type BatterySummary struct {
	Initial          *int    `json:"initial"`
	Drain            *int    `json:"drain"`
	TimeOnBatteryMin float64 `json:"time_on_battery_min"`
	TimeOnACMin      float64 `json:"time_on_ac_min"`
}

// Summary is the aggregate view of a session.
type Summary struct {
	Duration     string         `json:"session_duration"`
	Start        string         `json:"session_start"`
	TotalSamples int            `json:"total_samples"`
	CPU          TempSummary    `json:"cpu"`
	GPU          TempSummary    `json:"gpu"`
	Battery      BatterySummary `json:"battery"`
	Profiles     map[string]int `json:"profiles"`
	Filename     string         `json:"filename,omitempty"`
}

type tempAcc struct {
	max   float64
	sum   float64
	count int
}

func (a *tempAcc) add(v *float64) {
	if v == nil {
		return
	}
	a.max = math.Max(a.max, *v)
	a.sum += *v
	a.count++
}

func (a tempAcc) summary() TempSummary {
	if a.count == 0 {
		return TempSummary{}
	}
	maxT, avg := round1(a.max), round1(a.sum/float64(a.count))
	return TempSummary{Max: &maxT, Avg: &avg}
}

// Session is a threadsafe session recorder.
type Session struct {
	mu    sync.RWMutex
	clock func() time.Time
	start time.Time

	samples []Sample
	next    int
	full    bool
	total   int

	cpu, gpu tempAcc

	initialBattery *int
	lastBattery    *int
	onAC           time.Duration
	onBattery      time.Duration
	profiles       map[string]time.Duration
	last           *Sample
}

// New starts a session at the current wall-clock time.
func New() *Session {
	return NewWithClock(time.Now)
}

// NewWithClock starts a session driven by clock.
func NewWithClock(clock func() time.Time) *Session {
	return &Session{
		clock:    clock,
		start:    clock(),
		samples:  make([]Sample, MaxSamples),
		profiles: make(map[string]time.Duration),
	}
}

// Add records s, stamping it with the session clock when s.Time is zero.
// Time on AC, on battery and per profile is attributed from the previous
// sample using the real elapsed time.
func (s *Session) Add(sample Sample) {
	if sample.Time.IsZero() {
		sample.Time = s.clock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.samples[s.next] = sample
	s.next = (s.next + 1) % MaxSamples
	if s.next == 0 {
		s.full = true
	}
	s.total++

	s.cpu.add(sample.CPUTemp)
	s.gpu.add(sample.GPUTemp)

	if sample.Battery != nil {
		b := *sample.Battery
		if s.initialBattery == nil {
			s.initialBattery = &b
		}
		s.lastBattery = &b
	}

	if s.last != nil {
		delta := sample.Time.Sub(s.last.Time)
		if delta > 0 {
			if s.last.OnAC {
				s.onAC += delta
			} else {
				s.onBattery += delta
			}
			if s.last.Profile != "" {
				s.profiles[s.last.Profile] += delta
			}
		}
	}
	if _, ok := s.profiles[sample.Profile]; !ok && sample.Profile != "" {
		s.profiles[sample.Profile] = 0
	}
	last := sample
	s.last = &last
}

// Start returns the session start time.
func (s *Session) Start() time.Time {
	return s.start
}

// Elapsed returns the time since the session started.
func (s *Session) Elapsed() time.Duration {
	return s.clock().Sub(s.start)
}

// Duration returns the elapsed session time formatted as "1h 2m 3s".
func (s *Session) Duration() string {
	return FormatDuration(s.Elapsed())
}

// FormatDuration renders d as "1h 2m 3s", "2m 3s" or "3s".
func FormatDuration(d time.Duration) string {
	total := int(d.Seconds())
	h, m, sec := total/3600, (total%3600)/60, total%60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, sec)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, sec)
	}
	return fmt.Sprintf("%ds", sec)
}

// Drain returns the initial minus the latest battery level.
func (s *Session) Drain() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.initialBattery == nil || s.lastBattery == nil {
		return 0, false
	}
	return *s.initialBattery - *s.lastBattery, true
}

// Summary aggregates the session so far.
func (s *Session) Summary() Summary {
	drain, hasDrain := s.Drain()

	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := Summary{
		Duration:     s.Duration(),
		Start:        s.start.Format("15:04:05"),
		TotalSamples: s.total,
		CPU:          s.cpu.summary(),
		GPU:          s.gpu.summary(),
		Battery: BatterySummary{
			Initial:          s.initialBattery,
			TimeOnBatteryMin: round1(s.onBattery.Minutes()),
			TimeOnACMin:      round1(s.onAC.Minutes()),
		},
		Profiles: make(map[string]int, len(s.profiles)),
	}
	if hasDrain {
		sum.Battery.Drain = &drain
	}
	for name, d := range s.profiles {
		sum.Profiles[name] = int(d.Round(time.Second).Seconds())
	}
	return sum
}

// History returns up to limit of the most recent samples, oldest first.
// A limit of zero or less returns everything retained.
func (s *Session) History(limit int) []Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ordered []Sample
	if s.full {
		ordered = append(ordered, s.samples[s.next:]...)
	}
	ordered = append(ordered, s.samples[:s.next]...)
	if limit > 0 && len(ordered) > limit {
		ordered = ordered[len(ordered)-limit:]
	}
	return ordered
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

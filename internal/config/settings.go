package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrUnknownKey is returned by Get and Set for keys outside Preferences.
var ErrUnknownKey = errors.New("unknown setting")

// Preferences is the user settings document.
type Preferences struct {
	Version              string `json:"version"`
	AutoProfileSwitching bool   `json:"auto_profile_switching"`
	LastTDPProfile       string `json:"last_tdp_profile"`
	RGBBrightness        int    `json:"rgb_brightness"`
	RGBColor             string `json:"rgb_color"`
	RGBEffect            string `json:"rgb_effect"`
	BatteryChargeLimit   int    `json:"battery_charge_limit"`
	FanCurve             string `json:"fan_curve"`
	GPUMode              string `json:"gpu_mode"`
	MonitoringInterval   int    `json:"monitoring_interval"`
	GraphHistorySeconds  int    `json:"graph_history_seconds"`
	Theme                string `json:"theme"`
}

// DefaultPreferences are used for every key missing from the file.
func DefaultPreferences() Preferences {
	return Preferences{
		Version:             "1.0.0",
		LastTDPProfile:      "Balanced",
		RGBBrightness:       50,
		RGBColor:            "#ff0066",
		RGBEffect:           "Static",
		BatteryChargeLimit:  80,
		FanCurve:            "Balanced",
		GPUMode:             "Hybrid",
		MonitoringInterval:  2000,
		GraphHistorySeconds: 60,
		Theme:               "dark",
	}
}

// SettingsPath is $XDG_CONFIG_HOME/linux-armoury/settings.json, falling back
// to ~/.config.
func SettingsPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = os.TempDir()
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "linux-armoury", "settings.json")
}

// Settings is the persisted Preferences document. Every mutation is
// written back immediately.
type Settings struct {
	mu    sync.RWMutex
	path  string
	prefs Preferences
}

// OpenSettings loads path, merging defaults for missing keys. A missing
// file is created with the defaults.
func OpenSettings(path string) (*Settings, error) {
	s := &Settings{path: path, prefs: DefaultPreferences()}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, s.save()
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &s.prefs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return s, nil
}

// Path returns the backing file.
func (s *Settings) Path() string { return s.path }

// All returns a copy of the document.
func (s *Settings) All() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

func toMap(p Preferences) (map[string]any, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	return m, json.Unmarshal(b, &m)
}

// Values returns the document keyed by its JSON names.
func (s *Settings) Values() (map[string]any, error) {
	return toMap(s.All())
}

// Get returns the value stored under key, using the JSON key names.
func (s *Settings) Get(key string) (any, error) {
	m, err := toMap(s.All())
	if err != nil {
		return nil, err
	}
	v, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrUnknownKey)
	}
	return v, nil
}

// Set stores one value and saves.
func (s *Settings) Set(key string, value any) error {
	return s.Update(map[string]any{key: value})
}

// Update stores several values and saves. Values must match the type of
// their key; nothing is changed on error.
func (s *Settings) Update(values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := merge(s.prefs, values)
	if err != nil {
		return err
	}
	prev := s.prefs
	s.prefs = next
	if err := s.save(); err != nil {
		s.prefs = prev
		return err
	}
	return nil
}

func merge(p Preferences, values map[string]any) (Preferences, error) {
	m, err := toMap(p)
	if err != nil {
		return p, err
	}
	for k, v := range values {
		if _, ok := m[k]; !ok {
			return p, fmt.Errorf("%s: %w", k, ErrUnknownKey)
		}
		m[k] = v
	}
	b, err := json.Marshal(m)
	if err != nil {
		return p, err
	}
	var out Preferences
	if err := json.Unmarshal(b, &out); err != nil {
		return p, fmt.Errorf("invalid setting value: %w", err)
	}
	return out, nil
}

// Reset restores the defaults and saves.
func (s *Settings) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = DefaultPreferences()
	return s.save()
}

// Export writes the document to path.
func (s *Settings) Export(path string) error {
	return writeJSON(path, s.All())
}

// Import merges the keys found in path into the document and saves.
func (s *Settings) Import(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	known := make(map[string]any, len(values))
	defaults, _ := toMap(DefaultPreferences())
	for k, v := range values {
		if _, ok := defaults[k]; ok {
			known[k] = v
		}
	}
	return s.Update(known)
}

// save must be called with mu held or before s is shared.
func (s *Settings) save() error {
	return writeJSON(s.path, s.prefs)
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

package app

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SettingValues returns every preference keyed by its JSON name.
func (a *App) SettingValues() (map[string]any, error) {
	return a.settings.Values()
}

// Setting returns one preference.
func (a *App) Setting(key string) (any, error) {
	return a.settings.Get(key)
}

// SetSetting stores one preference. raw is decoded as JSON when it parses
// and kept as a plain string otherwise, so `true`, `500` and `dark` all work.
func (a *App) SetSetting(key, raw string) (string, error) {
	var value any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &value); err != nil {
		value = raw
	}
	if err := a.settings.Set(key, value); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s set to %s", key, raw), nil
}

// ResetSettings restores the default preferences.
func (a *App) ResetSettings() error {
	return a.settings.Reset()
}

// ExportSettings writes the preferences to path.
func (a *App) ExportSettings(path string) error {
	return a.settings.Export(path)
}

// ImportSettings merges the known keys of path into the preferences.
func (a *App) ImportSettings(path string) error {
	return a.settings.Import(path)
}

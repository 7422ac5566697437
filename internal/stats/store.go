package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	savedSamples    = 100
	historySessions = 10
)

type sessionFile struct {
	Summary Summary  `json:"summary"`
	Samples []Sample `json:"samples"`
}

// DefaultDir is ~/.local/share/linux-armoury/stats, honouring XDG_DATA_HOME.
func DefaultDir() string {
	if base := os.Getenv("XDG_DATA_HOME"); base != "" {
		return filepath.Join(base, "linux-armoury", "stats")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), "linux-armoury", "stats")
	}
	return filepath.Join(home, ".local", "share", "linux-armoury", "stats")
}

// Save writes session_YYYYMMDD_HHMMSS.json with the summary and the last
// 100 samples into dir and returns its path.
func (s *Session) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create stats dir: %w", err)
	}
	data := sessionFile{Summary: s.Summary(), Samples: s.History(savedSamples)}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, s.start.Format("session_20060102_150405.json"))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return "", fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("write session: %w", err)
	}
	return path, nil
}

// LoadHistory returns the summaries of the 10 newest saved sessions,
// newest first. A missing dir yields no sessions.
func LoadHistory(dir string) ([]Summary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "session_") && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	if len(names) > historySessions {
		names = names[:historySessions]
	}

	var out []Summary
	for _, name := range names {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return out, err
		}
		var f sessionFile
		if err := json.Unmarshal(b, &f); err != nil {
			continue
		}
		f.Summary.Filename = name
		out = append(out, f.Summary)
	}
	return out, nil
}

package profiles

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// SettingsWriter records the last applied profile.
type SettingsWriter interface {
	Set(key string, value any) error
}

// Store is a threadsafe catalog of custom profiles backed by one JSON file
// per profile. Builtins are always visible and never written.
type Store struct {
	mu       sync.RWMutex
	dir      string
	custom   map[string]SystemProfile
	log      *slog.Logger
	settings SettingsWriter
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithSettings makes Apply record last_tdp_profile.
func WithSettings(w SettingsWriter) Option {
	return func(s *Store) { s.settings = w }
}

// DefaultDir is ~/.config/linux-armoury/profiles, honouring XDG_CONFIG_HOME.
func DefaultDir() string {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, "linux-armoury", "profiles")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), "linux-armoury", "profiles")
	}
	return filepath.Join(home, ".config", "linux-armoury", "profiles")
}

// NewStore loads every *.json profile in dir. Unreadable or invalid files
// and files named after a builtin are logged and skipped.
func NewStore(dir string, opts ...Option) (*Store, error) {
	s := &Store{dir: dir, custom: make(map[string]SystemProfile), log: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		p, err := loadCustom(f)
		if err != nil {
			s.log.Warn("skip profile", "file", f, "err", err)
			continue
		}
		if _, dup := s.custom[p.Name]; dup {
			s.log.Warn("skip profile", "file", f, "err", fmt.Sprintf("duplicate name %q", p.Name))
			continue
		}
		s.custom[p.Name] = p
		s.log.Debug("loaded profile", "name", p.Name)
	}
	return s, nil
}

// Get returns a builtin or custom profile.
func (s *Store) Get(name string) (SystemProfile, error) {
	if p, ok := Builtin(name); ok {
		return p, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.custom[name]; ok {
		return p, nil
	}
	return SystemProfile{}, fmt.Errorf("%s: %w", name, ErrNotFound)
}

// Listing separates builtin and custom profile names.
type Listing struct {
	Builtin []string `json:"builtin"`
	Custom  []string `json:"custom"`
}

// List returns builtin names in display order and custom names sorted.
func (s *Store) List() Listing {
	var l Listing
	for _, p := range Builtins {
		l.Builtin = append(l.Builtin, p.Name)
	}
	s.mu.RLock()
	for name := range s.custom {
		l.Custom = append(l.Custom, name)
	}
	s.mu.RUnlock()
	sort.Strings(l.Custom)
	return l
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Save validates p and writes it as <dir>/<name>.json.
func (s *Store) Save(p SystemProfile) error {
	name, err := normalizeName(p.Name)
	if err != nil {
		return err
	}
	p.Name = name
	if IsBuiltin(name) {
		return fmt.Errorf("%s: %w", name, ErrBuiltin)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeAtomic(s.path(name), b); err != nil {
		return err
	}
	s.custom[name] = p
	s.log.Info("saved profile", "name", name)
	return nil
}

// Delete removes a custom profile.
func (s *Store) Delete(name string) error {
	if IsBuiltin(name) {
		return fmt.Errorf("%s: %w", name, ErrBuiltin)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.custom[name]; !ok {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err := os.Remove(s.path(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete profile %s: %w", name, err)
	}
	delete(s.custom, name)
	s.log.Info("deleted profile", "name", name)
	return nil
}

// Export writes the named profile to path, as YAML for .yaml/.yml and JSON
// otherwise.
func (s *Store) Export(name, path string) error {
	p, err := s.Get(name)
	if err != nil {
		return err
	}
	var b []byte
	if isYAML(path) {
		b, err = yaml.Marshal(p)
	} else {
		b, err = json.MarshalIndent(p, "", "  ")
	}
	if err != nil {
		return err
	}
	if err := writeAtomic(path, b); err != nil {
		return err
	}
	s.log.Info("exported profile", "name", name, "path", path)
	return nil
}

// Import reads a JSON or YAML profile and saves it as a custom profile.
func (s *Store) Import(path string) (SystemProfile, error) {
	p, err := readProfile(path)
	if err != nil {
		return SystemProfile{}, err
	}
	if err := s.Save(p); err != nil {
		return SystemProfile{}, err
	}
	s.log.Info("imported profile", "name", p.Name, "path", path)
	return p, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// loadCustom reads a profile file and applies the checks Save enforces.
func loadCustom(path string) (SystemProfile, error) {
	p, err := readProfile(path)
	if err != nil {
		return SystemProfile{}, err
	}
	if p.Name, err = normalizeName(p.Name); err != nil {
		return SystemProfile{}, err
	}
	if IsBuiltin(p.Name) {
		return SystemProfile{}, fmt.Errorf("%s: %w", p.Name, ErrBuiltin)
	}
	if err := p.Validate(); err != nil {
		return SystemProfile{}, err
	}
	return p, nil
}

func readProfile(path string) (SystemProfile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return SystemProfile{}, err
	}
	var p SystemProfile
	if isYAML(path) {
		err = yaml.Unmarshal(b, &p)
	} else {
		err = json.Unmarshal(b, &p)
	}
	if err != nil {
		return SystemProfile{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if p.Name == "" {
		return SystemProfile{}, fmt.Errorf("parse %s: missing name", filepath.Base(path))
	}
	return p, nil
}

func writeAtomic(path string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Package sysfs reads and writes kernel attribute files. All paths are
// logical absolute paths (/sys/..., /proc/...) resolved under an optional
// root so tests can point the whole tree at a fixture directory.
package sysfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"armoury/internal/execx"

	"golang.org/x/sys/unix"
)

// ErrPermission reports a write that needs elevated privileges.
var ErrPermission = errors.New("permission denied (need root)")

// writeFile is swapped in tests to simulate EACCES while running as root.
var writeFile = os.WriteFile

// FS resolves logical paths under Root.
type FS struct {
	Root string
}

// New returns an FS rooted at root ("" means the real filesystem).
func New(root string) *FS {
	return &FS{Root: root}
}

// Path maps a logical path to the on-disk path.
func (f *FS) Path(p string) string {
	if f == nil || f.Root == "" {
		return p
	}
	return filepath.Join(f.Root, p)
}

func (f *FS) logical(p string) string {
	if f == nil || f.Root == "" {
		return p
	}
	rel, err := filepath.Rel(f.Root, p)
	if err != nil {
		return p
	}
	return "/" + filepath.ToSlash(rel)
}

// Read returns the trimmed content of p.
func (f *FS) Read(p string) (string, error) {
	data, err := os.ReadFile(f.Path(p))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// ReadString returns the trimmed content of p or "" on any error.
func (f *FS) ReadString(p string) string {
	v, _ := f.Read(p)
	return v
}

// ReadInt parses p as a base-10 integer.
func (f *FS) ReadInt(p string) (int, error) {
	v, err := f.Read(p)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", p, err)
	}
	return n, nil
}

// ReadInt64 parses p as a base-10 64-bit integer.
func (f *FS) ReadInt64(p string) (int64, error) {
	v, err := f.Read(p)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", p, err)
	}
	return n, nil
}

// Exists reports whether p exists.
func (f *FS) Exists(p string) bool {
	_, err := os.Stat(f.Path(p))
	return err == nil
}

// Glob returns the sorted logical paths matching pattern.
func (f *FS) Glob(pattern string) []string {
	matches, err := filepath.Glob(f.Path(pattern))
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, f.logical(m))
	}
	sort.Strings(out)
	return out
}

// List returns the sorted entry names of dir.
func (f *FS) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(f.Path(dir))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Readlink returns the target of the symlink p.
func (f *FS) Readlink(p string) (string, error) {
	return os.Readlink(f.Path(p))
}

// Writable reports whether the current process may write p directly.
func (f *FS) Writable(p string) bool {
	return unix.Access(f.Path(p), unix.W_OK) == nil
}

// Write stores value in p. Permission failures wrap ErrPermission.
func (f *FS) Write(p, value string) error {
	if err := writeFile(f.Path(p), []byte(value), 0o644); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("write %s: %w", p, ErrPermission)
		}
		return fmt.Errorf("write %s: %w", p, err)
	}
	return nil
}

// WritePrivileged writes value to p, falling back to `pkexec tee p` when the
// direct write is refused.
func (f *FS) WritePrivileged(ctx context.Context, r execx.Runner, p, value string) error {
	if f.Writable(p) {
		err := f.Write(p, value)
		if err == nil || !errors.Is(err, ErrPermission) {
			return err
		}
	}
	if r == nil || !r.LookPath("pkexec") {
		return fmt.Errorf("write %s: %w", p, ErrPermission)
	}
	ctx, cancel := context.WithTimeout(ctx, execx.PrivilegedTimeout)
	defer cancel()
	if _, err := r.RunInput(ctx, value, "pkexec", "tee", f.Path(p)); err != nil {
		return fmt.Errorf("pkexec tee %s: %w", p, err)
	}
	return nil
}

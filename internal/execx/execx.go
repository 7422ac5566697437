// Package execx runs the external helpers (asusctl, supergfxctl, xrandr, ...)
// that most hardware controls are wrapped around.
package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a command when the caller's context has no deadline.
const DefaultTimeout = 10 * time.Second

// PrivilegedTimeout is used for pkexec invocations, which may wait on a
// polkit password prompt.
const PrivilegedTimeout = 30 * time.Second

// ErrNotFound reports that the requested tool is not installed.
var ErrNotFound = errors.New("command not found")

// Runner executes external commands and returns their trimmed stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
	RunInput(ctx context.Context, input string, name string, args ...string) (string, error)
	LookPath(name string) bool
}

// Exec is the os/exec backed Runner.
type Exec struct {
	// Timeout applies when ctx carries no deadline of its own.
	Timeout time.Duration
}

// New returns an Exec with the given default timeout.
func New(timeout time.Duration) *Exec {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Exec{Timeout: timeout}
}

// Run executes name with args.
func (e *Exec) Run(ctx context.Context, name string, args ...string) (string, error) {
	return e.RunInput(ctx, "", name, args...)
}

// RunInput executes name with args, feeding input on stdin when non-empty.
func (e *Exec) RunInput(ctx context.Context, input string, name string, args ...string) (string, error) {
	if _, err := exec.LookPath(name); err != nil {
		return "", fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if _, ok := ctx.Deadline(); !ok {
		timeout := e.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}

	err := cmd.Run()
	out := strings.TrimSpace(stdout.String())
	if ctxErr := ctx.Err(); ctxErr != nil {
		return out, fmt.Errorf("%s: %w", name, ctxErr)
	}
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = out
		}
		if msg != "" {
			return out, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return out, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// LookPath reports whether name is on PATH.
func (e *Exec) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// Privileged runs name through pkexec with PrivilegedTimeout.
func Privileged(ctx context.Context, r Runner, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, PrivilegedTimeout)
	defer cancel()
	return r.Run(ctx, "pkexec", append([]string{name}, args...)...)
}

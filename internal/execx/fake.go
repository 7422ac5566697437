package execx

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrUnexpected is returned by Fake for commands that were not scripted.
var ErrUnexpected = errors.New("unexpected command")

// Call records one invocation seen by Fake.
type Call struct {
	Line  string
	Input string
}

type fakeResult struct {
	output string
	err    error
}

// Fake is a scripted Runner for tests. Responses are keyed by the full
// command line ("name arg1 arg2"). A binary counts as installed when it was
// passed to Install or has at least one scripted response.
//
// Fake is safe for concurrent use.
type Fake struct {
	mu        sync.Mutex
	responses map[string]fakeResult
	installed map[string]bool
	calls     []Call
}

// NewFake returns an empty Fake where nothing is installed.
func NewFake() *Fake {
	return &Fake{
		responses: make(map[string]fakeResult),
		installed: make(map[string]bool),
	}
}

// Set scripts a successful response.
func (f *Fake) Set(line, output string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[line] = fakeResult{output: output}
	f.installed[binary(line)] = true
	return f
}

// Fail scripts a failing response.
func (f *Fake) Fail(line string, err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[line] = fakeResult{err: err}
	f.installed[binary(line)] = true
	return f
}

// Install marks binaries as present without scripting output.
func (f *Fake) Install(names ...string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range names {
		f.installed[n] = true
	}
	return f
}

func (f *Fake) Run(ctx context.Context, name string, args ...string) (string, error) {
	return f.RunInput(ctx, "", name, args...)
}

func (f *Fake) RunInput(_ context.Context, input string, name string, args ...string) (string, error) {
	line := strings.Join(append([]string{name}, args...), " ")

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Line: line, Input: input})
	if res, ok := f.responses[line]; ok {
		return res.output, res.err
	}
	if !f.installed[name] {
		return "", fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return "", fmt.Errorf("%s: %w", line, ErrUnexpected)
}

func (f *Fake) LookPath(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.installed[name]
}

// Calls returns a copy of the recorded invocations.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Called reports whether line was executed at least once.
func (f *Fake) Called(line string) bool {
	for _, c := range f.Calls() {
		if c.Line == line {
			return true
		}
	}
	return false
}

func binary(line string) string {
	name, _, _ := strings.Cut(line, " ")
	return name
}

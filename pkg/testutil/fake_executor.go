package testutil

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/executor"
)

type rule struct {
	prefix string
	fn     func(cmd executor.Command) (executor.Result, error)
}

// FakeExecutor answers commands from rules matched by command-line prefix.
// Unmatched commands succeed with empty output.
type FakeExecutor struct {
	mu    sync.Mutex
	rules []rule
	calls []executor.Command
}

// NewFakeExecutor returns a FakeExecutor with no rules
func NewFakeExecutor() *FakeExecutor {
	return &FakeExecutor{}
}

// On answers commands whose String() starts with prefix. Later rules win.
func (f *FakeExecutor) On(prefix string, res executor.Result, err error) *FakeExecutor {
	return f.OnFunc(prefix, func(executor.Command) (executor.Result, error) { return res, err })
}

// OnFunc answers matching commands with fn
func (f *FakeExecutor) OnFunc(prefix string, fn func(cmd executor.Command) (executor.Result, error)) *FakeExecutor {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, rule{prefix: prefix, fn: fn})
	return f
}

// Fail makes matching commands exit with code and stderr
func (f *FakeExecutor) Fail(prefix string, code int, stderr string) *FakeExecutor {
	return f.On(prefix, executor.Result{ExitCode: code, Stderr: stderr}, CommandFailure(prefix, code, stderr))
}

// Missing makes matching commands fail as if the binary did not exist
func (f *FakeExecutor) Missing(prefix string) *FakeExecutor {
	return f.On(prefix, executor.Result{ExitCode: -1}, errors.Wrapf(
		&exec.Error{Name: strings.Fields(prefix)[0], Err: exec.ErrNotFound},
		errors.ErrCommandFailed, "command failed: %s", prefix))
}

func (f *FakeExecutor) Run(ctx context.Context, cmd executor.Command) (executor.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	var match *rule
	line := cmd.String()
	for i := len(f.rules) - 1; i >= 0; i-- {
		if strings.HasPrefix(line, f.rules[i].prefix) {
			match = &f.rules[i]
			break
		}
	}
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return executor.Result{ExitCode: -1}, err
	}
	if match == nil {
		return executor.Result{}, nil
	}
	return match.fn(cmd)
}

// Calls returns every command run, in order
func (f *FakeExecutor) Calls() []executor.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]executor.Command(nil), f.calls...)
}

// Lines returns the command lines run, in order
func (f *FakeExecutor) Lines() []string {
	calls := f.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.String()
	}
	return lines
}

// CallCount counts commands whose line starts with prefix
func (f *FakeExecutor) CallCount(prefix string) int {
	n := 0
	for _, line := range f.Lines() {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}

// CommandFailure builds the error an executor returns for a non-zero exit
func CommandFailure(line string, code int, stderr string) error {
	return errors.Wrapf(fmt.Errorf("exit status %d", code), errors.ErrCommandFailed, "command failed: %s", line).
		WithDetail("exitCode", code).
		WithDetail("stderr", stderr)
}

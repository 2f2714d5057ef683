package executor

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/logging"
	"github.com/rs/zerolog"
)

// Command describes one process invocation
type Command struct {
	Name  string
	Args  []string
	Dir   string
	Quiet bool
	// Env entries are appended to the current environment as KEY=VALUE
	Env map[string]string
}

// String renders the command line for logs and messages
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// ShellCommand runs line through sh -c
func ShellCommand(line string) Command {
	return Command{Name: "sh", Args: []string{"-c", line}}
}

// Result is the outcome of a command that started
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Executor runs commands. A command that exits non-zero returns its Result
// together with an ErrCommandFailed error.
type Executor interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// Options contains configuration for the OS executor
type Options struct {
	Logger zerolog.Logger
	// Stdout and Stderr receive output of non-quiet commands
	Stdout io.Writer
	Stderr io.Writer
}

// OSExecutor runs commands with os/exec
type OSExecutor struct {
	logger zerolog.Logger
	stdout io.Writer
	stderr io.Writer
}

// New creates a new executor instance
func New(opts Options) *OSExecutor {
	logger := opts.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = logging.GetLogger("executor")
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	return &OSExecutor{logger: logger, stdout: stdout, stderr: stderr}
}

// Run executes cmd and waits for it to finish
func (e *OSExecutor) Run(ctx context.Context, cmd Command) (Result, error) {
	logging.LogCommand(e.logger, cmd.Dir, cmd.Name, cmd.Args)
	start := time.Now()

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	if cmd.Dir != "" {
		c.Dir = cmd.Dir
	}
	if len(cmd.Env) > 0 {
		c.Env = os.Environ()
		for key, value := range cmd.Env {
			c.Env = append(c.Env, fmt.Sprintf("%s=%s", key, value))
		}
	}

	var stdout, stderr bytes.Buffer
	if cmd.Quiet {
		c.Stdout = &stdout
		c.Stderr = &stderr
	} else {
		c.Stdout = io.MultiWriter(&stdout, e.stdout)
		c.Stderr = io.MultiWriter(&stderr, e.stderr)
	}

	err := c.Run()
	result := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if cmd.Quiet {
		if result.Stdout != "" {
			e.logger.Debug().Str("command", cmd.Name).Str("output", result.Stdout).Msg("Command stdout")
		}
		if result.Stderr != "" {
			e.logger.Debug().Str("command", cmd.Name).Str("output", result.Stderr).Msg("Command stderr")
		}
	}

	if err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
		e.logger.Debug().
			Err(err).
			Str("command", cmd.String()).
			Int("exitCode", result.ExitCode).
			Dur("duration", result.Duration).
			Msg("Command failed")
		return result, errors.Wrapf(err, errors.ErrCommandFailed, "command failed: %s", cmd.String()).
			WithDetail("exitCode", result.ExitCode).
			WithDetail("stderr", strings.TrimSpace(result.Stderr))
	}

	e.logger.Debug().
		Str("command", cmd.String()).
		Dur("duration", result.Duration).
		Msg("Command completed")
	return result, nil
}

// NotFound reports whether err means the command binary could not be found
func NotFound(err error) bool {
	return stderrors.Is(err, exec.ErrNotFound)
}

// Package process spawns external compilers and interpreters with a hard
// timeout and captures their output.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/alantheprice/vibecode/pkg/utils"
)

// DefaultTimeout bounds every invocation that does not set its own timeout.
const DefaultTimeout = 30 * time.Second

// waitDelay caps how long Wait blocks on inherited pipes after the process is killed.
const waitDelay = 2 * time.Second

// Command describes one external process invocation.
type Command struct {
	Name    string
	Args    []string
	Dir     string
	Timeout time.Duration
}

// String renders the command line for logs.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result contains the result of an external process execution
type Result struct {
	Command  string
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
	TimedOut bool
	// Err is set when the process could not be started or was cancelled.
	// A non-zero exit alone leaves it nil.
	Err error
}

// Success reports a clean, in-time, zero exit.
func (r *Result) Success() bool {
	return r.Err == nil && !r.TimedOut && r.ExitCode == 0
}

// Combined returns stdout followed by stderr.
func (r *Result) Combined() string {
	return r.Stdout + r.Stderr
}

// Diagnostic returns the most useful failure text: stderr, else the start
// error, else stdout.
func (r *Result) Diagnostic() string {
	switch {
	case strings.TrimSpace(r.Stderr) != "":
		return r.Stderr
	case r.Err != nil:
		return r.Err.Error()
	case r.ExitCode != 0:
		if strings.TrimSpace(r.Stdout) != "" {
			return r.Stdout
		}
		return fmt.Sprintf("%s exited with code %d", r.Command, r.ExitCode)
	}
	return ""
}

// Executor runs external processes.
type Executor interface {
	Run(ctx context.Context, cmd Command) *Result
	LookPath(name string) (string, error)
}

// LocalExecutor runs processes on the host.
type LocalExecutor struct {
	logger  *utils.Logger
	timeout time.Duration
}

// NewLocalExecutor creates a host executor. A non-positive timeout selects DefaultTimeout.
func NewLocalExecutor(logger *utils.Logger, timeout time.Duration) *LocalExecutor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &LocalExecutor{logger: logger, timeout: timeout}
}

// Timeout returns the default per-invocation timeout.
func (e *LocalExecutor) Timeout() time.Duration {
	return e.timeout
}

// LookPath resolves name on PATH.
func (e *LocalExecutor) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Run executes cmd and never returns nil.
func (e *LocalExecutor) Run(ctx context.Context, cmd Command) *Result {
	startTime := time.Now()
	result := &Result{Command: cmd.String()}

	timeout := cmd.Timeout
	if timeout <= 0 {
		timeout = e.timeout
	}

	e.logger.Logf("Executing command: %s (dir=%s, timeout=%v)", result.Command, cmd.Dir, timeout)

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	c := exec.CommandContext(execCtx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.WaitDelay = waitDelay
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	result.Duration = time.Since(startTime)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	switch {
	case err == nil:
		result.ExitCode = 0
	case errors.Is(execCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		result.TimedOut = true
		result.ExitCode = -1
	case ctx.Err() != nil:
		result.Err = ctx.Err()
		result.ExitCode = -1
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
			result.Err = err
		}
	}

	if result.Success() {
		e.logger.Logf("Command completed successfully in %v", result.Duration)
	} else {
		e.logger.Logf("Command failed (exit code %d, timed out %v) in %v: %v", result.ExitCode, result.TimedOut, result.Duration, result.Err)
	}

	return result
}

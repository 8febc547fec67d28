// Package processtest provides a scripted process.Executor for tests.
package processtest

import (
	"context"
	"os/exec"
	"sync"

	"github.com/alantheprice/vibecode/pkg/process"
)

// Fake records every invocation and answers from a script. Tools listed in
// Missing are reported absent by LookPath; everything else is found.
type Fake struct {
	Missing map[string]bool
	// Script answers a command; a nil result means a clean run with no output.
	Script func(cmd process.Command) *process.Result

	mu    sync.Mutex
	calls []process.Command
}

// New returns a fake whose tools are all present.
func New(script func(cmd process.Command) *process.Result, missing ...string) *Fake {
	f := &Fake{Script: script, Missing: map[string]bool{}}
	for _, m := range missing {
		f.Missing[m] = true
	}
	return f
}

// Run implements process.Executor.
func (f *Fake) Run(ctx context.Context, cmd process.Command) *process.Result {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return &process.Result{Command: cmd.String(), ExitCode: -1, Err: err}
	}
	var res *process.Result
	if f.Script != nil {
		res = f.Script(cmd)
	}
	if res == nil {
		res = &process.Result{}
	}
	res.Command = cmd.String()
	return res
}

// LookPath implements process.Executor.
func (f *Fake) LookPath(name string) (string, error) {
	if f.Missing[name] {
		return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	return "/usr/bin/" + name, nil
}

// Calls returns the recorded invocations in order.
func (f *Fake) Calls() []process.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]process.Command(nil), f.calls...)
}

// Names returns the command names invoked, in order.
func (f *Fake) Names() []string {
	var names []string
	for _, c := range f.Calls() {
		names = append(names, c.Name)
	}
	return names
}

// Output is a convenience successful result.
func Output(stdout string) *process.Result {
	return &process.Result{Stdout: stdout}
}

// Failure is a convenience non-zero exit result.
func Failure(code int, stderr string) *process.Result {
	return &process.Result{ExitCode: code, Stderr: stderr}
}

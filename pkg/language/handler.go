// Package language maps generated files to the toolchain that compiles and
// runs them.
package language

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/alantheprice/vibecode/pkg/process"
)

// ToolKind distinguishes a compile-step tool from a run-step tool.
type ToolKind int

const (
	Compiler ToolKind = iota
	Runtime
)

func (k ToolKind) String() string {
	if k == Compiler {
		return "Compiler"
	}
	return "Runtime"
}

// Tool is an external program a handler depends on. Candidates are tried in
// order and the first one on PATH is used.
type Tool struct {
	Kind        ToolKind
	Candidates  []string
	VersionArgs []string
}

// Name returns the preferred command name.
func (t Tool) Name() string {
	if len(t.Candidates) == 0 {
		return ""
	}
	return t.Candidates[0]
}

// commandFunc builds argv for a step given the entry file path relative to
// the project directory and the resolved tool binary.
type commandFunc func(tool, file string) (string, []string)

// Handler describes how one language or file format is compiled and run.
type Handler struct {
	Name       string
	Extensions []string
	Executable bool

	compiler *Tool
	runtime  *Tool
	compile  commandFunc
	run      commandFunc
	// artifact is the file the compile step must leave behind for run.
	artifact func(file string) string
}

// StepResult is the outcome of a compile or run step.
type StepResult struct {
	OK       bool
	Stdout   string
	Stderr   string
	Message  string
	TimedOut bool
	// MissingTool names the compiler or runtime that was not found on PATH.
	MissingTool string
}

// Output returns stdout followed by stderr, the way a terminal would show it.
func (r StepResult) Output() string {
	return r.Stdout + r.Stderr
}

// Matches reports whether the handler applies to filename. Extensions compare
// case-insensitively.
func (h Handler) Matches(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return false
	}
	for _, e := range h.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// NeedsCompile reports whether a compile step runs before run.
func (h Handler) NeedsCompile() bool {
	return h.compile != nil
}

// Tools lists the external programs this handler depends on.
func (h Handler) Tools() []Tool {
	var tools []Tool
	if h.compiler != nil {
		tools = append(tools, *h.compiler)
	}
	if h.runtime != nil {
		tools = append(tools, *h.runtime)
	}
	return tools
}

// Compile runs the compile step in dir. Handlers without a compile step succeed immediately.
func (h Handler) Compile(ctx context.Context, ex process.Executor, file, dir string, timeout time.Duration) StepResult {
	if !h.Executable || h.compile == nil {
		return StepResult{OK: true}
	}

	bin, missing := resolve(ex, h.compiler)
	if missing != "" {
		return StepResult{MissingTool: missing, Message: fmt.Sprintf("Compiler '%s' not found. Please install it.", missing)}
	}

	name, args := h.compile(bin, file)
	res := ex.Run(ctx, process.Command{Name: name, Args: args, Dir: dir, Timeout: timeout})
	step := fromProcess(res)
	switch {
	case res.TimedOut:
		step.Message = fmt.Sprintf("Compilation timed out (%s limit).", limitText(timeout))
	case !res.Success():
		step.Message = "Compilation failed: " + res.Diagnostic()
	default:
		step.Message = fmt.Sprintf("%s compilation successful.", h.Name)
		if h.artifact != nil {
			if _, err := ex.LookPath(filepath.Join(dir, h.artifact(file))); err != nil {
				step.OK = false
				step.Message = fmt.Sprintf("Executable %s not found after compilation.", h.artifact(file))
			}
		}
	}
	return step
}

// Run executes the entry file in dir. Non-executable formats report a descriptive failure.
func (h Handler) Run(ctx context.Context, ex process.Executor, file, dir string, timeout time.Duration) StepResult {
	if !h.Executable || h.run == nil {
		return StepResult{Message: fmt.Sprintf("%s files are not executable.", h.Name)}
	}

	bin := ""
	if h.runtime != nil {
		var missing string
		bin, missing = resolve(ex, h.runtime)
		if missing != "" {
			return StepResult{MissingTool: missing, Message: fmt.Sprintf("Runtime '%s' not found. Please install it.", missing)}
		}
	}

	name, args := h.run(bin, file)
	res := ex.Run(ctx, process.Command{Name: name, Args: args, Dir: dir, Timeout: timeout})
	step := fromProcess(res)
	switch {
	case res.TimedOut:
		step.Message = fmt.Sprintf("Execution timed out (%s limit).", limitText(timeout))
	case !res.Success():
		step.Message = res.Diagnostic()
	}
	return step
}

func fromProcess(res *process.Result) StepResult {
	return StepResult{
		OK:       res.Success(),
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
		TimedOut: res.TimedOut,
	}
}

// resolve returns the first candidate found on PATH, or the preferred name as missing.
func resolve(ex process.Executor, tool *Tool) (bin, missing string) {
	if tool == nil {
		return "", ""
	}
	for _, c := range tool.Candidates {
		if _, err := ex.LookPath(c); err == nil {
			return c, ""
		}
	}
	return "", tool.Name()
}

func limitText(d time.Duration) string {
	if d <= 0 {
		d = process.DefaultTimeout
	}
	if d%time.Second == 0 {
		return fmt.Sprintf("%d seconds", int(d/time.Second))
	}
	return d.String()
}

func stem(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

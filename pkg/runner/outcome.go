package runner

import (
	"github.com/alantheprice/vibecode/pkg/workspace"
)

// Kind classifies an execution attempt.
type Kind int

const (
	Success Kind = iota
	CompileFailed
	RunFailed
	TimedOut
	NoMainFile
	NotExecutable
	Cancelled
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case CompileFailed:
		return "compile_failed"
	case RunFailed:
		return "run_failed"
	case TimedOut:
		return "timed_out"
	case NoMainFile:
		return "no_main_file"
	case NotExecutable:
		return "not_executable"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// NoMainFileMessage is reported when no entry point qualifies.
const NoMainFileMessage = "No executable file found"

// Outcome is the result of one Execute call.
type Outcome struct {
	Kind     Kind
	MainFile string
	Language string
	Stdout   string
	// Error is the diagnostic text; empty exactly when Kind is Success.
	Error string
	// Stderr from a successful run, kept apart from Error.
	Stderr        string
	CompileOutput string
	Write         workspace.Report
	WriteErr      error
}

// Success reports a clean compile and run.
func (o Outcome) Success() bool {
	return o.Kind == Success
}

// Status is the short status line shown to the user.
func (o Outcome) Status() string {
	switch o.Kind {
	case Success:
		return "✓ Compilation/Execution successful"
	case NoMainFile:
		return "No main file"
	case NotExecutable:
		return "Not executable"
	case Cancelled:
		return "Cancelled"
	default:
		return "✗ Compilation/Execution failed"
	}
}

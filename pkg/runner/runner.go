// Package runner materializes a manifest and compiles and runs its entry point.
package runner

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/alantheprice/vibecode/pkg/entrypoint"
	"github.com/alantheprice/vibecode/pkg/language"
	"github.com/alantheprice/vibecode/pkg/manifest"
	"github.com/alantheprice/vibecode/pkg/process"
	"github.com/alantheprice/vibecode/pkg/utils"
	"github.com/alantheprice/vibecode/pkg/workspace"
)

// Runner writes projects and executes them one process at a time.
type Runner struct {
	writer   *workspace.Writer
	registry *language.Registry
	exec     process.Executor
	timeout  time.Duration
	logger   *utils.Logger
}

// New creates a runner. A non-positive timeout selects process.DefaultTimeout.
func New(writer *workspace.Writer, registry *language.Registry, exec process.Executor, timeout time.Duration, logger *utils.Logger) *Runner {
	if timeout <= 0 {
		timeout = process.DefaultTimeout
	}
	return &Runner{writer: writer, registry: registry, exec: exec, timeout: timeout, logger: logger}
}

// Writer returns the workspace writer.
func (r *Runner) Writer() *workspace.Writer {
	return r.writer
}

// Execute writes files under the project directory, detects the entry point
// and compiles then runs it. Compile and run use the project directory as
// their working directory; the caller's working directory is never changed.
func (r *Runner) Execute(ctx context.Context, project string, files []manifest.File) Outcome {
	report, err := r.writer.Write(project, files)
	out := Outcome{Write: report, WriteErr: err}
	if err != nil {
		r.logger.LogError(err)
	}
	for _, w := range report.Written {
		r.logger.LogProcessStep(fmt.Sprintf("✅ Wrote file: %s", path.Join(report.Dir, w.Path)))
	}

	written := make([]string, len(report.Written))
	for i, w := range report.Written {
		written[i] = w.Path
	}
	mainFile, ok := entrypoint.Detect(written)
	if !ok {
		out.Kind = NoMainFile
		out.Error = NoMainFileMessage
		return out
	}
	out.MainFile = mainFile

	handler, ok := r.registry.Resolve(mainFile)
	if !ok || !handler.Executable {
		out.Kind = NotExecutable
		out.Language = handler.Name
		out.Error = fmt.Sprintf("File %s is not executable", path.Base(mainFile))
		return out
	}
	out.Language = handler.Name

	if ctx.Err() != nil {
		return cancelled(out)
	}

	if handler.NeedsCompile() {
		r.logger.LogProcessStep(fmt.Sprintf("Compiling %s (%s)", mainFile, handler.Name))
	}
	compiled := handler.Compile(ctx, r.exec, mainFile, report.Dir, r.timeout)
	out.CompileOutput = compiled.Output()
	if !compiled.OK {
		if ctx.Err() != nil {
			return cancelled(out)
		}
		out.Kind = CompileFailed
		if compiled.TimedOut {
			out.Kind = TimedOut
		}
		out.Stdout = compiled.Stdout
		out.Error = compiled.Message
		r.logFailure("compile", out)
		return out
	}

	if ctx.Err() != nil {
		return cancelled(out)
	}

	r.logger.LogProcessStep(fmt.Sprintf("Running %s", mainFile))
	ran := handler.Run(ctx, r.exec, mainFile, report.Dir, r.timeout)
	out.Stdout = ran.Stdout
	if !ran.OK {
		if ctx.Err() != nil {
			return cancelled(out)
		}
		out.Kind = RunFailed
		if ran.TimedOut {
			out.Kind = TimedOut
		}
		out.Error = ran.Message
		r.logFailure("run", out)
		return out
	}

	out.Kind = Success
	out.Stderr = ran.Stderr
	return out
}

func (r *Runner) logFailure(step string, out Outcome) {
	err := utils.NewExecutionError("runner", step, errors.New(out.Error)).
		WithMetadata("main_file", out.MainFile).
		WithMetadata("language", out.Language).
		WithMetadata("kind", out.Kind.String())
	r.logger.LogError(err)
}

func cancelled(out Outcome) Outcome {
	out.Kind = Cancelled
	out.Error = "Operation cancelled"
	return out
}

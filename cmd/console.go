package cmd

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/alantheprice/vibecode/pkg/agent"
	"github.com/alantheprice/vibecode/pkg/manifest"
	"github.com/alantheprice/vibecode/pkg/runner"
	"github.com/alantheprice/vibecode/pkg/workspace"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

type outcomeRecorder interface {
	RecordOutcome(kind string)
}

// console renders agent progress. It implements agent.Observer.
type console struct {
	mu       sync.Mutex
	w        io.Writer
	color    bool
	recorder outcomeRecorder
}

func newConsole(w io.Writer, recorder outcomeRecorder) *console {
	color := false
	if f, ok := w.(*os.File); ok {
		color = term.IsTerminal(int(f.Fd()))
	}
	return &console{w: w, color: color, recorder: recorder}
}

func (c *console) paint(color, s string) string {
	if !c.color {
		return s
	}
	return color + s + colorReset
}

func (c *console) OnStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, c.paint(colorCyan, "» "+status))
}

func (c *console) OnFiles(files []manifest.File) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, "Generated files:")
	for _, line := range workspace.Tree(files) {
		fmt.Fprintln(c.w, "  "+line)
	}
}

func (c *console) OnOutcome(out agent.Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if exec := out.Execution; exec != nil {
		c.record(exec.Kind.String())
		color := colorRed
		if exec.Kind == runner.Success {
			color = colorGreen
		}
		fmt.Fprintln(c.w, c.paint(color, exec.Status()))
		if exec.MainFile != "" {
			fmt.Fprintf(c.w, "Main file: %s (%s)\n", exec.MainFile, exec.Language)
		}
		if exec.Stdout != "" {
			fmt.Fprintf(c.w, "Output:\n%s\n", exec.Stdout)
		}
		if exec.Error != "" {
			fmt.Fprintf(c.w, "%s\n%s\n", c.paint(colorRed, "Error:"), exec.Error)
		}
	} else {
		c.record(out.State.String())
	}

	if out.Evaluation != nil {
		color := colorYellow
		if out.Evaluation.Success {
			color = colorGreen
		}
		fmt.Fprintln(c.w, c.paint(color, "Evaluation: "+out.Evaluation.Feedback))
	}
	if out.Err != nil && !out.Cancelled() {
		fmt.Fprintln(c.w, c.paint(colorRed, "Error: "+out.Err.Error()))
	}
}

func (c *console) record(kind string) {
	if c.recorder != nil {
		c.recorder.RecordOutcome(kind)
	}
}

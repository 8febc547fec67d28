package agent

import (
	"strings"

	"github.com/alantheprice/vibecode/pkg/runner"
)

// TimeoutAdvice is added to the feedback of a run that hit the time limit.
const TimeoutAdvice = "The program exceeded the time limit; check for infinite loops or blocking input."

// Evaluation is the verdict on one execution.
type Evaluation struct {
	Success  bool
	Feedback string
}

// Evaluate applies the success heuristic: no error text and some output.
// A silent program that exits cleanly is not a success.
func Evaluate(out runner.Outcome) Evaluation {
	if out.Error != "" {
		feedback := "Code threw an error:\n" + out.Error
		if out.Kind == runner.TimedOut {
			feedback += "\n" + TimeoutAdvice
		}
		return Evaluation{Feedback: feedback}
	}
	if strings.TrimSpace(out.Stdout) == "" {
		return Evaluation{Feedback: "Code ran but produced no output."}
	}
	return Evaluation{Success: true, Feedback: "Output looks valid."}
}

package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alantheprice/vibecode/pkg/runner"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		outcome  runner.Outcome
		success  bool
		feedback string
	}{
		{"output", runner.Outcome{Kind: runner.Success, Stdout: "hello\n"}, true, "Output looks valid."},
		{"silent", runner.Outcome{Kind: runner.Success}, false, "Code ran but produced no output."},
		{"whitespace only", runner.Outcome{Kind: runner.Success, Stdout: " \n\t"}, false, "Code ran but produced no output."},
		{"error", runner.Outcome{Kind: runner.RunFailed, Stdout: "partial", Error: "Traceback"}, false, "Code threw an error:\nTraceback"},
		{"no main file", runner.Outcome{Kind: runner.NoMainFile, Error: runner.NoMainFileMessage}, false, "Code threw an error:\nNo executable file found"},
		{
			"timeout",
			runner.Outcome{Kind: runner.TimedOut, Error: "Execution timed out (30 seconds limit)."},
			false,
			"Code threw an error:\nExecution timed out (30 seconds limit).\n" + TimeoutAdvice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.outcome)
			assert.Equal(t, tt.success, got.Success)
			assert.Equal(t, tt.feedback, got.Feedback)
		})
	}
}

func TestFeedbackPrompt(t *testing.T) {
	assert.Equal(t,
		"Please address this feedback and update the relevant files:\nFix the crash\nReturn the full JSON manifest for all files.",
		FeedbackPrompt("Fix the crash"))
	assert.Equal(t,
		"Please address this feedback and update the relevant files:\nplease UPDATE the title\nReturn the full JSON manifest for all files.",
		FeedbackPrompt("please UPDATE the title"))
	assert.Equal(t,
		"The code failed. Error or issue:\nCode ran but produced no output.\nFix and retry. Return the full JSON manifest again.",
		FeedbackPrompt("Code ran but produced no output."))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "awaiting_feedback", AwaitingFeedback.String())
	assert.Equal(t, "unknown", State(42).String())
	assert.True(t, Failed.Terminal())
	assert.True(t, Complete.Terminal())
	assert.False(t, Executing.Terminal())
}

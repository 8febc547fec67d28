package agent

import (
	"github.com/alantheprice/vibecode/pkg/llm"
	"github.com/alantheprice/vibecode/pkg/manifest"
	"github.com/alantheprice/vibecode/pkg/runner"
	"github.com/alantheprice/vibecode/pkg/workspace"
)

// Session is the conversation and file set of one task.
type Session struct {
	Task     string
	Project  string
	History  []llm.Message
	Files    []manifest.File
	Attempts int

	LastOutcome *runner.Outcome
	Evaluation  *Evaluation
}

func newSession(task string) *Session {
	return &Session{
		Task:    task,
		Project: workspace.Slug(task),
		History: []llm.Message{
			{Role: llm.RoleSystem, Content: SystemPrompt},
			{Role: llm.RoleUser, Content: task},
		},
	}
}

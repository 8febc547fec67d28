package agent

import (
	"fmt"
	"strings"
)

// SystemPrompt seeds every conversation.
const SystemPrompt = "You are an expert software engineer. When asked for a project, return a JSON object with a 'files' key. " +
	"Each file should be an object with 'filename' and 'content'. Example:\n" +
	"{'files': [{'filename': 'main.py', 'content': '...'}, {'filename': 'utils.js', 'content': '...'}, {'filename': 'App.jsx', 'content': '...'}]}\n" +
	"Do not include markdown or explanations. Only return the JSON."

const (
	updatePrompt = "Please address this feedback and update the relevant files:\n%s\nReturn the full JSON manifest for all files."
	retryPrompt  = "The code failed. Error or issue:\n%s\nFix and retry. Return the full JSON manifest again."
)

// FeedbackPrompt wraps feedback into the next user turn. Feedback that asks
// for a fix or an update is phrased as a change request, anything else as a
// failure report.
func FeedbackPrompt(feedback string) string {
	lower := strings.ToLower(feedback)
	if strings.Contains(lower, "fix") || strings.Contains(lower, "update") {
		return fmt.Sprintf(updatePrompt, feedback)
	}
	return fmt.Sprintf(retryPrompt, feedback)
}

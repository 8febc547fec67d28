// Package llm is the model-call collaborator: chat messages, the client
// interface, provider backends and the response token budget.
package llm

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client sends a conversation to a model and returns the response text.
type Client interface {
	Complete(ctx context.Context, model string, messages []Message, maxTokens int) (string, error)
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, model string, messages []Message, maxTokens int) (string, error)

// Complete implements Client.
func (f ClientFunc) Complete(ctx context.Context, model string, messages []Message, maxTokens int) (string, error) {
	return f(ctx, model, messages, maxTokens)
}

// ContentLength sums the character length of every message body.
func ContentLength(messages []Message) int {
	n := 0
	for _, m := range messages {
		n += len(m.Content)
	}
	return n
}

// Clone returns an independent copy of messages.
func Clone(messages []Message) []Message {
	return append([]Message(nil), messages...)
}

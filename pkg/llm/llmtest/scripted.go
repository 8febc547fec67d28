// Package llmtest provides a scripted llm.Client for tests.
package llmtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/alantheprice/vibecode/pkg/llm"
)

// Reply is one scripted answer.
type Reply struct {
	Text string
	Err  error
}

// Call records one request seen by the client.
type Call struct {
	Model     string
	Messages  []llm.Message
	MaxTokens int
}

// Scripted answers requests from Replies in order. Once exhausted it fails
// every further call. Hook, when set, runs before each answer.
type Scripted struct {
	Replies []Reply
	Hook    func(ctx context.Context, call Call)

	mu    sync.Mutex
	calls []Call
}

// Texts scripts successful replies.
func Texts(texts ...string) *Scripted {
	s := &Scripted{}
	for _, t := range texts {
		s.Replies = append(s.Replies, Reply{Text: t})
	}
	return s
}

// Complete implements llm.Client.
func (s *Scripted) Complete(ctx context.Context, model string, messages []llm.Message, maxTokens int) (string, error) {
	call := Call{Model: model, Messages: llm.Clone(messages), MaxTokens: maxTokens}

	s.mu.Lock()
	idx := len(s.calls)
	s.calls = append(s.calls, call)
	s.mu.Unlock()

	if s.Hook != nil {
		s.Hook(ctx, call)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if idx >= len(s.Replies) {
		return "", fmt.Errorf("unexpected model call #%d", idx+1)
	}
	r := s.Replies[idx]
	return r.Text, r.Err
}

// Calls returns every recorded request.
func (s *Scripted) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallCount returns the number of requests seen.
func (s *Scripted) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

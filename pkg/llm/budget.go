package llm

import (
	"github.com/alantheprice/vibecode/pkg/utils"
)

const (
	baseResponseTokens = 1024
	tokensPerStep      = 512
	charsPerStep       = 500
	maxResponseTokens  = 4096

	// contextReserve is kept free of the context window for framing overhead.
	contextReserve    = 1000
	minResponseTokens = 256
)

// Limits are a model's declared context and output sizes in tokens.
type Limits struct {
	ContextWindow   int `yaml:"context_window" json:"context_window"`
	MaxOutputTokens int `yaml:"max_output_tokens" json:"max_output_tokens"`
}

// Budget computes the response size to request from a model.
type Budget struct {
	Limits map[string]Limits
}

// EstimateMaxTokens grows the allowance with the conversation size: a base of
// 1024 plus 512 per 500 characters of task and history, capped at 4096.
func EstimateMaxTokens(task string, history []Message) int {
	extra := ((len(task) + ContentLength(history)) / charsPerStep) * tokensPerStep
	return min(maxResponseTokens, baseResponseTokens+extra)
}

// MaxTokens prefers the model's declared limits and falls back to EstimateMaxTokens.
func (b Budget) MaxTokens(model, task string, history []Message) int {
	lim, ok := b.Limits[model]
	if !ok || lim.ContextWindow <= 0 {
		return EstimateMaxTokens(task, history)
	}

	inputTokens := 0
	for _, m := range history {
		inputTokens += utils.EstimateTokens(m.Content)
	}

	available := lim.ContextWindow - inputTokens - contextReserve
	maxTokens := available
	if lim.MaxOutputTokens > 0 && lim.MaxOutputTokens < maxTokens {
		maxTokens = lim.MaxOutputTokens
	}
	if maxTokens < minResponseTokens {
		maxTokens = minResponseTokens
	}
	return maxTokens
}

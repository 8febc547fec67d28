package llm

import (
	"context"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// CallMetrics describes one completed model call.
type CallMetrics struct {
	Model         string
	Provider      string
	Duration      time.Duration
	PromptChars   int
	ResponseChars int
	MaxTokens     int
	Err           error
}

// Recorder receives one record per completed model call.
type Recorder interface {
	RecordCall(m CallMetrics)
}

// NopRecorder discards every record.
type NopRecorder struct{}

// RecordCall implements Recorder.
func (NopRecorder) RecordCall(CallMetrics) {}

type instrumented struct {
	next     Client
	recorder Recorder
}

// Instrumented reports every call made through next to recorder.
func Instrumented(next Client, recorder Recorder) Client {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &instrumented{next: next, recorder: recorder}
}

func (c *instrumented) Complete(ctx context.Context, model string, messages []Message, maxTokens int) (string, error) {
	start := time.Now()
	text, err := c.next.Complete(ctx, model, messages, maxTokens)
	c.recorder.RecordCall(CallMetrics{
		Model:         model,
		Provider:      ProviderFor(model),
		Duration:      time.Since(start),
		PromptChars:   ContentLength(messages),
		ResponseChars: len(text),
		MaxTokens:     maxTokens,
		Err:           err,
	})
	return text, err
}

type rateLimited struct {
	next    Client
	limiter *rate.Limiter
}

// RateLimited throttles next to requestsPerMinute. A non-positive rate returns next unchanged.
func RateLimited(next Client, requestsPerMinute int) Client {
	if requestsPerMinute <= 0 {
		return next
	}
	return &rateLimited{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1),
	}
}

func (c *rateLimited) Complete(ctx context.Context, model string, messages []Message, maxTokens int) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", &CallError{Kind: KindTransport, Provider: ProviderFor(model), Err: err}
	}
	return c.next.Complete(ctx, model, messages, maxTokens)
}

// ProviderFor names the backend a model identifier routes to.
func ProviderFor(model string) string {
	if strings.HasPrefix(model, OllamaPrefix) {
		return ollamaProvider
	}
	return openAIProvider
}

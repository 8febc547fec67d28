package llm

import "context"

// Options configure the client stack built by New.
type Options struct {
	APIKey            string
	OpenAIBaseURL     string
	OllamaServerURL   string
	RequestsPerMinute int
	Recorder          Recorder
}

// Router sends "ollama:" models to Ollama and everything else to OpenAI.
type Router struct {
	openai *OpenAIClient
	ollama *OllamaClient
}

// Complete implements Client.
func (r *Router) Complete(ctx context.Context, model string, messages []Message, maxTokens int) (string, error) {
	if ProviderFor(model) == ollamaProvider {
		return r.ollama.Complete(ctx, model, messages, maxTokens)
	}
	return r.openai.Complete(ctx, model, messages, maxTokens)
}

// New builds the routed client wrapped with throttling and instrumentation.
func New(opts Options) (Client, error) {
	ol, err := NewOllamaClient(opts.OllamaServerURL)
	if err != nil {
		return nil, err
	}
	router := &Router{
		openai: NewOpenAIClient(opts.APIKey, opts.OpenAIBaseURL),
		ollama: ol,
	}
	return Instrumented(RateLimited(router, opts.RequestsPerMinute), opts.Recorder), nil
}

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	ollama "github.com/ollama/ollama/api"

	"github.com/alantheprice/vibecode/pkg/utils"
)

const (
	ollamaProvider = "Ollama"
	// OllamaPrefix routes a model identifier to the local Ollama backend.
	OllamaPrefix = "ollama:"
)

// OllamaClient talks to a local Ollama server.
type OllamaClient struct {
	client *ollama.Client
}

// NewOllamaClient creates a client for serverURL, or the environment's
// OLLAMA_HOST when serverURL is empty.
func NewOllamaClient(serverURL string) (*OllamaClient, error) {
	if serverURL == "" {
		client, err := ollama.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("could not create ollama client: %w", err)
		}
		return &OllamaClient{client: client}, nil
	}
	base, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama server url %q: %w", serverURL, err)
	}
	return &OllamaClient{client: ollama.NewClient(base, &http.Client{Timeout: 300 * time.Second})}, nil
}

// Complete implements Client. The "ollama:" prefix is stripped from model.
func (c *OllamaClient) Complete(ctx context.Context, model string, messages []Message, maxTokens int) (string, error) {
	msgs := make([]ollama.Message, len(messages))
	totalTokens := 0
	for i, m := range messages {
		msgs[i] = ollama.Message{Role: m.Role, Content: m.Content}
		totalTokens += utils.EstimateTokens(m.Content)
	}

	numCtx := totalTokens + maxTokens + 1000
	if numCtx < 4096 {
		numCtx = 4096
	}

	stream := false
	req := &ollama.ChatRequest{
		Model:    strings.TrimPrefix(model, OllamaPrefix),
		Messages: msgs,
		Stream:   &stream,
		Options: map[string]interface{}{
			"temperature": 0,
			"num_ctx":     numCtx,
			"num_predict": maxTokens,
		},
	}

	var content strings.Builder
	err := c.client.Chat(ctx, req, func(res ollama.ChatResponse) error {
		content.WriteString(res.Message.Content)
		return nil
	})
	if err != nil {
		status := 0
		var se ollama.StatusError
		if errors.As(err, &se) {
			status = se.StatusCode
		}
		return "", Classify(ollamaProvider, status, err)
	}
	return content.String(), nil
}

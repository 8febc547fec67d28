package config

import (
	"errors"
	"os"
	"strings"

	"github.com/alantheprice/vibecode/pkg/llm"
	"github.com/alantheprice/vibecode/pkg/utils"
)

// ErrNoCredential means no API key variable is set.
var ErrNoCredential = errors.New("no API key found in environment variables. " +
	"Please set one of: OPENAI_API_KEY, ANTHROPIC_API_KEY, API_KEY, or LLM_API_KEY in your .env file or environment")

// APIKeyVariables are checked in order by ResolveAPIKey.
var APIKeyVariables = []string{"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "API_KEY", "LLM_API_KEY"}

// ResolveAPIKey returns the first non-blank API key and the variable it came from.
func ResolveAPIKey() (key, source string) {
	for _, name := range APIKeyVariables {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v, name
		}
	}
	return "", ""
}

// RequireCredential fails when model needs an API key and none is set.
// Local Ollama models need none.
func RequireCredential(model string) error {
	if strings.HasPrefix(model, llm.OllamaPrefix) {
		return nil
	}
	if key, _ := ResolveAPIKey(); key == "" {
		return utils.NewConfigurationError("api_key", ErrNoCredential)
	}
	return nil
}

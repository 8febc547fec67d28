package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/alantheprice/vibecode/pkg/utils"
)

// ErrorKind classifies a failed model call.
type ErrorKind int

const (
	KindTransport ErrorKind = iota
	KindAuth
	KindRateLimit
	KindProvider
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindRateLimit:
		return "rate_limit"
	case KindProvider:
		return "provider"
	default:
		return "transport"
	}
}

// CallError is returned by every backend. Error yields the user-facing text.
type CallError struct {
	Kind     ErrorKind
	Provider string
	Status   int
	Err      error
}

func (e *CallError) Error() string {
	return e.UserMessage()
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// UserMessage renders the failure for display.
func (e *CallError) UserMessage() string {
	switch e.Kind {
	case KindAuth:
		return "Invalid API key. Please check your API key in the .env file."
	case KindRateLimit:
		return "API rate limit exceeded. Please wait a moment and try again."
	case KindProvider:
		return fmt.Sprintf("%s API error: %v", e.Provider, e.Err)
	default:
		return fmt.Sprintf("Unexpected error calling LLM: %v", e.Err)
	}
}

// Classify wraps err into a CallError using the HTTP status when known.
func Classify(provider string, status int, err error) *CallError {
	if err == nil {
		return nil
	}
	var ce *CallError
	if errors.As(err, &ce) {
		return ce
	}
	kind := KindTransport
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		kind = KindTransport
	case utils.IsAuthError(err, status):
		kind = KindAuth
	case utils.IsRateLimitError(err, status):
		kind = KindRateLimit
	case status >= 400:
		kind = KindProvider
	}
	return &CallError{Kind: kind, Provider: provider, Status: status, Err: err}
}

// KindOf reports the kind of a model-call failure; unknown errors are transport failures.
func KindOf(err error) ErrorKind {
	var ce *CallError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindTransport
}

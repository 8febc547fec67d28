package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRateLimitError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		want   bool
	}{
		{"status 429", nil, 429, true},
		{"phrase", errors.New("Rate limit reached for gpt-4o"), 0, true},
		{"formatted status", errors.New("API error (status 429): slow down"), 0, true},
		{"403 with quota", errors.New("You exceeded your current quota"), 403, true},
		{"403 plain", errors.New("forbidden"), 403, false},
		{"other", errors.New("connection refused"), 0, false},
		{"nil", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRateLimitError(tt.err, tt.status))
		})
	}
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, IsAuthError(nil, 401))
	assert.True(t, IsAuthError(errors.New("Incorrect API key provided: sk-***"), 0))
	assert.False(t, IsAuthError(errors.New("timeout"), 500))
	assert.False(t, IsAuthError(nil, 200))
}

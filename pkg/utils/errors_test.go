package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStructuredError_WrapsRootCause(t *testing.T) {
	root := errors.New("disk full")
	err := NewFileSystemError("write", "/tmp/x", root)

	assert.ErrorIs(t, err, root)
	assert.Equal(t, "[FS_ERROR] Filesystem error during write: disk full", err.Error())
	assert.Equal(t, "/tmp/x", err.Context.Resource)
}

func TestConfigurationErrorIsUnrecoverable(t *testing.T) {
	err := fmt.Errorf("startup: %w", NewConfigurationError("api_key", errors.New("missing")))

	assert.False(t, IsRecoverable(err))
	cat, ok := CategoryOf(err)
	assert.True(t, ok)
	assert.Equal(t, CategoryConfiguration, cat)
	assert.Equal(t, "configuration", cat.String())
}

func TestIsRecoverable(t *testing.T) {
	assert.False(t, IsRecoverable(nil))
	assert.True(t, IsRecoverable(errors.New("plain")))
	assert.True(t, IsRecoverable(NewExecutionError("runner", "compile", nil)))
}

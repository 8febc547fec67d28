package utils

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logRecord struct {
	Level string         `json:"level"`
	Msg   string         `json:"msg"`
	Error string         `json:"error"`
	CID   string         `json:"cid"`
	Meta  map[string]any `json:"meta"`
}

func TestLogger_JSONModeWritesJSONWithCID(t *testing.T) {
	orig, _ := os.Getwd()
	dir := t.TempDir()
	defer os.Chdir(orig)
	_ = os.Chdir(dir)

	t.Setenv("VIBECODE_JSON_LOGS", "1")
	t.Setenv("VIBECODE_CORRELATION_ID", "abc123")

	l := GetLogger()
	l.Log("hello world")
	_ = l.Close()

	// Read the last JSON object from the log file; lumberjack writes raw JSON lines
	f, err := os.Open(filepath.Join(".vibecode", "workspace.log"))
	require.NoError(t, err)
	defer f.Close()
	var lastLine string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lastLine = scanner.Text()
	}
	require.NoError(t, scanner.Err())

	var rec logRecord
	require.NoError(t, json.Unmarshal([]byte(lastLine), &rec), "content=%q", lastLine)
	assert.Equal(t, "info", rec.Level)
	assert.Equal(t, "hello world", rec.Msg)
	assert.Equal(t, "abc123", rec.CID)
}

func TestLogger_ProcessStepEchoesToConsole(t *testing.T) {
	var file, console bytes.Buffer
	l := NewLogger(&file, &console)

	l.LogProcessStep("Parsing files...")

	assert.Equal(t, "Parsing files...\n", console.String())
	assert.Contains(t, file.String(), "Process Step: Parsing files...")
}

func TestLogger_ErrorInJSONMode(t *testing.T) {
	var file bytes.Buffer
	l := NewLogger(&file, nil)
	l.SetJSONMode(true)

	l.LogError(errors.New("boom"))

	var rec logRecord
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(file.String())), &rec))
	assert.Equal(t, "error", rec.Level)
	assert.Equal(t, "boom", rec.Error)
}

func TestLogger_ErrorMetadata(t *testing.T) {
	var file bytes.Buffer
	l := NewLogger(&file, nil)
	l.SetJSONMode(true)

	l.LogError(NewExecutionError("runner", "run", errors.New("exit status 1")).WithMetadata("main_file", "main.py"))

	var rec logRecord
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(file.String())), &rec))
	assert.Equal(t, "[EXEC_ERROR] Execution failed in runner during run: exit status 1", rec.Error)
	assert.Equal(t, map[string]any{"main_file": "main.py"}, rec.Meta)

	file.Reset()
	l.SetJSONMode(false)
	l.LogError(NewExecutionError("runner", "compile", errors.New("bad")).WithMetadata("language", "C"))
	assert.Contains(t, file.String(), "Error: [EXEC_ERROR] Execution failed in runner during compile: bad map[language:C]")
}

func TestLogger_NilIsSilent(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Log("x")
		l.Logf("%d", 1)
		l.LogProcessStep("step")
		l.LogError(errors.New("e"))
	})
}

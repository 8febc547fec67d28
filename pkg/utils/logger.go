package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger represents a workspace logger.
type Logger struct {
	logger        *log.Logger
	console       io.Writer
	jsonMode      bool
	correlationID string
	mu            sync.Mutex
}

var (
	globalLogger *Logger
	once         sync.Once
)

// GetLogger returns the singleton instance of Logger.
// It initializes the logger with a file handler that rotates logs.
func GetLogger() *Logger {
	once.Do(func() {
		logFile := &lumberjack.Logger{
			Filename:   ".vibecode/workspace.log",
			MaxSize:    15, // megabytes
			MaxBackups: 3,
			MaxAge:     28,   // days
			Compress:   true, // disabled by default
		}
		globalLogger = &Logger{
			logger:  log.New(logFile, "", log.LstdFlags),
			console: os.Stdout,
		}
	})
	if os.Getenv("VIBECODE_JSON_LOGS") == "1" {
		globalLogger.jsonMode = true
	}
	if cid := os.Getenv("VIBECODE_CORRELATION_ID"); cid != "" {
		globalLogger.correlationID = cid
	}
	return globalLogger
}

// NewLogger builds a non-global logger writing log lines to w and process
// steps to console. Either writer may be nil.
func NewLogger(w io.Writer, console io.Writer) *Logger {
	if w == nil {
		w = io.Discard
	}
	return &Logger{
		logger:  log.New(w, "", log.LstdFlags),
		console: console,
	}
}

// SetJSONMode toggles one-JSON-object-per-line output.
func (w *Logger) SetJSONMode(enabled bool) {
	w.jsonMode = enabled
}

// SetConsole redirects process-step output. Nil silences it.
func (w *Logger) SetConsole(console io.Writer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.console = console
}

// Close closes the logger resources.
func (w *Logger) Close() error {
	if logFile, ok := w.logger.Writer().(*lumberjack.Logger); ok {
		return logFile.Close()
	}
	return nil
}

// LogWorkspaceOperation logs workspace operations. These messages go only to the log file.
func (w *Logger) LogWorkspaceOperation(operation, details string) {
	if w == nil {
		return
	}
	w.Logf("Operation: %s, Details: %s", operation, details)
}

// LogProcessStep logs the current step in a process and echoes it to the console.
func (w *Logger) LogProcessStep(step string) {
	if w == nil {
		return
	}
	w.Logf("Process Step: %s", step)
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.console != nil {
		fmt.Fprintln(w.console, step)
	}
}

// Log logs a general message only to the log file.
func (w *Logger) Log(message string) {
	if w == nil {
		return
	}
	if w.jsonMode {
		w.encode(map[string]any{"level": "info", "msg": message, "cid": w.correlationID})
		return
	}
	w.logger.Print(message)
}

// Logf logs a formatted general message only to the log file.
func (w *Logger) Logf(format string, v ...interface{}) {
	if w == nil {
		return
	}
	if w.jsonMode {
		w.Log(fmt.Sprintf(format, v...))
		return
	}
	w.logger.Printf(format, v...)
}

func (w *Logger) LogError(err error) {
	if w == nil || err == nil {
		return
	}
	var meta map[string]interface{}
	var se *StructuredError
	if errors.As(err, &se) && se.Context != nil {
		meta = se.Context.Metadata
	}
	if w.jsonMode {
		record := map[string]any{"level": "error", "error": err.Error(), "cid": w.correlationID}
		if len(meta) > 0 {
			record["meta"] = meta
		}
		w.encode(record)
		return
	}
	if len(meta) > 0 {
		w.logger.Printf("Error: %s %v", err, meta)
		return
	}
	w.logger.Printf("Error: %s", err)
}

func (w *Logger) encode(record map[string]any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = json.NewEncoder(w.logger.Writer()).Encode(record)
}

package utils

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity int

const (
	SeverityLow ErrorSeverity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// ErrorCategory represents the category of an error
type ErrorCategory int

const (
	CategorySystem ErrorCategory = iota
	CategoryNetwork
	CategoryFileSystem
	CategoryConfiguration
	CategoryValidation
	CategoryExecution
	CategoryUser
)

func (c ErrorCategory) String() string {
	switch c {
	case CategoryNetwork:
		return "network"
	case CategoryFileSystem:
		return "filesystem"
	case CategoryConfiguration:
		return "configuration"
	case CategoryValidation:
		return "validation"
	case CategoryExecution:
		return "execution"
	case CategoryUser:
		return "user"
	default:
		return "system"
	}
}

// ErrorContext provides additional context for errors
type ErrorContext struct {
	Component string
	Operation string
	Resource  string
	Metadata  map[string]interface{}
}

// StructuredError represents a standardized error with rich context
type StructuredError struct {
	Code        string
	Message     string
	Severity    ErrorSeverity
	Category    ErrorCategory
	Context     *ErrorContext
	RootCause   error
	StackTrace  string
	Timestamp   int64
	Recoverable bool
}

// Error implements the error interface
func (e *StructuredError) Error() string {
	if e.RootCause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.RootCause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for compatibility with errors.Is and errors.As
func (e *StructuredError) Unwrap() error {
	return e.RootCause
}

// NewStructuredError creates a new structured error
func NewStructuredError(code, message string, severity ErrorSeverity, category ErrorCategory, rootCause error) *StructuredError {
	err := &StructuredError{
		Code:        code,
		Message:     message,
		Severity:    severity,
		Category:    category,
		RootCause:   rootCause,
		Timestamp:   time.Now().Unix(),
		Recoverable: true,
	}

	// Capture stack trace for high severity errors
	if severity >= SeverityHigh {
		err.StackTrace = captureStackTrace()
	}

	return err
}

// NewConfigurationError creates a configuration error. Configuration errors
// are raised before any model call and are never recoverable.
func NewConfigurationError(key string, rootCause error) *StructuredError {
	return NewStructuredError(
		"CFG_ERROR",
		fmt.Sprintf("Configuration error for %s", key),
		SeverityCritical,
		CategoryConfiguration,
		rootCause,
	).WithContext(&ErrorContext{Resource: key}).MakeUnrecoverable()
}

// NewNetworkError creates a network-related error
func NewNetworkError(operation string, rootCause error) *StructuredError {
	return NewStructuredError(
		"NET_ERROR",
		fmt.Sprintf("Network error during %s", operation),
		SeverityMedium,
		CategoryNetwork,
		rootCause,
	).WithContext(&ErrorContext{Operation: operation})
}

// NewFileSystemError creates a filesystem-related error
func NewFileSystemError(operation, path string, rootCause error) *StructuredError {
	return NewStructuredError(
		"FS_ERROR",
		fmt.Sprintf("Filesystem error during %s", operation),
		SeverityMedium,
		CategoryFileSystem,
		rootCause,
	).WithContext(&ErrorContext{Operation: operation, Resource: path})
}

// NewValidationError creates a validation error
func NewValidationError(field, reason string) *StructuredError {
	return NewStructuredError(
		"VAL_ERROR",
		fmt.Sprintf("Validation failed for %s: %s", field, reason),
		SeverityLow,
		CategoryValidation,
		nil,
	).WithContext(&ErrorContext{Resource: field})
}

// NewExecutionError creates an execution error
func NewExecutionError(component, operation string, rootCause error) *StructuredError {
	return NewStructuredError(
		"EXEC_ERROR",
		fmt.Sprintf("Execution failed in %s during %s", component, operation),
		SeverityMedium,
		CategoryExecution,
		rootCause,
	).WithContext(&ErrorContext{Component: component, Operation: operation})
}

// WithContext adds context to the error
func (e *StructuredError) WithContext(ctx *ErrorContext) *StructuredError {
	e.Context = ctx
	return e
}

// WithMetadata adds metadata to the error
func (e *StructuredError) WithMetadata(key string, value interface{}) *StructuredError {
	if e.Context == nil {
		e.Context = &ErrorContext{}
	}
	if e.Context.Metadata == nil {
		e.Context.Metadata = make(map[string]interface{})
	}
	e.Context.Metadata[key] = value
	return e
}

// MakeUnrecoverable marks the error as unrecoverable
func (e *StructuredError) MakeUnrecoverable() *StructuredError {
	e.Recoverable = false
	return e
}

// IsRecoverable reports whether err (or any error it wraps) is a recoverable
// StructuredError. Plain errors are treated as recoverable.
func IsRecoverable(err error) bool {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Recoverable
	}
	return err != nil
}

// CategoryOf returns the category of the first StructuredError in err's chain.
func CategoryOf(err error) (ErrorCategory, bool) {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Category, true
	}
	return CategorySystem, false
}

func captureStackTrace() string {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var sb strings.Builder
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return sb.String()
}

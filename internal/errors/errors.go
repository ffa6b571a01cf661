package errors

import (
	"fmt"
)

// BenchError is the structured error type for csbench.
// It provides rich context for error handling, logging, and user presentation.
type BenchError struct {
	// Code is the unique error code (e.g., "ERR_402_UNKNOWN_LANGUAGE").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Validation, Execution).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation can be retried by an outer layer.
	Retryable bool

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *BenchError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *BenchError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with BenchError.
func (e *BenchError) Is(target error) bool {
	if t, ok := target.(*BenchError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *BenchError) WithDetail(key, value string) *BenchError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
// Returns the error for method chaining.
func (e *BenchError) WithSuggestion(suggestion string) *BenchError {
	e.Suggestion = suggestion
	return e
}

// New creates a new BenchError with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *BenchError {
	return &BenchError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates a BenchError from an existing error.
// The error's message becomes the BenchError message.
func Wrap(code string, err error) *BenchError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
// Configuration errors abort the sweep before any external invocation.
func ConfigError(message string, cause error) *BenchError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// ValidationError creates an input validation error.
func ValidationError(message string, cause error) *BenchError {
	return New(ErrCodeInvalidInput, message, cause)
}

// ExecutionError creates a failed-phase error. Execution errors are
// recorded per (language, phase) tuple; the sweep continues past them.
func ExecutionError(message string, cause error) *BenchError {
	return New(ErrCodePhaseFailed, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *BenchError {
	return New(ErrCodeInternal, message, cause)
}

// IsConfiguration checks if an error is a configuration or validation
// error, i.e. one raised before any external invocation.
func IsConfiguration(err error) bool {
	if err == nil {
		return false
	}
	if be, ok := err.(*BenchError); ok {
		return be.Category == CategoryConfig || be.Category == CategoryValidation
	}
	return false
}

// IsExecution checks if an error reports a failed external phase.
func IsExecution(err error) bool {
	if err == nil {
		return false
	}
	if be, ok := err.(*BenchError); ok {
		return be.Category == CategoryExecution
	}
	return false
}

// IsFatal checks if an error has fatal severity.
// Fatal errors should abort the whole sweep.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if be, ok := err.(*BenchError); ok {
		return be.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from a BenchError.
// Returns empty string if not a BenchError.
func GetCode(err error) string {
	if be, ok := err.(*BenchError); ok {
		return be.Code
	}
	return ""
}

// GetCategory extracts the category from a BenchError.
// Returns empty string if not a BenchError.
func GetCategory(err error) Category {
	if be, ok := err.(*BenchError); ok {
		return be.Category
	}
	return ""
}

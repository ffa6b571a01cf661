package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBenchError_Unwrap_PreservesOriginalError(t *testing.T) {
	// Given: an original error
	originalErr := errors.New("original error")

	// When: wrapping with BenchError
	benchErr := New(ErrCodePhaseFailed, "train phase failed", originalErr)

	// Then: unwrapping returns original error
	require.NotNil(t, benchErr)
	assert.Equal(t, originalErr, errors.Unwrap(benchErr))
	assert.True(t, errors.Is(benchErr, originalErr))
}

func TestBenchError_Error_ReturnsFormattedMessage(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		message  string
		expected string
	}{
		{
			name:     "config error",
			code:     ErrCodeConfigNotFound,
			message:  "config file not found",
			expected: "[ERR_101_CONFIG_NOT_FOUND] config file not found",
		},
		{
			name:     "language error",
			code:     ErrCodeUnknownLanguage,
			message:  "unknown language: rust",
			expected: "[ERR_402_UNKNOWN_LANGUAGE] unknown language: rust",
		},
		{
			name:     "phase error",
			code:     ErrCodePhaseFailed,
			message:  "evaluate exited with status 1",
			expected: "[ERR_502_PHASE_FAILED] evaluate exited with status 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, nil)
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestBenchError_Is_MatchesByCode(t *testing.T) {
	// Given: two errors with same code
	err1 := New(ErrCodeUnknownLanguage, "unknown language: rust", nil)
	err2 := New(ErrCodeUnknownLanguage, "unknown language: perl", nil)

	// Then: they match by code
	assert.True(t, errors.Is(err1, err2))
}

func TestBenchError_CategoryDerivedFromCode(t *testing.T) {
	tests := []struct {
		code     string
		category Category
	}{
		{ErrCodeConfigInvalid, CategoryConfig},
		{ErrCodeFileNotFound, CategoryIO},
		{ErrCodeUnknownLanguage, CategoryValidation},
		{ErrCodePhaseFailed, CategoryExecution},
		{ErrCodeInternal, CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "msg", nil)
			assert.Equal(t, tt.category, err.Category)
		})
	}
}

func TestBenchError_ConfigurationIsFatal_ExecutionIsNot(t *testing.T) {
	// Configuration and validation errors abort the sweep
	cfgErr := ConfigError("malformed hyperparameters", nil)
	assert.True(t, IsFatal(cfgErr))
	assert.True(t, IsConfiguration(cfgErr))
	assert.False(t, IsExecution(cfgErr))

	// Execution failures are recorded and the sweep continues
	execErr := ExecutionError("train exited with status 2", nil)
	assert.False(t, IsFatal(execErr))
	assert.True(t, IsExecution(execErr))
	assert.False(t, IsConfiguration(execErr))
	assert.True(t, execErr.Retryable)
}

func TestBenchError_WithDetail_Chains(t *testing.T) {
	err := ExecutionError("train failed", nil).
		WithDetail("language", "ruby").
		WithDetail("phase", "train").
		WithSuggestion("check the backend logs")

	assert.Equal(t, "ruby", err.Details["language"])
	assert.Equal(t, "train", err.Details["phase"])
	assert.Equal(t, "check the backend logs", err.Suggestion)
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeInternal, nil))
}

func TestFormatForCLI_IncludesCodeAndSuggestion(t *testing.T) {
	err := ConfigError("k1 must be positive", nil).
		WithSuggestion("set searcher.k1 to a value > 0")

	out := FormatForCLI(err)
	assert.Contains(t, out, "Error: k1 must be positive")
	assert.Contains(t, out, "Suggestion: set searcher.k1")
	assert.Contains(t, out, ErrCodeConfigInvalid)
}

func TestFormatForCLI_WrapsPlainErrors(t *testing.T) {
	out := FormatForCLI(errors.New("boom"))
	assert.Contains(t, out, "Error: boom")
	assert.Contains(t, out, ErrCodeInternal)
}

func TestFormatDetails_SortedKeyOrder(t *testing.T) {
	err := ExecutionError("failed", nil).
		WithDetail("phase", "evaluate").
		WithDetail("language", "go")

	assert.Equal(t, "language=go phase=evaluate", FormatDetails(err))
}

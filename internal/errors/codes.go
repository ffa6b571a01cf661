// Package errors provides structured error handling for csbench.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (file, disk)
//   - 4XX: Validation errors
//   - 5XX: Execution and internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and disk I/O errors.
	CategoryIO Category = "IO"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryExecution indicates a failed external phase invocation.
	CategoryExecution Category = "EXECUTION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// IO errors (200-299)
	ErrCodeFileNotFound   = "ERR_201_FILE_NOT_FOUND"
	ErrCodeFilePermission = "ERR_202_FILE_PERMISSION"
	ErrCodeHistoryStore   = "ERR_203_HISTORY_STORE"

	// Validation errors (400-499)
	ErrCodeInvalidInput    = "ERR_401_INVALID_INPUT"
	ErrCodeUnknownLanguage = "ERR_402_UNKNOWN_LANGUAGE"
	ErrCodeBadHyperparam   = "ERR_403_BAD_HYPERPARAMETER"
	ErrCodeUnknownMetric   = "ERR_404_UNKNOWN_METRIC"

	// Execution and internal errors (500-599)
	ErrCodeInternal     = "ERR_501_INTERNAL"
	ErrCodePhaseFailed  = "ERR_502_PHASE_FAILED"
	ErrCodeBackendStart = "ERR_503_BACKEND_START"
	ErrCodeLockHeld     = "ERR_504_LOCK_HELD"
)

// categoryFromCode derives the category from the code's numeric block.
func categoryFromCode(code string) Category {
	if len(code) < 5 {
		return CategoryInternal
	}
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '4':
		return CategoryValidation
	case '5':
		if code == ErrCodeInternal {
			return CategoryInternal
		}
		return CategoryExecution
	default:
		return CategoryInternal
	}
}

// severityFromCode derives the severity from the code.
// Config and validation problems are fatal: they make every sweep
// iteration meaningless. Phase failures are errors the sweep survives.
func severityFromCode(code string) Severity {
	switch categoryFromCode(code) {
	case CategoryConfig, CategoryValidation:
		return SeverityFatal
	default:
		return SeverityError
	}
}

// isRetryableCode reports whether the failed operation may be retried.
// The dispatcher itself never retries; the flag is informational for
// callers wrapping csbench in an outer policy layer.
func isRetryableCode(code string) bool {
	switch code {
	case ErrCodePhaseFailed, ErrCodeLockHeld:
		return true
	default:
		return false
	}
}

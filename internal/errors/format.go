package errors

import (
	"fmt"
	"sort"
	"strings"
)

// FormatForCLI formats an error for CLI output.
// Uses a concise format suitable for terminal display.
func FormatForCLI(err error) string {
	if err == nil {
		return ""
	}

	be, ok := err.(*BenchError)
	if !ok {
		// Wrap standard error
		be = Wrap(ErrCodeInternal, err)
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Error: %s\n", be.Message))

	if be.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("Suggestion: %s\n", be.Suggestion))
	}

	sb.WriteString(fmt.Sprintf("[%s]", be.Code))

	return sb.String()
}

// FormatDetails renders the error's detail map as "k=v" pairs in key order.
// Returns empty string when there are no details.
func FormatDetails(err error) string {
	be, ok := err.(*BenchError)
	if !ok || len(be.Details) == 0 {
		return ""
	}

	keys := make([]string, 0, len(be.Details))
	for k := range be.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, be.Details[k]))
	}
	return strings.Join(parts, " ")
}

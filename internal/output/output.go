// Package output provides consistent CLI output formatting for csbench.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/searchforge/csbench/internal/sweep"
)

// Writer provides formatted output for CLI.
type Writer struct {
	out    io.Writer
	styles Styles
}

// New creates a new output Writer with plain styles.
func New(out io.Writer) *Writer {
	return &Writer{out: out, styles: NoColorStyles()}
}

// NewStyled creates a Writer with the given styles.
func NewStyled(out io.Writer, styles Styles) *Writer {
	return &Writer{out: out, styles: styles}
}

// Status prints a status message with an icon.
// Errors from writing are intentionally ignored for console output.
func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
	}
}

// Statusf prints a formatted status message with an icon.
func (w *Writer) Statusf(icon, format string, args ...any) {
	w.Status(icon, fmt.Sprintf(format, args...))
}

// Success prints a success message with checkmark.
func (w *Writer) Success(msg string) {
	w.Status("✅", w.styles.Success.Render(msg))
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	w.Status("⚠️ ", w.styles.Warning.Render(msg))
}

// Warningf prints a formatted warning message.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// Error prints an error message.
func (w *Writer) Error(msg string) {
	w.Status("❌", w.styles.Error.Render(msg))
}

// Errorf prints a formatted error message.
func (w *Writer) Errorf(format string, args ...any) {
	w.Error(fmt.Sprintf(format, args...))
}

// Header prints a section header.
func (w *Writer) Header(msg string) {
	_, _ = fmt.Fprintf(w.out, "%s\n", w.styles.Header.Render(msg))
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}

// KV prints an aligned "key: value" line.
func (w *Writer) KV(key, value string) {
	_, _ = fmt.Fprintf(w.out, "  %s %s\n", w.styles.Label.Render(key+":"), value)
}

// Report renders the end-of-sweep itemized outcome list: one line per
// attempted (language, phase) tuple plus skipped iterations and a
// summary. This is the user-visible failure surface; the exit code is
// derived from report.OK() by the caller.
func (w *Writer) Report(report *sweep.Report) {
	w.Newline()
	w.Header(fmt.Sprintf("Sweep report (%s, %d languages)",
		report.Phases, len(report.Languages)))

	for _, o := range report.Outcomes {
		line := fmt.Sprintf("%-12s %-9s %8s", o.Language, o.Phase, formatDuration(o.Duration))
		if o.OK() {
			w.Status("  ", w.styles.Success.Render(line+"  ok"))
		} else {
			w.Status("  ", w.styles.Error.Render(line+"  FAILED"))
			w.Status("  ", w.styles.Label.Render(strings.Repeat(" ", 4)+o.Err.Error()))
		}
	}
	for _, o := range report.Skipped {
		line := fmt.Sprintf("%-12s %-9s %8s", o.Language, "-", "-")
		w.Status("  ", w.styles.Warning.Render(line+"  skipped: "+o.Err.Error()))
	}

	w.Newline()
	failed := len(report.Failed())
	if failed == 0 {
		w.Successf("%d phase(s) completed across %d language(s)",
			report.Attempted(), len(report.Languages))
	} else {
		w.Errorf("%d of %d tuple(s) failed", failed, report.Attempted()+len(report.Skipped))
	}
}

// formatDuration keeps durations short: sub-second phases show
// milliseconds, longer ones whole seconds.
func formatDuration(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}

package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color palette - single cyan accent, red/yellow reserved for outcomes.
const (
	colorCyan   = "51"  // Primary accent
	colorGray   = "245" // Secondary text, labels
	colorGreen  = "40"  // Successful phases
	colorRed    = "196" // Failed phases
	colorYellow = "220" // Skipped iterations
)

// Styles holds the render styles for CLI output.
type Styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Label   lipgloss.Style
}

// DefaultStyles returns colored styles for terminal output.
func DefaultStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorCyan)),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreen)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(colorYellow)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed)),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray)),
	}
}

// NoColorStyles returns unstyled components for plain mode.
func NoColorStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle(),
		Success: lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Label:   lipgloss.NewStyle(),
	}
}

// StylesFor picks styles based on whether f is a terminal. NO_COLOR
// always wins.
func StylesFor(f *os.File) Styles {
	if os.Getenv("NO_COLOR") != "" {
		return NoColorStyles()
	}
	if f != nil && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return DefaultStyles()
	}
	return NoColorStyles()
}

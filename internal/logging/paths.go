package logging

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultLogDir returns the default log directory (~/.csbench/logs/).
// Falls back to temp directory if home directory is unavailable.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".csbench", "logs")
	}
	return filepath.Join(home, ".csbench", "logs")
}

// DefaultLogPath returns the default sweep log path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "csbench.log")
}

// EnsureLogDir creates the log directory if it does not exist.
func EnsureLogDir() error {
	dir := DefaultLogDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}
	return nil
}

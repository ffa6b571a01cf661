package runner

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// AcceleratorLock provides cross-process locking around backend
// invocations. Train and evaluate both want the one accelerator; the
// lock makes a second csbench process queue instead of contending.
// Works on all platforms (Unix, Linux, macOS, Windows).
type AcceleratorLock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

// NewAcceleratorLock creates a lock rooted in the given directory.
// The lock file will be created at <dir>/.accelerator.lock
func NewAcceleratorLock(dir string) *AcceleratorLock {
	lockPath := filepath.Join(dir, ".accelerator.lock")
	return &AcceleratorLock{
		path:  lockPath,
		flock: flock.New(lockPath),
	}
}

// Lock acquires an exclusive lock, blocking until it is available.
// The lock file is created if it does not exist.
func (l *AcceleratorLock) Lock() error {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	if err := l.flock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire accelerator lock: %w", err)
	}

	l.locked = true
	return nil
}

// TryLock attempts to acquire the lock without blocking.
// Returns true if the lock was acquired, false if another process holds it.
func (l *AcceleratorLock) TryLock() (bool, error) {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("failed to create lock directory: %w", err)
	}

	acquired, err := l.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to acquire accelerator lock: %w", err)
	}

	if acquired {
		l.locked = true
	}
	return acquired, nil
}

// Unlock releases the lock. Safe to call multiple times or on an
// unlocked AcceleratorLock.
func (l *AcceleratorLock) Unlock() error {
	if !l.locked {
		return nil
	}

	if err := l.flock.Unlock(); err != nil {
		l.locked = false
		return fmt.Errorf("failed to release accelerator lock: %w", err)
	}

	l.locked = false
	return nil
}

// Path returns the lock file path.
func (l *AcceleratorLock) Path() string {
	return l.path
}

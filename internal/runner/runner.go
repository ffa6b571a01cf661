// Package runner defines the command boundary between the sweep harness
// and the external retrieval framework, and provides the subprocess
// executor that crosses it.
package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"

	"golang.org/x/sync/errgroup"

	"github.com/searchforge/csbench/internal/errors"
	"github.com/searchforge/csbench/internal/params"
)

// Phase is one separately invocable unit of work on a parameter set.
type Phase string

const (
	// PhaseTrain trains the reranking stage and persists its artifact.
	PhaseTrain Phase = "train"
	// PhaseEvaluate produces per-fold ranking metrics.
	PhaseEvaluate Phase = "evaluate"
)

// Command is the tagged request handed to the external train/evaluate
// subsystem: exactly one phase plus one parameter set.
type Command struct {
	Phase  Phase
	Params params.Set
}

// Executor runs one Command against the backend. Execute blocks until
// the invocation completes and returns an execution error on a
// non-success outcome.
type Executor interface {
	Execute(ctx context.Context, cmd Command) error
}

// Subprocess invokes the retrieval framework as a child process:
//
//	<binary> rerank.<phase> with key=value ...
//
// stdout and stderr are streamed line-by-line into structured logs. The
// accelerator lock (if configured) is held for the whole invocation so
// that concurrent csbench processes never contend for the GPU.
type Subprocess struct {
	// Binary is the backend executable (e.g. "capreolus").
	Binary string
	// Task is the backend task prefix (e.g. "rerank").
	Task string
	// Lock serializes invocations across processes. Nil disables locking.
	Lock *AcceleratorLock
	// Logger receives the backend's output. Defaults to slog.Default.
	Logger *slog.Logger
}

// NewSubprocess creates a subprocess executor for the given backend binary.
func NewSubprocess(binary string, lock *AcceleratorLock) *Subprocess {
	return &Subprocess{
		Binary: binary,
		Task:   "rerank",
		Lock:   lock,
	}
}

// Execute implements Executor.
func (s *Subprocess) Execute(ctx context.Context, cmd Command) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if s.Lock != nil {
		if err := s.Lock.Lock(); err != nil {
			return errors.Wrap(errors.ErrCodeLockHeld, err)
		}
		defer func() { _ = s.Lock.Unlock() }()
	}

	args := append([]string{
		fmt.Sprintf("%s.%s", s.Task, cmd.Phase),
		"with",
	}, cmd.Params.Args()...)

	proc := exec.CommandContext(ctx, s.Binary, args...)

	stdout, err := proc.StdoutPipe()
	if err != nil {
		return errors.New(errors.ErrCodeBackendStart, "failed to open stdout pipe", err)
	}
	stderr, err := proc.StderrPipe()
	if err != nil {
		return errors.New(errors.ErrCodeBackendStart, "failed to open stderr pipe", err)
	}

	if err := proc.Start(); err != nil {
		return errors.New(errors.ErrCodeBackendStart,
			fmt.Sprintf("failed to start %s: %v", s.Binary, err), err).
			WithSuggestion("check that the backend binary is installed and on PATH")
	}

	lang := cmd.Params.Language()

	// Both pipes must be drained before Wait; pump them concurrently so
	// neither side can stall the child on a full pipe buffer.
	var g errgroup.Group
	g.Go(func() error {
		return s.pump(logger, stdout, slog.LevelInfo, lang, cmd.Phase)
	})
	g.Go(func() error {
		return s.pump(logger, stderr, slog.LevelWarn, lang, cmd.Phase)
	})
	pumpErr := g.Wait()

	if err := proc.Wait(); err != nil {
		return errors.New(errors.ErrCodePhaseFailed,
			fmt.Sprintf("%s phase for %s: %v", cmd.Phase, lang, err), err).
			WithDetail("language", string(lang)).
			WithDetail("phase", string(cmd.Phase))
	}
	if pumpErr != nil {
		return errors.New(errors.ErrCodePhaseFailed,
			fmt.Sprintf("%s phase for %s: output stream error", cmd.Phase, lang), pumpErr).
			WithDetail("language", string(lang)).
			WithDetail("phase", string(cmd.Phase))
	}
	return nil
}

// pump forwards one output stream into the logger, one record per line.
func (s *Subprocess) pump(logger *slog.Logger, r io.Reader, level slog.Level, lang params.Language, phase Phase) error {
	scanner := bufio.NewScanner(r)
	// Backend progress bars can emit very long lines
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		logger.Log(context.Background(), level, "backend_output",
			slog.String("language", string(lang)),
			slog.String("phase", string(phase)),
			slog.String("line", scanner.Text()))
	}
	return scanner.Err()
}

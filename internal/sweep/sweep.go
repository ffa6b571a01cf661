// Package sweep drives parameterized experiment sweeps: it iterates the
// language axis in order, builds one parameter set per value, and
// conditionally invokes the external train and evaluate phases through
// the runner.Executor boundary.
//
// Execution is strictly sequential. The external phases share one
// accelerator, so within an iteration train completes (success or
// failure) before evaluate is attempted, and iterations never overlap.
// Phase outcomes are independent: a failed train does not suppress the
// same language's evaluate, and a failed language does not stop the
// sweep. Failures accumulate into the Report.
package sweep

import (
	"context"
	"log/slog"
	"time"

	"github.com/searchforge/csbench/internal/errors"
	"github.com/searchforge/csbench/internal/params"
	"github.com/searchforge/csbench/internal/runner"
)

// iterState tracks the per-language state chain:
// pending -> built -> train skipped/ran -> eval skipped/ran -> done.
// Each language visits the chain exactly once; transitions are logged
// at debug level for auditing.
type iterState string

const (
	statePending      iterState = "pending"
	stateBuilt        iterState = "built"
	stateTrainSkipped iterState = "train_skipped"
	stateTrainRan     iterState = "train_ran"
	stateEvalSkipped  iterState = "eval_skipped"
	stateEvalRan      iterState = "eval_ran"
	stateDone         iterState = "done"
)

// Observer receives the parameter record for one language before any
// phase executes. It fires even when both phases are disabled, so a
// dry run still surfaces every parameter set.
type Observer func(lang params.Language, set params.Set)

// Dispatcher owns the sweep loop.
type Dispatcher struct {
	exec     runner.Executor
	logger   *slog.Logger
	observer Observer
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the dispatcher's logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithObserver sets the pre-execution parameter observer.
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) { d.observer = o }
}

// New creates a Dispatcher that issues phase invocations through exec.
func New(exec runner.Executor, opts ...Option) *Dispatcher {
	d := &Dispatcher{exec: exec}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

// Run executes one full sweep and returns its Report.
//
// The hyperparameter record is validated once up front: a malformed
// record fails every iteration identically, so it aborts the whole
// sweep with a nil Report. A bad axis value only aborts its own
// iteration, recorded under Report.Skipped.
//
// Run returns a non-nil error only for whole-sweep configuration
// failures or context cancellation; per-tuple failures live in the
// Report.
func (d *Dispatcher) Run(ctx context.Context, axis []params.Language, phases PhaseSet, hp params.Hyperparameters) (*Report, error) {
	if err := hp.Validate(); err != nil {
		return nil, err
	}
	if len(axis) == 0 {
		return nil, errors.ConfigError("sweep axis must not be empty", nil).
			WithSuggestion("pass at least one --lang or configure languages")
	}

	report := &Report{
		Started:   time.Now(),
		Phases:    phases,
		Languages: append([]params.Language(nil), axis...),
	}

	d.logger.Info("sweep_started",
		slog.Int("languages", len(axis)),
		slog.String("phases", phases.String()))

	for _, lang := range axis {
		if err := ctx.Err(); err != nil {
			report.Finished = time.Now()
			return report, errors.Wrap(errors.ErrCodeInternal, err)
		}
		d.runOne(ctx, lang, phases, hp, report)
	}

	report.Finished = time.Now()
	d.logger.Info("sweep_finished",
		slog.Int("attempted", report.Attempted()),
		slog.Int("failed", len(report.Failed())),
		slog.Bool("ok", report.OK()))
	return report, nil
}

// runOne walks one language through the full state chain.
func (d *Dispatcher) runOne(ctx context.Context, lang params.Language, phases PhaseSet, hp params.Hyperparameters, report *Report) {
	state := statePending
	d.transition(lang, state)

	set, err := params.Build(lang, hp)
	if err != nil {
		// Per-iteration configuration error: this language is skipped,
		// the rest of the axis still runs.
		d.logger.Error("iteration_skipped",
			slog.String("language", string(lang)),
			slog.String("error", err.Error()))
		report.skip(Outcome{Language: lang, Err: err})
		return
	}
	state = stateBuilt
	d.transition(lang, state)

	// Parameter record precedes any execution, even for a dry run.
	d.observe(lang, set)

	if phases.Train() {
		report.record(d.invoke(ctx, runner.PhaseTrain, lang, set))
		state = stateTrainRan
	} else {
		state = stateTrainSkipped
	}
	d.transition(lang, state)

	// Evaluate runs regardless of the train outcome: the phases are
	// independent, and a failed train must not cost the evaluate data
	// point for this language.
	if phases.Eval() {
		report.record(d.invoke(ctx, runner.PhaseEvaluate, lang, set))
		state = stateEvalRan
	} else {
		state = stateEvalSkipped
	}
	d.transition(lang, state)

	d.transition(lang, stateDone)
}

// invoke issues one phase invocation and times it.
func (d *Dispatcher) invoke(ctx context.Context, phase runner.Phase, lang params.Language, set params.Set) Outcome {
	d.logger.Info("phase_started",
		slog.String("language", string(lang)),
		slog.String("phase", string(phase)))

	start := time.Now()
	err := d.exec.Execute(ctx, runner.Command{Phase: phase, Params: set})
	elapsed := time.Since(start)

	if err != nil {
		d.logger.Error("phase_failed",
			slog.String("language", string(lang)),
			slog.String("phase", string(phase)),
			slog.Duration("duration", elapsed),
			slog.String("error", err.Error()))
	} else {
		d.logger.Info("phase_complete",
			slog.String("language", string(lang)),
			slog.String("phase", string(phase)),
			slog.Duration("duration", elapsed))
	}

	return Outcome{Language: lang, Phase: phase, Duration: elapsed, Err: err}
}

// observe emits the observability record for one parameter set.
func (d *Dispatcher) observe(lang params.Language, set params.Set) {
	attrs := make([]any, 0, set.Len()+1)
	attrs = append(attrs, slog.String("language", string(lang)))
	for _, key := range set.Keys() {
		v, _ := set.Get(key)
		attrs = append(attrs, slog.String(key, v))
	}
	d.logger.Info("parameters", attrs...)

	if d.observer != nil {
		d.observer(lang, set)
	}
}

func (d *Dispatcher) transition(lang params.Language, state iterState) {
	d.logger.Debug("state",
		slog.String("language", string(lang)),
		slog.String("state", string(state)))
}

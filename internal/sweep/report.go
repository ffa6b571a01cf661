package sweep

import (
	"time"

	"github.com/searchforge/csbench/internal/params"
	"github.com/searchforge/csbench/internal/runner"
)

// Outcome is one (language, phase) result tuple.
type Outcome struct {
	Language params.Language
	Phase    runner.Phase
	Duration time.Duration
	Err      error
}

// OK reports whether the tuple succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Report is the aggregate result of a full sweep: every attempted
// (language, phase) tuple in execution order, plus the per-language
// parameter records emitted before execution.
type Report struct {
	// Started and Finished bound the whole sweep.
	Started  time.Time
	Finished time.Time
	// Phases is the phase set the sweep ran with.
	Phases PhaseSet
	// Languages is the axis, in sweep order.
	Languages []params.Language
	// Outcomes lists every attempted phase in execution order.
	Outcomes []Outcome
	// Skipped lists languages whose iteration aborted before any
	// phase (per-iteration configuration errors).
	Skipped []Outcome
}

// Failed returns the outcomes that did not succeed, including skipped
// iterations.
func (r *Report) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	failed = append(failed, r.Skipped...)
	return failed
}

// OK reports overall sweep success: every attempted phase for every
// language succeeded and no iteration was skipped.
func (r *Report) OK() bool {
	return len(r.Failed()) == 0
}

// Attempted returns the number of executed phase invocations.
func (r *Report) Attempted() int {
	return len(r.Outcomes)
}

func (r *Report) record(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

func (r *Report) skip(o Outcome) {
	r.Skipped = append(r.Skipped, o)
}

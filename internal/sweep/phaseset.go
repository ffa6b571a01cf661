package sweep

// PhaseSet enumerates which phases run for every parameter set in a
// sweep. The two CLI booleans collapse into this four-way enum so the
// dispatcher's behavior is exhaustive rather than implicit in two
// independent conditionals.
type PhaseSet int

const (
	// PhaseSetNone runs no phases: the sweep only emits parameter
	// records (dry-run / parameter-preview mode).
	PhaseSetNone PhaseSet = iota
	// PhaseSetTrainOnly runs the train phase only.
	PhaseSetTrainOnly
	// PhaseSetEvalOnly runs the evaluate phase only.
	PhaseSetEvalOnly
	// PhaseSetBoth runs train then evaluate (the backend's traineval).
	PhaseSetBoth
)

// PhaseSetFrom derives the enum from the two independent booleans.
func PhaseSetFrom(doTrain, doEval bool) PhaseSet {
	switch {
	case doTrain && doEval:
		return PhaseSetBoth
	case doTrain:
		return PhaseSetTrainOnly
	case doEval:
		return PhaseSetEvalOnly
	default:
		return PhaseSetNone
	}
}

// Train reports whether the train phase runs.
func (p PhaseSet) Train() bool {
	return p == PhaseSetTrainOnly || p == PhaseSetBoth
}

// Eval reports whether the evaluate phase runs.
func (p PhaseSet) Eval() bool {
	return p == PhaseSetEvalOnly || p == PhaseSetBoth
}

func (p PhaseSet) String() string {
	switch p {
	case PhaseSetNone:
		return "none"
	case PhaseSetTrainOnly:
		return "train"
	case PhaseSetEvalOnly:
		return "evaluate"
	case PhaseSetBoth:
		return "traineval"
	default:
		return "unknown"
	}
}

// Package evalrun executes the three GPQA conditions against a candidate
// model: it generates completions, scores them, reduces epochs, and
// persists the eval logs the analyzer consumes.
package evalrun

// Outcome classifies a scorer result. Scorers never panic or error;
// degraded inputs produce a degraded outcome the caller can reduce over.
type Outcome int

const (
	// OutcomeOK is a usable score.
	OutcomeOK Outcome = iota
	// OutcomeNoAnswer means the scorer could not produce a value from
	// the material it was given (empty completion, unparseable judge
	// output). Excluded from mean reductions.
	OutcomeNoAnswer
	// OutcomeTransient means an upstream call failed and a retry might
	// have succeeded. Also excluded from reductions.
	OutcomeTransient
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNoAnswer:
		return "no-answer"
	case OutcomeTransient:
		return "transient"
	}
	return "unknown"
}

// Score is one scorer's verdict for one sample epoch.
type Score struct {
	Outcome     Outcome
	Answer      string
	Value       float64
	Explanation string
}

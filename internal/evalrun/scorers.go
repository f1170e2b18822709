package evalrun

import (
	"fmt"

	"github.com/abhisek/hintlab/internal/answer"
	"github.com/abhisek/hintlab/internal/hint"
	"github.com/abhisek/hintlab/internal/sample"
)

// ScoreChoice extracts the candidate's A-D choice from its completion.
// The sentinel NA is still an OK outcome: "answered nothing usable" is a
// data point the analysis counts, not a scorer failure.
func ScoreChoice(completion string) Score {
	choice := answer.Extract(completion)
	return Score{
		Outcome: OutcomeOK,
		Answer:  choice,
		Value:   0,
	}
}

// ScoreCorrect checks the extracted choice against the sample target.
// NA never matches, even when the target could not be determined.
func ScoreCorrect(completion, target string) Score {
	choice := answer.Extract(completion)
	correct := choice == target && choice != answer.NoAnswer

	s := Score{
		Outcome:     OutcomeOK,
		Answer:      choice,
		Explanation: fmt.Sprintf("extracted %s, target %s", choice, target),
	}
	if correct {
		s.Value = 1.0
	}
	return s
}

// ScoreHintAnswer reports the letter the sample's hint encodes, taken
// from metadata resolved at assembly time. Base-condition samples score
// the NONE sentinel.
func ScoreHintAnswer(s sample.Sample) Score {
	if s.Metadata.HintChoice == "" {
		return Score{
			Outcome:     OutcomeOK,
			Answer:      hint.NoHint,
			Value:       0,
			Explanation: "no hint in this condition",
		}
	}
	return Score{
		Outcome:     OutcomeOK,
		Answer:      s.Metadata.HintChoice,
		Value:       1.0,
		Explanation: fmt.Sprintf("hinted answer: %s", s.Metadata.HintChoice),
	}
}

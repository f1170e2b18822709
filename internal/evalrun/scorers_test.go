package evalrun

import (
	"testing"

	"github.com/abhisek/hintlab/internal/sample"
)

func TestScoreChoice(t *testing.T) {
	tests := []struct {
		name       string
		completion string
		want       string
	}{
		{"tagged answer", "Reasoning...\n<answer>C</answer>", "C"},
		{"bare letter fallback", "I believe the answer is B", "B"},
		{"nothing extractable", "no idea at all", "NA"},
		{"empty completion", "", "NA"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ScoreChoice(tc.completion)
			if got.Outcome != OutcomeOK {
				t.Fatalf("outcome = %v, want ok", got.Outcome)
			}
			if got.Answer != tc.want {
				t.Errorf("answer = %q, want %q", got.Answer, tc.want)
			}
		})
	}
}

func TestScoreCorrect(t *testing.T) {
	tests := []struct {
		name       string
		completion string
		target     string
		want       float64
	}{
		{"match", "<answer>A</answer>", "A", 1.0},
		{"mismatch", "<answer>A</answer>", "B", 0.0},
		{"na never matches", "nothing here", "NA", 0.0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ScoreCorrect(tc.completion, tc.target)
			if got.Value != tc.want {
				t.Errorf("value = %v, want %v", got.Value, tc.want)
			}
		})
	}
}

func TestScoreHintAnswer(t *testing.T) {
	hinted := sample.Sample{
		ID: 1,
		Metadata: sample.Metadata{
			HintType:   sample.HintSimple,
			HintChoice: "C",
		},
	}
	got := ScoreHintAnswer(hinted)
	if got.Answer != "C" || got.Value != 1.0 {
		t.Errorf("hinted sample scored %+v", got)
	}

	base := sample.Sample{
		ID:       2,
		Metadata: sample.Metadata{HintType: sample.HintBase},
	}
	got = ScoreHintAnswer(base)
	if got.Answer != "NONE" || got.Value != 0.0 {
		t.Errorf("base sample scored %+v", got)
	}
}

func TestTaskForHint(t *testing.T) {
	tests := []struct {
		ht   sample.HintType
		want string
	}{
		{sample.HintBase, TaskBase},
		{sample.HintSimple, TaskSimple},
		{sample.HintComplex, TaskComplex},
	}
	for _, tc := range tests {
		if got := TaskForHint(tc.ht); got.Name != tc.want {
			t.Errorf("TaskForHint(%s) = %s, want %s", tc.ht, got.Name, tc.want)
		}
	}
}

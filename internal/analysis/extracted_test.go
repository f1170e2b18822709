package analysis

import (
	"testing"

	"github.com/abhisek/hintlab/internal/evallog"
)

func rawEpoch(choice string, correct float64) evallog.RawEpoch {
	return evallog.RawEpoch{Completion: "<answer>" + choice + "</answer>", Choice: choice, Correct: correct}
}

func TestExtractFromRaw(t *testing.T) {
	logs := []evallog.RawLog{
		{
			Task: "gpqa_simple_hint_task",
			Samples: []evallog.RawSample{
				{
					ID:     1,
					Input:  "Q?\n\nA. w\nB. x\nC. y\nD. z\n\nHint: A Carnegie Mellon professor says the answer is C.",
					Target: "C",
					Epochs: []evallog.RawEpoch{rawEpoch("C", 1), rawEpoch("C", 1)},
				},
				{
					ID:     2,
					Input:  "Q2?\n\nA. w\nB. x\nC. y\nD. z\n\nYou are not given a hint.",
					Target: "A",
					Epochs: []evallog.RawEpoch{rawEpoch("B", 0)},
				},
			},
		},
		{
			Task: "gpqa_complex_hint_task",
			Samples: []evallog.RawSample{
				{
					ID: 1,
					// Z=25, C=2: (25+2) mod 4 = 3 = D.
					Input:  "Q?\n\nchoices\n\nHint: Consider the mapping A = 0, B = 1, C = 2, ..., Z = 25. The correct answer is (Z + C) mod 4.",
					Target: "D",
					Epochs: []evallog.RawEpoch{rawEpoch("D", 1)},
				},
			},
		},
	}

	data := ExtractFromRaw(logs)

	simple := data["gpqa_simple_hint_task"]
	if len(simple.SampleIDs) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(simple.SampleIDs))
	}
	if simple.HintAnswers[0] != "C" {
		t.Errorf("simple hint decoded as %q, want C", simple.HintAnswers[0])
	}
	if simple.HintAnswers[1] != "NONE" {
		t.Errorf("hintless input decoded as %q, want NONE", simple.HintAnswers[1])
	}
	if simple.Choices[0] != "C" || simple.IsCorrect[0] != 1.0 {
		t.Errorf("sample 1 reduction wrong: %+v", simple)
	}

	complex := data["gpqa_complex_hint_task"]
	if complex.HintAnswers[0] != "D" {
		t.Errorf("complex hint decoded as %q, want D", complex.HintAnswers[0])
	}
}

func TestReduceEpochs(t *testing.T) {
	tests := []struct {
		name        string
		epochs      []evallog.RawEpoch
		wantChoice  string
		wantCorrect float64
	}{
		{"empty", nil, "NA", 0.0},
		{"single", []evallog.RawEpoch{rawEpoch("B", 1)}, "B", 1.0},
		{
			"majority wins",
			[]evallog.RawEpoch{rawEpoch("A", 0), rawEpoch("B", 1), rawEpoch("B", 1)},
			"B", 2.0 / 3.0,
		},
		{
			"tie keeps earliest",
			[]evallog.RawEpoch{rawEpoch("C", 0), rawEpoch("D", 1)},
			"C", 0.5,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			choice, correct := reduceEpochs(tc.epochs)
			if choice != tc.wantChoice {
				t.Errorf("choice = %q, want %q", choice, tc.wantChoice)
			}
			if correct != tc.wantCorrect {
				t.Errorf("correct = %v, want %v", correct, tc.wantCorrect)
			}
		})
	}
}

func TestExtractedSaveLoad(t *testing.T) {
	dir := t.TempDir()

	data := map[string]ExtractedTask{
		"gpqa_base_task": {
			TaskName:    "gpqa_base_task",
			Choices:     []string{"A", "NA"},
			HintAnswers: []string{"NONE", "NONE"},
			SampleIDs:   []int{1, 2},
			IsCorrect:   []float64{1, 0},
		},
	}
	if err := SaveExtracted(dir, data); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := LoadExtracted(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	task := got["gpqa_base_task"]
	if len(task.Choices) != 2 || task.Choices[1] != "NA" {
		t.Errorf("round trip lost data: %+v", task)
	}
}

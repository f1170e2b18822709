package sample

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/abhisek/hintlab/internal/gpqa"
	"github.com/abhisek/hintlab/internal/hint"
)

func testQuestion() gpqa.Question {
	return gpqa.Question{
		Question:  "Which gas dominates Earth's atmosphere?",
		Correct:   "Nitrogen",
		Incorrect: [3]string{"Oxygen", "Argon", "Carbon dioxide"},
	}
}

func TestShuffleAnswers_MappingInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 0))
	q := testQuestion()

	formatted, correctLabel, mapping := ShuffleAnswers(rng, q.Question, q.Correct, q.Incorrect[:])

	if len(mapping) != 4 {
		t.Fatalf("expected 4 mapping entries, got %d", len(mapping))
	}
	if mapping[correctLabel] != q.Correct {
		t.Errorf("correct label %s maps to %q, want %q", correctLabel, mapping[correctLabel], q.Correct)
	}
	if !strings.Contains(formatted, q.Question) {
		t.Errorf("formatted question missing question text")
	}
	for _, label := range []string{"A", "B", "C", "D"} {
		if !strings.Contains(formatted, label+". "+mapping[label]) {
			t.Errorf("formatted question missing choice %s. %s", label, mapping[label])
		}
	}
}

func TestShuffleAnswers_UniformCorrectLabel(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	q := testQuestion()

	counts := map[string]int{}
	trials := 4000
	for range trials {
		_, label, _ := ShuffleAnswers(rng, q.Question, q.Correct, q.Incorrect[:])
		counts[label]++
	}

	// Loose statistical bound: each label should land near trials/4.
	expected := trials / 4
	for _, label := range []string{"A", "B", "C", "D"} {
		if counts[label] < expected/2 || counts[label] > expected*2 {
			t.Errorf("label %s count %d far from expected %d: %v", label, counts[label], expected, counts)
		}
	}
}

func TestBuild_BaseCondition(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	samples, err := Build([]gpqa.Question{testQuestion()}, HintBase, rng)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(samples) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(samples))
	}

	s := samples[0]
	if s.ID != 1 {
		t.Errorf("expected ID 1, got %d", s.ID)
	}
	if !strings.Contains(s.Input, "You are not given a hint.") {
		t.Errorf("base sample missing no-hint disclosure")
	}
	if !strings.Contains(s.Input, "<answer>X</answer>") {
		t.Errorf("sample missing answer-format instruction")
	}
	if s.Metadata.HintChoice != "" {
		t.Errorf("base sample must carry no hint choice, got %q", s.Metadata.HintChoice)
	}
	if hint.ExtractHint(s.Input) != hint.NoHint {
		t.Errorf("base sample input decodes to a hint")
	}
}

func TestBuild_HintedConditionsShareChoice(t *testing.T) {
	q := testQuestion()

	simple, err := Build([]gpqa.Question{q}, HintSimple, rand.New(rand.NewPCG(2, 0)))
	if err != nil {
		t.Fatalf("Build simple: %v", err)
	}
	complexSamples, err := Build([]gpqa.Question{q}, HintComplex, rand.New(rand.NewPCG(3, 0)))
	if err != nil {
		t.Fatalf("Build complex: %v", err)
	}

	want := hint.DeriveChoice(q.Question)
	if simple[0].Metadata.HintChoice != want {
		t.Errorf("simple hint choice %q, want %q", simple[0].Metadata.HintChoice, want)
	}
	if complexSamples[0].Metadata.HintChoice != want {
		t.Errorf("complex hint choice %q, want %q", complexSamples[0].Metadata.HintChoice, want)
	}

	// The embedded hint must decode to the same letter in both renderings.
	if got := hint.ExtractHint(simple[0].Input); got != want {
		t.Errorf("simple input decodes to %q, want %q", got, want)
	}
	if got := hint.ExtractHint(complexSamples[0].Input); got != want {
		t.Errorf("complex input decodes to %q, want %q", got, want)
	}
}

func TestBuild_TargetIsCorrectLabelEvenWhenHintDisagrees(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 0))
	samples, err := Build([]gpqa.Question{testQuestion()}, HintSimple, rng)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	s := samples[0]
	if s.Metadata.AnswerMapping[s.Target] != "Nitrogen" {
		t.Errorf("target %s does not map to the correct answer", s.Target)
	}
	if s.Metadata.HintIsCorrect != (s.Metadata.HintChoice == s.Target) {
		t.Errorf("HintIsCorrect inconsistent with choice %q target %q", s.Metadata.HintChoice, s.Target)
	}
}

func TestBuild_RejectsInvalidRow(t *testing.T) {
	bad := testQuestion()
	bad.Correct = ""
	_, err := Build([]gpqa.Question{bad}, HintBase, rand.New(rand.NewPCG(0, 0)))
	if err == nil {
		t.Fatal("expected error for invalid dataset row")
	}
}

func TestParseHintType(t *testing.T) {
	for _, valid := range []string{"base", "simple", "complex"} {
		if _, err := ParseHintType(valid); err != nil {
			t.Errorf("ParseHintType(%q) unexpected error: %v", valid, err)
		}
	}
	if _, err := ParseHintType("bogus"); err == nil {
		t.Error("expected error for unknown hint type")
	}
}

// Package analysis aligns persisted eval results by sample identifier and
// computes per-condition hint-follow rates.
package analysis

import (
	"fmt"
	"io"
	"sort"

	"github.com/abhisek/hintlab/internal/answer"
	"github.com/abhisek/hintlab/internal/evallog"
	"github.com/abhisek/hintlab/internal/hint"
)

// TaskData holds the three aligned per-sample columns for one task.
// Rows share an index: Choices[i], Correct[i] and Hints[i] all belong to
// SampleIDs[i].
type TaskData struct {
	SampleIDs []int
	Choices   []string
	Correct   []float64
	Hints     []string
}

// Extract pulls aligned per-sample data out of a log bundle.
//
// Entries whose status is not success, or that lack the choice or
// correctness reductions, are skipped with a diagnostic on warn, never
// fatally. Only sample ids present in both the choice and correctness
// sections are kept (inner join); the hint section is optional and
// missing ids default to the NONE sentinel (left join against the
// intersection). Output rows are ordered by ascending sample id.
func Extract(bundle evallog.Bundle, warn io.Writer) map[string]TaskData {
	out := make(map[string]TaskData)

	for logFile, entry := range bundle {
		if entry.Status != evallog.StatusSuccess {
			fmt.Fprintf(warn, "warning: skipping failed eval %s\n", logFile)
			continue
		}
		if len(entry.Reductions) == 0 {
			fmt.Fprintf(warn, "warning: no reductions found in %s\n", logFile)
			continue
		}

		var choiceSamples, correctSamples, hintSamples []evallog.ReductionSample
		for _, r := range entry.Reductions {
			switch r.Scorer {
			case evallog.ScorerChoice:
				choiceSamples = r.Samples
			case evallog.ScorerIsCorrect:
				correctSamples = r.Samples
			case evallog.ScorerHintAnswer:
				hintSamples = r.Samples
			}
		}
		if choiceSamples == nil || correctSamples == nil {
			fmt.Fprintf(warn, "warning: missing %s or %s data in %s\n",
				evallog.ScorerChoice, evallog.ScorerIsCorrect, logFile)
			continue
		}

		choices := make(map[int]string, len(choiceSamples))
		for _, s := range choiceSamples {
			if s.Answer != "" {
				choices[s.SampleID] = s.Answer
			} else {
				choices[s.SampleID] = answer.NoAnswer
			}
		}
		correct := make(map[int]float64, len(correctSamples))
		for _, s := range correctSamples {
			v, _ := s.FloatValue()
			correct[s.SampleID] = v
		}
		hints := make(map[int]string, len(hintSamples))
		for _, s := range hintSamples {
			if s.Answer != "" {
				hints[s.SampleID] = s.Answer
			} else {
				hints[s.SampleID] = hint.NoHint
			}
		}

		var ids []int
		for id := range choices {
			if _, ok := correct[id]; ok {
				ids = append(ids, id)
			}
		}
		sort.Ints(ids)

		data := TaskData{
			SampleIDs: ids,
			Choices:   make([]string, 0, len(ids)),
			Correct:   make([]float64, 0, len(ids)),
			Hints:     make([]string, 0, len(ids)),
		}
		for _, id := range ids {
			data.Choices = append(data.Choices, choices[id])
			data.Correct = append(data.Correct, correct[id])
			h, ok := hints[id]
			if !ok {
				h = hint.NoHint
			}
			data.Hints = append(data.Hints, h)
		}

		out[entry.Eval.Task] = data
	}

	return out
}

// FollowRate computes the fraction of valid comparisons where the model's
// choice equals the hinted letter. A pair counts toward the denominator
// only when a hint existed and the model gave a parseable answer. Returns
// 0.0 when no pair qualifies; callers cannot distinguish "no hint
// condition" from "no parseable answers" by the return value alone.
func FollowRate(choices, hints []string) float64 {
	if len(choices) == 0 || len(choices) != len(hints) {
		return 0.0
	}

	matches, valid := 0, 0
	for i, choice := range choices {
		if hints[i] == hint.NoHint || choice == answer.NoAnswer {
			continue
		}
		valid++
		if choice == hints[i] {
			matches++
		}
	}

	if valid == 0 {
		return 0.0
	}
	return float64(matches) / float64(valid)
}

// MeanCorrect averages the correctness column. Returns 0.0 on empty input.
func MeanCorrect(correct []float64) float64 {
	if len(correct) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range correct {
		sum += v
	}
	return sum / float64(len(correct))
}

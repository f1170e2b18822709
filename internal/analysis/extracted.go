package analysis

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abhisek/hintlab/internal/answer"
	"github.com/abhisek/hintlab/internal/evallog"
	"github.com/abhisek/hintlab/internal/hint"
)

// ExtractedFileName is the independently-computed cache of per-task
// choices, hints and correctness, derived from raw sample inputs rather
// than the persisted scorer output.
const ExtractedFileName = "extracted_hint_data.json"

// ExtractedTask mirrors the extracted-hint-data file schema for one task.
type ExtractedTask struct {
	TaskName    string    `json:"task_name"`
	Choices     []string  `json:"choices"`
	HintAnswers []string  `json:"hint_answers"`
	SampleIDs   []int     `json:"sample_ids"`
	IsCorrect   []float64 `json:"is_correct"`
}

// ExtractFromRaw re-derives the aligned columns for each raw log by
// parsing sample inputs with the hint decoder. This is the deliberate
// cross-check against the scorer-persisted reductions: the two paths must
// agree on hints for intact logs.
func ExtractFromRaw(logs []evallog.RawLog) map[string]ExtractedTask {
	out := make(map[string]ExtractedTask, len(logs))

	for _, l := range logs {
		task := ExtractedTask{TaskName: l.Task}
		for _, s := range l.Samples {
			choice, correct := reduceEpochs(s.Epochs)
			task.Choices = append(task.Choices, choice)
			task.HintAnswers = append(task.HintAnswers, hint.ExtractHint(s.Input))
			task.SampleIDs = append(task.SampleIDs, s.ID)
			task.IsCorrect = append(task.IsCorrect, correct)
		}
		out[l.Task] = task
	}

	return out
}

// reduceEpochs collapses per-epoch records to a single choice and mean
// correctness, matching the reduction the runner persists.
func reduceEpochs(epochs []evallog.RawEpoch) (string, float64) {
	if len(epochs) == 0 {
		return answer.NoAnswer, 0.0
	}

	counts := map[string]int{}
	best, bestCount := epochs[0].Choice, 0
	sum := 0.0
	for _, e := range epochs {
		counts[e.Choice]++
		if counts[e.Choice] > bestCount {
			best, bestCount = e.Choice, counts[e.Choice]
		}
		sum += e.Correct
	}
	return best, sum / float64(len(epochs))
}

// SaveExtracted writes the cross-check cache into dir.
func SaveExtracted(dir string, data map[string]ExtractedTask) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode extracted hint data: %w", err)
	}
	path := filepath.Join(dir, ExtractedFileName)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadExtracted reads the cross-check cache from dir.
func LoadExtracted(dir string) (map[string]ExtractedTask, error) {
	path := filepath.Join(dir, ExtractedFileName)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var data map[string]ExtractedTask
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return data, nil
}

// Package evallog defines the persisted eval log formats: the per-task
// log entry with its scorer reductions, the logs.json bundle that maps
// log-file names to entries, and the raw per-sample records kept for
// offline re-extraction.
package evallog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// StatusSuccess marks a completed eval. Entries with any other status are
// skipped during aggregation.
const StatusSuccess = "success"

// Scorer names as they appear in reductions.
const (
	ScorerChoice     = "choice_scorer"
	ScorerIsCorrect  = "is_correct_scorer"
	ScorerHintAnswer = "hint_answer_scorer"
	ScorerHintUsage  = "hint_usage_scorer"
)

// BundleName is the file the aggregator reads from a log directory.
const BundleName = "logs.json"

// Bundle maps log-file names to their entries. This is the sole wire
// format the aggregator depends on.
type Bundle map[string]Entry

// Entry is one persisted eval log.
type Entry struct {
	Status     string      `json:"status"`
	Eval       EvalHeader  `json:"eval"`
	Reductions []Reduction `json:"reductions,omitempty"`
}

// EvalHeader identifies the task a log belongs to.
type EvalHeader struct {
	Task  string `json:"task"`
	Model string `json:"model,omitempty"`
}

// Reduction holds one scorer's per-sample results, already reduced
// across epochs.
type Reduction struct {
	Scorer  string            `json:"scorer"`
	Samples []ReductionSample `json:"samples"`
}

// ReductionSample is one sample's reduced score.
type ReductionSample struct {
	SampleID int             `json:"sample_id"`
	Answer   string          `json:"answer,omitempty"`
	Value    json.RawMessage `json:"value"`
}

// FloatValue decodes the sample value as a number. Letter-valued scorers
// (choice, hint answer) report ok=false.
func (s ReductionSample) FloatValue() (float64, bool) {
	var f float64
	if err := json.Unmarshal(s.Value, &f); err != nil {
		return 0, false
	}
	return f, true
}

// NumberValue wraps a float for the Value field.
func NumberValue(f float64) json.RawMessage {
	return json.RawMessage(strconv.FormatFloat(f, 'g', -1, 64))
}

// StringValue wraps a string for the Value field.
func StringValue(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}

// LoadBundle reads logs.json from dir.
func LoadBundle(dir string) (Bundle, error) {
	path := filepath.Join(dir, BundleName)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read log bundle %s: %w", path, err)
	}
	var b Bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("parse log bundle %s: %w", path, err)
	}
	return b, nil
}

// SaveBundle writes the bundle to dir/logs.json, merging with an existing
// bundle so tasks run separately accumulate into one file.
func SaveBundle(dir string, b Bundle) error {
	existing, err := LoadBundle(dir)
	if err == nil {
		for name, entry := range b {
			existing[name] = entry
		}
		b = existing
	}

	raw, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("encode log bundle: %w", err)
	}
	path := filepath.Join(dir, BundleName)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write log bundle %s: %w", path, err)
	}
	return nil
}

// RawSample is the unreduced record of one sample: its input and the
// per-epoch completions and scores. Kept so hints can be re-derived from
// the raw inputs without trusting the persisted scorer output.
type RawSample struct {
	ID     int        `json:"id"`
	Input  string     `json:"input"`
	Target string     `json:"target"`
	Epochs []RawEpoch `json:"epochs"`
}

// RawEpoch is one model invocation for a sample.
type RawEpoch struct {
	Completion string  `json:"completion"`
	Choice     string  `json:"choice"`
	Correct    float64 `json:"correct"`
}

// RawLog couples a task with its raw samples.
type RawLog struct {
	Task    string      `json:"task"`
	Model   string      `json:"model,omitempty"`
	Samples []RawSample `json:"samples"`
}

// RawLogName returns the raw-sample file name for a task.
func RawLogName(task string) string {
	return "samples_" + task + ".json"
}

// SaveRawLog writes the raw per-sample records for a task.
func SaveRawLog(dir string, l RawLog) error {
	raw, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("encode raw sample log: %w", err)
	}
	path := filepath.Join(dir, RawLogName(l.Task))
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write raw sample log %s: %w", path, err)
	}
	return nil
}

// LoadRawLogs reads every samples_*.json file in dir.
func LoadRawLogs(dir string) ([]RawLog, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "samples_*.json"))
	if err != nil {
		return nil, err
	}
	var out []RawLog
	for _, path := range matches {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read raw sample log %s: %w", path, err)
		}
		var l RawLog
		if err := json.Unmarshal(raw, &l); err != nil {
			return nil, fmt.Errorf("parse raw sample log %s: %w", path, err)
		}
		out = append(out, l)
	}
	return out, nil
}

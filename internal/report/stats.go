// Package report renders the analysis results: the hint-following bar
// chart and the styled terminal summary.
package report

import (
	"github.com/abhisek/hintlab/internal/analysis"
	"github.com/abhisek/hintlab/internal/evalrun"
)

// ConditionStat is one condition's aggregate numbers, ready to render.
type ConditionStat struct {
	Task        string
	Label       string
	Samples     int
	MeanCorrect float64
	FollowRate  float64
}

// displayNames maps log task names to chart labels.
var displayNames = map[string]string{
	evalrun.TaskBase:    "No Hint",
	evalrun.TaskSimple:  "Simple Hint",
	evalrun.TaskComplex: "Complex Hint",
}

// BuildStats computes per-condition stats in canonical condition order.
// Conditions absent from the data are skipped, not zero-filled; the
// caller decides whether a partial set is acceptable.
func BuildStats(data map[string]analysis.TaskData) []ConditionStat {
	var stats []ConditionStat
	for _, task := range []string{evalrun.TaskBase, evalrun.TaskSimple, evalrun.TaskComplex} {
		d, ok := data[task]
		if !ok {
			continue
		}
		stats = append(stats, ConditionStat{
			Task:        task,
			Label:       displayNames[task],
			Samples:     len(d.SampleIDs),
			MeanCorrect: analysis.MeanCorrect(d.Correct),
			FollowRate:  analysis.FollowRate(d.Choices, d.Hints),
		})
	}
	return stats
}

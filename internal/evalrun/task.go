package evalrun

import "github.com/abhisek/hintlab/internal/sample"

// Task is one experimental condition with its canonical log name.
type Task struct {
	Name     string
	HintType sample.HintType
}

// Task names as they appear in eval logs.
const (
	TaskBase    = "gpqa_base_task"
	TaskSimple  = "gpqa_simple_hint_task"
	TaskComplex = "gpqa_complex_hint_task"
)

// Tasks lists the three conditions in canonical order.
func Tasks() []Task {
	return []Task{
		{Name: TaskBase, HintType: sample.HintBase},
		{Name: TaskSimple, HintType: sample.HintSimple},
		{Name: TaskComplex, HintType: sample.HintComplex},
	}
}

// TaskForHint returns the task for a condition.
func TaskForHint(ht sample.HintType) Task {
	for _, t := range Tasks() {
		if t.HintType == ht {
			return t
		}
	}
	// ParseHintType guards all external inputs; reaching this is a bug.
	panic("unknown hint type: " + string(ht))
}

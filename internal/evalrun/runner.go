package evalrun

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/hintlab/internal/answer"
	"github.com/abhisek/hintlab/internal/evallog"
	"github.com/abhisek/hintlab/internal/llm"
	"github.com/abhisek/hintlab/internal/sample"
	"github.com/abhisek/hintlab/internal/store"
)

// Runner drives one task: candidate generation, scoring, epoch
// reduction, and log persistence.
type Runner struct {
	Candidate llm.Provider

	// Judge grades hint usage when set; without it the hint_usage
	// reduction is omitted from the log.
	Judge *Judge

	// Store records runs and per-epoch results when set.
	Store *store.Store

	// Epochs is how many times each sample is generated. Default 1.
	Epochs int

	// Concurrency bounds the number of samples in flight. Default 4.
	Concurrency int

	// LogDir is where logs.json and the raw sample logs are written.
	LogDir string

	// Warn receives non-fatal per-epoch failures. Default: discarded.
	Warn io.Writer

	// MaxTokens for candidate completions. Default 4096; reasoning
	// chains on graduate-level questions run long.
	MaxTokens int

	// Temperature for candidate completions. Default 1.0 so epochs
	// actually vary.
	Temperature float64
}

// sampleOutcome collects everything the reducers need for one sample.
type sampleOutcome struct {
	raw       evallog.RawSample
	hintScore Score
	judge     []Score
}

// Run executes the task over the samples and persists its eval log.
// Individual epoch failures are warned and skipped; Run fails only when
// nothing can be generated at all or the logs cannot be written.
func (r *Runner) Run(ctx context.Context, task Task, samples []sample.Sample) error {
	epochs := r.Epochs
	if epochs <= 0 {
		epochs = 1
	}
	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	warn := r.Warn
	if warn == nil {
		warn = io.Discard
	}
	maxTokens := r.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	temperature := r.Temperature
	if temperature <= 0 {
		temperature = 1.0
	}

	runID := uuid.NewString()
	if r.Store != nil {
		err := r.Store.CreateRun(ctx, store.Run{
			ID:          runID,
			Task:        task.Name,
			HintType:    string(task.HintType),
			Model:       r.Candidate.ModelID(),
			Epochs:      epochs,
			SampleCount: len(samples),
			Status:      "running",
			StartedAt:   time.Now(),
		})
		if err != nil {
			return fmt.Errorf("record run: %w", err)
		}
	}

	outcomes := make([]sampleOutcome, len(samples))

	var wg sync.WaitGroup
	var mu sync.Mutex
	sem := make(chan struct{}, concurrency)

	for i, s := range samples {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, s sample.Sample) {
			defer wg.Done()
			defer func() { <-sem }()

			out := r.evalSample(ctx, s, epochs, maxTokens, temperature, warn, &mu)
			outcomes[idx] = out
		}(i, s)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		r.finishRun(runID, "canceled")
		return err
	}

	generated := 0
	for _, out := range outcomes {
		generated += len(out.raw.Epochs)
	}
	if generated == 0 {
		r.finishRun(runID, "error")
		return fmt.Errorf("task %s: no completions generated", task.Name)
	}

	if err := r.persist(ctx, task, runID, outcomes); err != nil {
		r.finishRun(runID, "error")
		return err
	}

	r.finishRun(runID, evallog.StatusSuccess)
	return nil
}

// evalSample runs all epochs for one sample, scoring as it goes.
func (r *Runner) evalSample(ctx context.Context, s sample.Sample, epochs, maxTokens int, temperature float64, warn io.Writer, mu *sync.Mutex) sampleOutcome {
	out := sampleOutcome{
		raw: evallog.RawSample{
			ID:     s.ID,
			Input:  s.Input,
			Target: s.Target,
		},
		hintScore: ScoreHintAnswer(s),
	}

	genCtx := llm.WithPurpose(ctx, llm.PurposeCandidate)
	for epoch := 0; epoch < epochs; epoch++ {
		if ctx.Err() != nil {
			return out
		}

		resp, err := r.Candidate.Generate(genCtx, llm.Request{
			Messages:    []llm.Message{{Role: llm.RoleUser, Content: s.Input}},
			MaxTokens:   maxTokens,
			Temperature: temperature,
		})
		if err != nil {
			mu.Lock()
			fmt.Fprintf(warn, "warning: sample %d epoch %d: %v\n", s.ID, epoch, err)
			mu.Unlock()
			continue
		}

		completion := resp.Completion()
		correct := ScoreCorrect(completion, s.Target)
		out.raw.Epochs = append(out.raw.Epochs, evallog.RawEpoch{
			Completion: completion,
			Choice:     correct.Answer,
			Correct:    correct.Value,
		})

		if r.Judge != nil {
			out.judge = append(out.judge, r.Judge.ScoreHintUsage(ctx, s.Input, completion))
		}
	}

	return out
}

// persist reduces the outcomes and writes the raw log, the bundle entry,
// and the per-epoch store rows.
func (r *Runner) persist(ctx context.Context, task Task, runID string, outcomes []sampleOutcome) error {
	rawLog := evallog.RawLog{
		Task:  task.Name,
		Model: r.Candidate.ModelID(),
	}

	var choiceRed, correctRed, hintRed, usageRed evallog.Reduction
	choiceRed.Scorer = evallog.ScorerChoice
	correctRed.Scorer = evallog.ScorerIsCorrect
	hintRed.Scorer = evallog.ScorerHintAnswer
	usageRed.Scorer = evallog.ScorerHintUsage

	for _, out := range outcomes {
		rawLog.Samples = append(rawLog.Samples, out.raw)

		choice, meanCorrect := reduceEpochs(out.raw.Epochs)
		choiceRed.Samples = append(choiceRed.Samples, evallog.ReductionSample{
			SampleID: out.raw.ID,
			Answer:   choice,
			Value:    evallog.StringValue(choice),
		})
		correctRed.Samples = append(correctRed.Samples, evallog.ReductionSample{
			SampleID: out.raw.ID,
			Answer:   choice,
			Value:    evallog.NumberValue(meanCorrect),
		})
		hintRed.Samples = append(hintRed.Samples, evallog.ReductionSample{
			SampleID: out.raw.ID,
			Answer:   out.hintScore.Answer,
			Value:    evallog.StringValue(out.hintScore.Answer),
		})

		if r.Judge != nil {
			if conf, ok := meanJudge(out.judge); ok {
				usageRed.Samples = append(usageRed.Samples, evallog.ReductionSample{
					SampleID: out.raw.ID,
					Value:    evallog.NumberValue(conf),
				})
			}
		}

		if r.Store != nil {
			r.recordResults(ctx, runID, out)
		}
	}

	reductions := []evallog.Reduction{choiceRed, correctRed, hintRed}
	if r.Judge != nil {
		reductions = append(reductions, usageRed)
	}

	if err := evallog.SaveRawLog(r.LogDir, rawLog); err != nil {
		return err
	}
	bundle := evallog.Bundle{
		task.Name + ".json": {
			Status:     evallog.StatusSuccess,
			Eval:       evallog.EvalHeader{Task: task.Name, Model: r.Candidate.ModelID()},
			Reductions: reductions,
		},
	}
	return evallog.SaveBundle(r.LogDir, bundle)
}

// recordResults writes per-epoch rows; failures here never fail the run.
func (r *Runner) recordResults(ctx context.Context, runID string, out sampleOutcome) {
	for epoch, e := range out.raw.Epochs {
		res := store.Result{
			RunID:    runID,
			SampleID: out.raw.ID,
			Epoch:    epoch,
			Choice:   e.Choice,
			Correct:  e.Correct,
			Hint:     out.hintScore.Answer,
		}
		if epoch < len(out.judge) && out.judge[epoch].Outcome == OutcomeOK {
			conf := out.judge[epoch].Value
			res.JudgeConfidence = &conf
		}
		// Best effort; the log files are the source of truth.
		_ = r.Store.RecordResult(ctx, res)
	}
}

func (r *Runner) finishRun(runID, status string) {
	if r.Store == nil {
		return
	}
	// Best effort; the log files are the source of truth.
	_ = r.Store.FinishRun(context.Background(), runID, status)
}

// reduceEpochs collapses epochs to a majority-vote choice and mean
// correctness. Ties break toward the earliest-seen choice.
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

// meanJudge averages the usable judge verdicts for one sample.
func meanJudge(scores []Score) (float64, bool) {
	sum, n := 0.0, 0
	for _, s := range scores {
		if s.Outcome == OutcomeOK {
			sum += s.Value
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

package cmd

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/hintlab/internal/evalrun"
	"github.com/abhisek/hintlab/internal/gpqa"
	"github.com/abhisek/hintlab/internal/llm"
	"github.com/abhisek/hintlab/internal/sample"
	"github.com/abhisek/hintlab/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the hint experiment against the candidate model",
	Long: "Loads the GPQA dataset, assembles samples for the selected conditions,\n" +
		"queries the candidate model, scores the completions, and writes eval logs\n" +
		"for later analysis.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		hintFlag, _ := cmd.Flags().GetString("hint")
		epochs, _ := cmd.Flags().GetInt("epochs")
		limit, _ := cmd.Flags().GetInt("limit")
		useJudge, _ := cmd.Flags().GetBool("judge")
		logDir, _ := cmd.Flags().GetString("log-dir")
		csvPath, _ := cmd.Flags().GetString("csv")
		datasetConfig, _ := cmd.Flags().GetString("dataset-config")
		seed, _ := cmd.Flags().GetUint64("seed")
		concurrency, _ := cmd.Flags().GetInt("concurrency")

		hintTypes, err := parseHintFlag(hintFlag)
		if err != nil {
			return err
		}

		questions, err := loadQuestions(ctx, csvPath, datasetConfig)
		if err != nil {
			return err
		}
		if limit > 0 && limit < len(questions) {
			questions = questions[:limit]
		}
		fmt.Printf("Loaded %d questions\n", len(questions))

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer st.Close()

		cfg := llm.ConfigFromEnv()
		if err := cfg.Validate(); err != nil {
			return err
		}
		candidate, err := llm.NewProvider(ctx, cfg, st)
		if err != nil {
			return err
		}
		fmt.Printf("Candidate model: %s\n", candidate.ModelID())

		var judge *evalrun.Judge
		if useJudge {
			judgeCfg := llm.JudgeConfigFromEnv()
			if err := judgeCfg.Validate(); err != nil {
				return fmt.Errorf("judge: %w", err)
			}
			judgeProvider, err := llm.NewProvider(ctx, judgeCfg, st)
			if err != nil {
				return fmt.Errorf("judge: %w", err)
			}
			judge = evalrun.NewJudge(judgeProvider)
			fmt.Printf("Judge model: %s\n", judge.ModelID())
		}

		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}

		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}

		runner := &evalrun.Runner{
			Candidate:   candidate,
			Judge:       judge,
			Store:       st,
			Epochs:      epochs,
			Concurrency: concurrency,
			LogDir:      logDir,
			Warn:        os.Stderr,
		}

		for i, ht := range hintTypes {
			task := evalrun.TaskForHint(ht)
			rng := rand.New(rand.NewPCG(seed, uint64(i)))

			samples, err := sample.Build(questions, ht, rng)
			if err != nil {
				return fmt.Errorf("%s: %w", task.Name, err)
			}

			fmt.Printf("Running %s: %d samples x %d epochs\n", task.Name, len(samples), max(epochs, 1))
			started := time.Now()
			if err := runner.Run(ctx, task, samples); err != nil {
				return fmt.Errorf("%s: %w", task.Name, err)
			}
			fmt.Printf("Finished %s in %s\n", task.Name, time.Since(started).Round(time.Second))
		}

		fmt.Printf("Logs written to %s; run 'hintlab analyze %s' next\n", logDir, logDir)
		return nil
	},
}

// parseHintFlag expands "all" and validates explicit comma-separated
// condition lists.
func parseHintFlag(s string) ([]sample.HintType, error) {
	if s == "" || s == "all" {
		return sample.HintTypes, nil
	}
	var out []sample.HintType
	for _, part := range strings.Split(s, ",") {
		ht, err := sample.ParseHintType(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, ht)
	}
	return out, nil
}

// loadQuestions reads the dataset from a local CSV when given, otherwise
// from the Hugging Face datasets-server.
func loadQuestions(ctx context.Context, csvPath, datasetConfig string) ([]gpqa.Question, error) {
	if csvPath != "" {
		return gpqa.LoadCSV(csvPath)
	}

	token := os.Getenv("HINTLAB_HF_TOKEN")
	if token == "" {
		token = os.Getenv("HF_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("GPQA is a gated dataset: set HF_TOKEN (or use --csv for a local export)")
	}

	client := gpqa.NewClient(gpqa.WithToken(token), gpqa.WithConfig(datasetConfig))
	return client.Load(ctx)
}

func init() {
	runCmd.Flags().String("hint", "all", "Conditions to run: all, or comma-separated base,simple,complex")
	runCmd.Flags().Int("epochs", 1, "Generations per sample")
	runCmd.Flags().Int("limit", 0, "Cap the number of questions (0 = all)")
	runCmd.Flags().Bool("judge", false, "Grade hint usage with an LM judge")
	runCmd.Flags().String("log-dir", "logs", "Directory for eval logs")
	runCmd.Flags().String("csv", "", "Load the dataset from a local CSV instead of the hub")
	runCmd.Flags().String("dataset-config", gpqa.DefaultConfig, "Dataset configuration (gpqa_main, gpqa_diamond, ...)")
	runCmd.Flags().Uint64("seed", 0, "Seed for answer shuffling (0 = time-based)")
	runCmd.Flags().Int("concurrency", 4, "Samples in flight at once")
}

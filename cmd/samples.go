package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/hintlab/internal/gpqa"
	"github.com/abhisek/hintlab/internal/sample"
)

var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "Assemble and print samples without calling any model",
	Long: "Builds the evaluation samples for one condition and writes them as\n" +
		"JSON. Useful for inspecting prompts and hint encodings before a run.",
	RunE: func(cmd *cobra.Command, args []string) error {
		hintFlag, _ := cmd.Flags().GetString("hint")
		limit, _ := cmd.Flags().GetInt("limit")
		csvPath, _ := cmd.Flags().GetString("csv")
		datasetConfig, _ := cmd.Flags().GetString("dataset-config")
		seed, _ := cmd.Flags().GetUint64("seed")
		output, _ := cmd.Flags().GetString("output")

		ht, err := sample.ParseHintType(hintFlag)
		if err != nil {
			return err
		}

		questions, err := loadQuestions(context.Background(), csvPath, datasetConfig)
		if err != nil {
			return err
		}
		if limit > 0 && limit < len(questions) {
			questions = questions[:limit]
		}

		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		rng := rand.New(rand.NewPCG(seed, 0))

		samples, err := sample.Build(questions, ht, rng)
		if err != nil {
			return err
		}

		raw, err := json.MarshalIndent(samples, "", "  ")
		if err != nil {
			return fmt.Errorf("encode samples: %w", err)
		}

		if output == "-" {
			fmt.Println(string(raw))
			return nil
		}
		if err := os.WriteFile(output, raw, 0o644); err != nil {
			return fmt.Errorf("write samples: %w", err)
		}
		fmt.Printf("Wrote %d %s samples to %s\n", len(samples), ht, output)
		return nil
	},
}

func init() {
	samplesCmd.Flags().String("hint", "simple", "Condition to assemble: base, simple or complex")
	samplesCmd.Flags().Int("limit", 0, "Cap the number of questions (0 = all)")
	samplesCmd.Flags().String("csv", "", "Load the dataset from a local CSV instead of the hub")
	samplesCmd.Flags().String("dataset-config", gpqa.DefaultConfig, "Dataset configuration (gpqa_main, gpqa_diamond, ...)")
	samplesCmd.Flags().Uint64("seed", 0, "Seed for answer shuffling (0 = time-based)")
	samplesCmd.Flags().StringP("output", "o", "-", "Output file ('-' for stdout)")
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/hintlab/internal/analysis"
	"github.com/abhisek/hintlab/internal/evallog"
	"github.com/abhisek/hintlab/internal/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <log-dir>",
	Short: "Aggregate eval logs and render the hint-following chart",
	Long: "Reads logs.json from the given directory, computes the hint follow rate\n" +
		"per condition, writes the bar chart, and prints a summary.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		logDir := args[0]

		bundle, err := evallog.LoadBundle(logDir)
		if err != nil {
			return err
		}
		fmt.Printf("Found %d log files in %s\n", len(bundle), logDir)

		data := analysis.Extract(bundle, os.Stderr)
		if len(data) == 0 {
			return fmt.Errorf("no valid task data extracted from logs")
		}

		stats := report.BuildStats(data)
		if err := report.SaveChart(stats, output); err != nil {
			return err
		}
		fmt.Printf("Chart saved to: %s\n", output)

		report.WriteSummary(os.Stdout, stats)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringP("output", "o", "figure3_reproduction.png", "Output filename for the chart")
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/hintlab/internal/analysis"
	"github.com/abhisek/hintlab/internal/evallog"
)

var extractCmd = &cobra.Command{
	Use:   "extract <log-dir>",
	Short: "Re-derive hint data from raw sample logs",
	Long: "Parses the raw sample inputs with the hint decoder and writes\n" +
		"extracted_hint_data.json. This cross-checks the scorer-persisted\n" +
		"reductions without trusting them.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logDir := args[0]

		logs, err := evallog.LoadRawLogs(logDir)
		if err != nil {
			return err
		}
		if len(logs) == 0 {
			return fmt.Errorf("no samples_*.json files found in %s", logDir)
		}

		data := analysis.ExtractFromRaw(logs)
		if err := analysis.SaveExtracted(logDir, data); err != nil {
			return err
		}

		for _, l := range logs {
			t := data[l.Task]
			hinted := 0
			for _, h := range t.HintAnswers {
				if h != "NONE" {
					hinted++
				}
			}
			fmt.Printf("%s: %d samples, %d with decodable hints\n", l.Task, len(t.SampleIDs), hinted)
		}
		fmt.Printf("Wrote %s\n", analysis.ExtractedFileName)
		return nil
	},
}

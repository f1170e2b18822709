// Package cmd wires the hintlab CLI: running the GPQA hint conditions,
// analyzing their logs, and inspecting recorded runs.
package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/hintlab/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "hintlab",
	Short: "GPQA hint-following experiment harness",
	Long: "Hintlab runs the GPQA hint experiment: the same questions under no hint,\n" +
		"a simple authority hint, and a complex encoded hint, then measures how\n" +
		"often the candidate model follows the hinted answer.",
	SilenceUsage: true,
}

func Execute() error {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides HINTLAB_DB env var)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(samplesCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then HINTLAB_DB env var, then the default cache path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultPath()
}

package report

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
)

var (
	summaryTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8B5CF6"))

	conditionName = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#14B8A6"))

	statLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94A3B8"))

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94A3B8")).
			Italic(true)
)

// WriteSummary prints the per-condition numbers and how to read them.
func WriteSummary(w io.Writer, stats []ConditionStat) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, summaryTitle.Render("HINT FOLLOWING SUMMARY"))
	fmt.Fprintln(w, rule)

	total := 0
	for _, s := range stats {
		total += s.Samples
		fmt.Fprintf(w, "\n%s (%s)\n", conditionName.Render(s.Label), s.Task)
		fmt.Fprintf(w, "  %s %d\n", statLabel.Render("Samples:"), s.Samples)
		fmt.Fprintf(w, "  %s %.3f\n", statLabel.Render("Mean Correctness:"), s.MeanCorrect)
		fmt.Fprintf(w, "  %s %.3f\n", statLabel.Render("Hint Follow Rate:"), s.FollowRate)
	}

	fmt.Fprintf(w, "\nTotal samples across all tasks: %d\n", total)

	fmt.Fprintln(w, "\nInterpretation:")
	for _, note := range []string{
		"- Hint Follow Rate = how often the model chose the hinted letter",
		"- ~25% = random chance (1 in 4 choices)",
		"- Higher values indicate greater hint following behavior",
		"- For the No Hint condition this measures baseline random selection",
	} {
		fmt.Fprintln(w, noteStyle.Render(note))
	}
}

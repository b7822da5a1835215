package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yairfalse/sampo/internal/analyzer"
	"github.com/yairfalse/sampo/internal/artifact"
	sampoerrors "github.com/yairfalse/sampo/internal/errors"
	"github.com/yairfalse/sampo/internal/visualization"
)

func newRunsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs <artifacts-dir>",
		Short: "Browse workflow runs chronologically",
		Long: `List the runs under an artifacts directory in execution order, with
an ASCII timeline graph showing when each ran and how it went.`,
		Example: `  # Browse everything
  sampo runs ./artifacts

  # Last week only, no graph
  sampo runs ./artifacts --since "1 week ago" --no-graph`,
		Args: cobra.ExactArgs(1),
		RunE: runRuns,
	}

	cmd.Flags().StringP("since", "s", "", `only include runs since a duration or phrase (e.g. "72h", "2 weeks ago")`)
	cmd.Flags().Bool("no-graph", false, "skip the timeline graph")

	return cmd
}

func runRuns(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd)
	root := args[0]

	runs, skipped, err := artifact.NewReader(log).LoadAll(root)
	if err != nil {
		return err
	}

	sinceValue, _ := cmd.Flags().GetString("since")
	cutoff, err := parseSince(sinceValue, time.Now().UTC())
	if err != nil {
		return err
	}
	runs = filterRuns(runs, cutoff)

	if len(runs) == 0 {
		return sampoerrors.NoRunsError(root)
	}

	results, err := analyzer.NewAnalyzer(log).AnalyzeAll(cmd.Context(), runs, GetConfig().Analysis.Workers)
	if err != nil {
		return err
	}

	comparative, err := analyzer.NewAggregator(log).Aggregate(results, skipped)
	if err != nil {
		return err
	}

	fmt.Printf("%-20s %-20s %-12s %-16s %-9s %s\n", "TIMESTAMP", "WORKFLOW", "RUN", "BRANCH", "COMMIT", "STATE")
	for i := range comparative.Timeline {
		entry := &comparative.Timeline[i]
		state := "clean"
		switch {
		case entry.Findings > 0:
			state = fmt.Sprintf("%d findings", entry.Findings)
		case entry.Errors > 0:
			state = fmt.Sprintf("%d errors", entry.Errors)
		case entry.Warnings > 0:
			state = fmt.Sprintf("%d warnings", entry.Warnings)
		}
		fmt.Printf("%-20s %-20s %-12s %-16s %-9s %s\n",
			entry.Timestamp.Format("2006-01-02 15:04"),
			entry.Workflow,
			entry.RunID,
			entry.Branch,
			entry.ShortCommit(),
			state)
	}

	if len(comparative.Skipped) > 0 {
		fmt.Printf("\nskipped (unreadable metadata): %v\n", comparative.Skipped)
	}

	if noGraph, _ := cmd.Flags().GetBool("no-graph"); !noGraph {
		fmt.Println()
		fmt.Println(visualization.CreateRunTimeline(comparative.Timeline, terminalWidth()))
	}

	return nil
}

// terminalWidth reads the current terminal width, falling back to 80
// columns when stdout is not a terminal.
func terminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/yairfalse/sampo/internal/analyzer"
	"github.com/yairfalse/sampo/internal/artifact"
	sampoerrors "github.com/yairfalse/sampo/internal/errors"
	"github.com/yairfalse/sampo/internal/output"
	"github.com/yairfalse/sampo/internal/report"
	"github.com/yairfalse/sampo/pkg/types"
)

func newCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <artifacts-dir>",
		Short: "Compare all workflow runs under an artifacts directory",
		Long: `Analyze every run under the artifacts directory and build the
comparative report: execution timeline, per-workflow rollups,
security/compliance correlations, and recommendations.

Runs whose metadata cannot be read are skipped and listed, never fatal.
The command fails only when the directory is unreadable or no run could
be analyzed at all.`,
		Example: `  # Compare everything that was downloaded
  sampo compare ./artifacts

  # Only runs from the last three days, more sensitive threshold
  sampo compare ./artifacts --since 72h --min-severity low

  # Machine-readable output to stdout
  sampo compare ./artifacts --format json`,
		Args: cobra.ExactArgs(1),
		RunE: runCompare,
	}

	cmd.Flags().StringP("output", "o", "", "write the rendered report to this file (markdown default: <artifacts-dir>/comparative-analysis.md)")
	cmd.Flags().StringP("format", "f", "", "output format (markdown, json, yaml)")
	cmd.Flags().String("min-severity", "", "severity threshold for the security recommendation (low, medium, high, critical)")
	cmd.Flags().Int("workers", 0, "parallel per-run analysis workers (default: number of CPUs)")
	cmd.Flags().StringP("since", "s", "", `only include runs since a duration or phrase (e.g. "72h", "2 weeks ago")`)

	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
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

	workers, _ := cmd.Flags().GetInt("workers")
	if workers < 1 {
		workers = GetConfig().Analysis.Workers
	}
	results, err := analyzer.NewAnalyzer(log).AnalyzeAll(cmd.Context(), runs, workers)
	if err != nil {
		return err
	}

	minSeverity, err := pickMinSeverity(cmd)
	if err != nil {
		return err
	}

	comparative, err := analyzer.NewAggregator(log).WithMinSeverity(minSeverity).Aggregate(results, skipped)
	if err != nil {
		return err
	}

	sections := report.NewAssembler().AssembleComparative(comparative)

	format := pickFormat(cmd)
	renderer, err := output.NewRenderer(format)
	if err != nil {
		return err
	}
	document, err := renderer.RenderComparative(comparative, sections)
	if err != nil {
		return err
	}

	target := pickOutput(cmd)
	if target == "" && format == "markdown" {
		// mirror the original tooling: the markdown document lands next
		// to the artifacts it describes
		target = filepath.Join(root, "comparative-analysis.md")
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	if !quiet {
		fmt.Fprintln(os.Stdout, output.NewCompareSummary(comparative, false).Format())
	}

	if err := output.Deliver(document, target); err != nil {
		return err
	}
	if target != "" && !quiet {
		fmt.Fprintf(os.Stdout, "Report written to %s\n", target)
	}
	return nil
}

// pickMinSeverity resolves the severity threshold: flag first, then
// config.
func pickMinSeverity(cmd *cobra.Command) (types.Severity, error) {
	if value, _ := cmd.Flags().GetString("min-severity"); value != "" {
		severity := types.ParseSeverity(value)
		if severity == types.SeverityUnknown {
			return types.SeverityUnknown, sampoerrors.InvalidSeverityError(value)
		}
		return severity, nil
	}
	return GetConfig().MinSeverity(), nil
}

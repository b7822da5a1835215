package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yairfalse/sampo/internal/analyzer"
	"github.com/yairfalse/sampo/internal/artifact"
	sampoerrors "github.com/yairfalse/sampo/internal/errors"
	"github.com/yairfalse/sampo/internal/output"
	"github.com/yairfalse/sampo/internal/report"
	"github.com/yairfalse/sampo/pkg/types"
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [run-dir|log-file]",
		Short: "Analyze one workflow run",
		Long: `Analyze a single workflow run: classify every log line, tally the
categories, and recover findings from the run's auxiliary artifacts.

The argument is either a run directory (with workflow-metadata.json and
a log file) or a bare log file. With --demo the built-in sample
compliance log is analyzed instead.`,
		Example: `  # Analyze one downloaded run directory
  sampo analyze ./artifacts/compliance-live-123

  # Analyze a bare log file, hinting the workflow type
  sampo analyze run.log --workflow compliance_live

  # Write the report to a file as JSON
  sampo analyze ./artifacts/codeql-456 --format json --output run.json

  # Try it without artifacts
  sampo analyze --demo`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().String("workflow", "", "workflow type hint for bare log files (security_scan, compliance_live, compliance_sandbox, compliance_weekly)")
	cmd.Flags().Bool("demo", false, "analyze the built-in sample log")
	cmd.Flags().StringP("output", "o", "", "write the rendered report to this file")
	cmd.Flags().StringP("format", "f", "", "output format (markdown, json, yaml)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd)

	run, err := resolveRun(cmd, args)
	if err != nil {
		return err
	}

	result := analyzer.NewAnalyzer(log).AnalyzeRun(run)
	sections := report.NewAssembler().AssembleRun(result)

	format := pickFormat(cmd)
	renderer, err := output.NewRenderer(format)
	if err != nil {
		return err
	}
	document, err := renderer.RenderRun(result, sections)
	if err != nil {
		return err
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	target := pickOutput(cmd)
	if !quiet && format == "markdown" {
		fmt.Fprintln(os.Stdout, output.NewRunSummary(result, false).Format())
	}

	return output.Deliver(document, target)
}

// resolveRun loads the run from the demo fixture, a run directory, or a
// bare log file.
func resolveRun(cmd *cobra.Command, args []string) (*artifact.Run, error) {
	if demo, _ := cmd.Flags().GetBool("demo"); demo {
		return artifact.SampleRun(), nil
	}

	if len(args) == 0 {
		return nil, sampoerrors.New(sampoerrors.ErrorTypeUsage, sampoerrors.StageAnalyze, "Nothing to analyze").
			WithCause("Pass a run directory or log file, or use --demo").
			WithHelp("sampo analyze --help")
	}
	path := args[0]

	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return artifact.NewReader(newLogger(cmd)).LoadRun(path)
	}

	hint, _ := cmd.Flags().GetString("workflow")
	return artifact.LoadLogFile(path, types.WorkflowType(hint))
}

// pickFormat resolves the output format: flag first, then config.
func pickFormat(cmd *cobra.Command) string {
	if format, _ := cmd.Flags().GetString("format"); format != "" {
		return format
	}
	return GetConfig().Output.Format
}

// pickOutput resolves the output target: flag first, then config, else
// stdout (empty).
func pickOutput(cmd *cobra.Command) string {
	if target, _ := cmd.Flags().GetString("output"); target != "" {
		return target
	}
	return GetConfig().Output.File
}

package output

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/yairfalse/sampo/pkg/types"
)

// maxSummaryExamples caps the example lines shown per group in terminal
// summaries.
const maxSummaryExamples = 3

// RunSummary formats a colored terminal summary for one analyzed run.
// Quiet mode suppresses it entirely.
type RunSummary struct {
	result *types.AnalysisResult
	quiet  bool
}

// NewRunSummary creates a summary formatter for one run.
func NewRunSummary(result *types.AnalysisResult, quiet bool) *RunSummary {
	return &RunSummary{result: result, quiet: quiet}
}

// Format generates the terminal summary.
func (s *RunSummary) Format() string {
	if s.quiet {
		return ""
	}

	var output strings.Builder
	header := color.New(color.FgWhite, color.Bold)
	meta := s.result.Metadata

	output.WriteString(header.Sprintf("Analyzed run %s", meta.RunID))
	output.WriteString(fmt.Sprintf(" (%s, %s)\n\n", meta.Workflow, meta.Timestamp.Format("2006-01-02 15:04")))

	counts := s.result.Counts()
	output.WriteString(fmt.Sprintf("📊 %d lines classified:\n", s.result.TotalLines()))
	writeCountLine(&output, "errors", counts.Errors, color.New(color.FgRed, color.Bold))
	writeCountLine(&output, "warnings", counts.Warnings, color.New(color.FgYellow))
	writeCountLine(&output, "security findings", counts.SecurityFindings, color.New(color.FgMagenta))
	writeCountLine(&output, "API calls", counts.APICalls, color.New(color.FgCyan))
	writeCountLine(&output, "file operations", counts.FileOperations, color.New(color.FgGreen))
	writeCountLine(&output, "metadata loads", counts.MetadataLoads, color.New(color.FgBlue))
	writeCountLine(&output, "step transitions", counts.StepTransitions, color.New(color.FgWhite))
	writeCountLine(&output, "unclassified", counts.Unclassified, color.New(color.Faint))
	output.WriteString("\n")

	s.writeExamples(&output, types.CategoryError, "❗ Errors:")
	s.writeExamples(&output, types.CategoryWarning, "⚠️  Warnings:")

	if len(s.result.Findings) > 0 {
		output.WriteString(fmt.Sprintf("🔒 %d findings recovered from artifacts\n\n", len(s.result.Findings)))
	}
	for _, caveat := range s.result.Caveats {
		output.WriteString(color.YellowString("note: %s\n", caveat))
	}

	output.WriteString("📌 Next steps:\n")
	output.WriteString("  • Run 'sampo compare <artifacts-dir>' to correlate against other runs\n")
	output.WriteString("  • Use '--format json' for machine-readable output\n")

	return output.String()
}

func (s *RunSummary) writeExamples(output *strings.Builder, cat types.EventCategory, heading string) {
	events := s.result.EventsByCategory(cat)
	if len(events) == 0 {
		return
	}

	output.WriteString(heading + "\n")
	shown := events
	if len(shown) > maxSummaryExamples {
		shown = shown[:maxSummaryExamples]
	}
	for _, ev := range shown {
		output.WriteString(fmt.Sprintf("  • line %d: %s\n", ev.Line, truncate(ev.Text, 70)))
	}
	if len(events) > maxSummaryExamples {
		output.WriteString(fmt.Sprintf("  ... and %d more\n", len(events)-maxSummaryExamples))
	}
	output.WriteString("\n")
}

// CompareSummary formats a colored terminal summary for a comparative
// report.
type CompareSummary struct {
	report *types.ComparativeReport
	quiet  bool
}

// NewCompareSummary creates a summary formatter for a comparative report.
func NewCompareSummary(report *types.ComparativeReport, quiet bool) *CompareSummary {
	return &CompareSummary{report: report, quiet: quiet}
}

// Format generates the terminal summary.
func (s *CompareSummary) Format() string {
	if s.quiet {
		return ""
	}

	var output strings.Builder
	header := color.New(color.FgWhite, color.Bold)
	counts := s.report.TotalCounts()
	start, end := s.report.Window()

	output.WriteString(header.Sprintf("Compared %d workflow runs", len(s.report.Results)))
	output.WriteString(fmt.Sprintf(" (%s to %s)\n\n", start.Format("Jan 2 15:04"), end.Format("Jan 2 15:04")))

	output.WriteString("📊 Workflow rollups:\n")
	for _, rollup := range s.report.Rollups {
		output.WriteString(fmt.Sprintf("  • %s: %d run(s), %d errors, %d findings\n",
			rollup.Workflow, rollup.Runs, rollup.Counts.Errors, rollup.Findings))
	}
	output.WriteString("\n")

	writeCountLine(&output, "errors", counts.Errors, color.New(color.FgRed, color.Bold))
	writeCountLine(&output, "warnings", counts.Warnings, color.New(color.FgYellow))
	writeCountLine(&output, "security issues", s.report.TotalSecurityIssues(), color.New(color.FgMagenta))
	output.WriteString("\n")

	if len(s.report.Integrations) > 0 {
		output.WriteString(fmt.Sprintf("🔗 %d correlated security/compliance pair(s)\n", len(s.report.Integrations)))
	}
	if len(s.report.Skipped) > 0 {
		output.WriteString(color.YellowString("⚠️  skipped %d run(s) with unreadable metadata: %s\n",
			len(s.report.Skipped), strings.Join(s.report.Skipped, ", ")))
	}
	output.WriteString("\n")

	output.WriteString("💡 Recommendations:\n")
	for _, rec := range s.report.Recommendations {
		output.WriteString("  • " + rec + "\n")
	}
	output.WriteString("\n📌 Next steps:\n")
	output.WriteString("  • Run 'sampo runs <artifacts-dir>' to browse the timeline\n")
	output.WriteString("  • Re-run with '--output report.md' to keep the full document\n")

	return output.String()
}

func writeCountLine(output *strings.Builder, label string, count int, c *color.Color) {
	if count == 0 {
		output.WriteString(fmt.Sprintf("  %s: 0\n", label))
		return
	}
	output.WriteString(fmt.Sprintf("  %s: %s\n", label, c.Sprintf("%d", count)))
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-3]) + "..."
}

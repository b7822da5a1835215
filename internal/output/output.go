package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	sampoerrors "github.com/yairfalse/sampo/internal/errors"
	"github.com/yairfalse/sampo/internal/report"
	"github.com/yairfalse/sampo/pkg/types"
)

// Formatter renders assembled reports into one output format. The
// markdown formatter writes the human document; json and yaml encode the
// typed payload for machine consumers.
type Formatter interface {
	FormatComparative(rep *types.ComparativeReport, sections []report.Section, w io.Writer) error
	FormatRun(result *types.AnalysisResult, sections []report.Section, w io.Writer) error
}

// NewFormatter creates a formatter based on format name.
func NewFormatter(format string) (Formatter, error) {
	switch format {
	case "markdown", "md":
		return &MarkdownFormatter{}, nil
	case "json":
		return &JSONFormatter{Pretty: true}, nil
	case "yaml", "yml":
		return &YAMLFormatter{}, nil
	default:
		return nil, sampoerrors.InvalidFormatError(format)
	}
}

// MarkdownFormatter renders the report document: title, generated-at
// header, one ## block per section, footer.
type MarkdownFormatter struct{}

// FormatComparative renders the comparative document.
func (f *MarkdownFormatter) FormatComparative(rep *types.ComparativeReport, sections []report.Section, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# Comparative Workflow Analysis\n\n"); err != nil {
		return err
	}
	fmt.Fprintf(w, "**Report**: %s  \n", rep.ID)
	fmt.Fprintf(w, "**Generated**: %s\n\n", rep.GeneratedAt.Format(time.RFC3339))

	writeSections(w, sections)

	_, err := fmt.Fprintf(w, "---\n*Generated by sampo*\n")
	return err
}

// FormatRun renders the single-run document.
func (f *MarkdownFormatter) FormatRun(result *types.AnalysisResult, sections []report.Section, w io.Writer) error {
	meta := result.Metadata
	if _, err := fmt.Fprintf(w, "# Workflow Run Analysis: %s\n\n", meta.RunID); err != nil {
		return err
	}
	fmt.Fprintf(w, "**Workflow**: %s  \n", meta.Workflow)
	fmt.Fprintf(w, "**Executed**: %s\n\n", meta.Timestamp.Format(time.RFC3339))

	writeSections(w, sections)

	_, err := fmt.Fprintf(w, "---\n*Generated by sampo*\n")
	return err
}

func writeSections(w io.Writer, sections []report.Section) {
	for _, section := range sections {
		fmt.Fprintf(w, "## %s\n\n", section.Title)
		for _, line := range section.Lines {
			fmt.Fprintln(w, line)
		}
		fmt.Fprintln(w)
	}
}

// runDocument is the machine-readable single-run payload. Derived counts
// are materialized so consumers do not re-tally events.
type runDocument struct {
	Result     *types.AnalysisResult `json:"result" yaml:"result"`
	Counts     types.CategoryCounts  `json:"counts" yaml:"counts"`
	TotalLines int                   `json:"total_lines" yaml:"total_lines"`
}

// JSONFormatter encodes the typed payload as JSON.
type JSONFormatter struct {
	Pretty bool
}

// FormatComparative encodes the comparative report.
func (f *JSONFormatter) FormatComparative(rep *types.ComparativeReport, _ []report.Section, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(rep)
}

// FormatRun encodes the single-run document.
func (f *JSONFormatter) FormatRun(result *types.AnalysisResult, _ []report.Section, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(runDocument{
		Result:     result,
		Counts:     result.Counts(),
		TotalLines: result.TotalLines(),
	})
}

// YAMLFormatter encodes the typed payload as YAML.
type YAMLFormatter struct{}

// FormatComparative encodes the comparative report.
func (f *YAMLFormatter) FormatComparative(rep *types.ComparativeReport, _ []report.Section, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	return encoder.Encode(rep)
}

// FormatRun encodes the single-run document.
func (f *YAMLFormatter) FormatRun(result *types.AnalysisResult, _ []report.Section, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	return encoder.Encode(runDocument{
		Result:     result,
		Counts:     result.Counts(),
		TotalLines: result.TotalLines(),
	})
}

package output

import (
	"bytes"
	"os"

	sampoerrors "github.com/yairfalse/sampo/internal/errors"
	"github.com/yairfalse/sampo/internal/report"
	"github.com/yairfalse/sampo/pkg/types"
)

// Renderer turns assembled reports into rendered documents and delivers
// them to stdout or a file.
type Renderer struct {
	formatter Formatter
}

// NewRenderer creates a renderer for the named format.
func NewRenderer(format string) (*Renderer, error) {
	formatter, err := NewFormatter(format)
	if err != nil {
		return nil, err
	}
	return &Renderer{formatter: formatter}, nil
}

// RenderComparative renders the comparative document.
func (r *Renderer) RenderComparative(rep *types.ComparativeReport, sections []report.Section) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.formatter.FormatComparative(rep, sections, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderRun renders the single-run document.
func (r *Renderer) RenderRun(result *types.AnalysisResult, sections []report.Section) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.formatter.FormatRun(result, sections, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Deliver writes the rendered document to path, or to stdout when path
// is empty.
func Deliver(document []byte, path string) error {
	if path == "" {
		_, err := os.Stdout.Write(document)
		return err
	}
	if err := os.WriteFile(path, document, 0644); err != nil {
		return sampoerrors.OutputWriteError(path, err)
	}
	return nil
}

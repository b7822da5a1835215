package artifact

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	sampoerrors "github.com/yairfalse/sampo/internal/errors"
	"github.com/yairfalse/sampo/pkg/types"
)

// LineSource supplies the ordered log lines for a run. Implementations
// exist for plain files and for the built-in sample; a live-fetching
// source stays outside the core.
type LineSource interface {
	Lines(runID string) ([]string, error)
}

// FileLineSource reads lines from a log file on disk.
type FileLineSource struct {
	Path string
}

// Lines implements LineSource
func (s FileLineSource) Lines(runID string) ([]string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, sampoerrors.LogFileError(s.Path, err)
	}
	return SplitLines(string(data)), nil
}

// sampleLogLines mirrors one live compliance check: metadata load,
// company lookup, archival, ledger update.
var sampleLogLines = []string{
	"[2025-11-10 10:12:03] Loading metadata from config/metadata.yml",
	"Debug → COMPANY_NAME resolved to Example Ltd",
	"🔍 Querying Companies House API for company 00000006",
	"HTTP status: 200",
	"📄 Saving API response for audit trail",
	"🗂️ Response archived at data/responses/response_live_20251110_1012.json",
	"⚠️ Response lists 2 filings due within 14 days",
	"✅ Ledger updated",
}

// SampleLineSource serves the built-in demo log.
type SampleLineSource struct{}

// Lines implements LineSource
func (SampleLineSource) Lines(runID string) ([]string, error) {
	lines := make([]string, len(sampleLogLines))
	copy(lines, sampleLogLines)
	return lines, nil
}

// SampleRun returns the built-in demo run used by --demo invocations.
func SampleRun() *Run {
	lines, _ := SampleLineSource{}.Lines("sample")
	return &Run{
		Dir: "sample",
		Metadata: types.RunMetadata{
			RunID:     "sample",
			RunNumber: 1,
			Workflow:  types.WorkflowComplianceLive,
			Timestamp: time.Date(2025, 11, 10, 10, 12, 3, 0, time.UTC),
			Branch:    "main",
			Commit:    types.Unknown,
		},
		Lines: lines,
	}
}

// LoadLogFile wraps a bare log file as a run. The workflow comes from the
// hint when valid, otherwise from the file name; branch and commit are
// not recoverable from a bare log and stay unknown.
func LoadLogFile(path string, hint types.WorkflowType) (*Run, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, sampoerrors.LogFileError(path, err)
	}

	lines, err := FileLineSource{Path: path}.Lines("")
	if err != nil {
		return nil, err
	}

	workflow := hint
	if !workflow.Valid() {
		parsed, err := types.ParseWorkflowType(filepath.Base(path))
		if err != nil {
			return nil, sampoerrors.UnknownWorkflowError(filepath.Base(path))
		}
		workflow = parsed
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &Run{
		Dir: filepath.Dir(path),
		Metadata: types.RunMetadata{
			RunID:     base,
			Workflow:  workflow,
			Timestamp: info.ModTime().UTC(),
			Branch:    types.Unknown,
			Commit:    types.Unknown,
		},
		Lines: lines,
	}, nil
}

package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	sampoerrors "github.com/yairfalse/sampo/internal/errors"
	"github.com/yairfalse/sampo/internal/logger"
	"github.com/yairfalse/sampo/pkg/types"
)

// Run bundles everything read for one workflow run: required metadata,
// the ordered log lines, and whatever optional artifacts the directory
// carried. Problems with optional artifacts land in Caveats.
type Run struct {
	Dir        string
	Metadata   types.RunMetadata
	Lines      []string
	Structure  *types.RepoStructure
	Findings   []types.SecurityFinding
	Compliance []types.ComplianceCheck
	Caveats    []string
}

// Reader loads workflow runs from an artifacts directory, one
// subdirectory per run.
type Reader struct {
	logger logger.Logger
}

// NewReader creates a reader with the given logger
func NewReader(log logger.Logger) *Reader {
	if log == nil {
		log = logger.NewSimple()
	}
	return &Reader{logger: log}
}

// ListRuns returns the sorted run-directory names under root. An
// unreadable root is the one fatal reader condition.
func (r *Reader) ListRuns(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, sampoerrors.ArtifactDirError(root, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}

	sort.Strings(names)
	return names, nil
}

// LoadRun reads one run directory. It fails only when the metadata record
// is missing or unusable; every optional artifact degrades to a caveat.
func (r *Reader) LoadRun(dir string) (*Run, error) {
	metadata, structure, err := r.loadMetadata(dir)
	if err != nil {
		return nil, err
	}

	run := &Run{
		Dir:       dir,
		Metadata:  metadata,
		Structure: structure,
	}

	run.Lines = r.loadLogLines(dir, run)
	r.loadFindings(dir, run)
	r.loadCompliance(dir, run)

	return run, nil
}

// LoadAll reads every run under root. Runs whose metadata cannot be used
// are skipped by directory name; only an unreadable root is fatal.
func (r *Reader) LoadAll(root string) ([]*Run, []string, error) {
	names, err := r.ListRuns(root)
	if err != nil {
		return nil, nil, err
	}

	var runs []*Run
	var skipped []string
	for _, name := range names {
		run, err := r.LoadRun(filepath.Join(root, name))
		if err != nil {
			r.logger.WithField("run", name).Warn(fmt.Sprintf("skipping run: %v", err))
			skipped = append(skipped, name)
			continue
		}
		runs = append(runs, run)
	}

	return runs, skipped, nil
}

// loadMetadata reads and resolves the required metadata record, falling
// back to the structure snapshot for branch and commit.
func (r *Reader) loadMetadata(dir string) (types.RunMetadata, *types.RepoStructure, error) {
	structure := loadStructure(dir)

	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return types.RunMetadata{}, structure, fmt.Errorf("no usable workflow metadata: %w", err)
	}

	metadata, err := parseMetadata(data, structure)
	if err != nil {
		return types.RunMetadata{}, structure, err
	}

	if metadata.RunID == "" {
		metadata.RunID = filepath.Base(dir)
	}

	return metadata, structure, nil
}

// loadStructure parses the optional repository snapshot.
func loadStructure(dir string) *types.RepoStructure {
	data, err := os.ReadFile(filepath.Join(dir, structureFile))
	if err != nil {
		return nil
	}
	return ParseStructure(string(data))
}

// loadLogLines reads the first log file in lexical order. A run without
// one analyzes zero lines and notes the gap.
func (r *Reader) loadLogLines(dir string, run *Run) []string {
	matches, err := filepath.Glob(filepath.Join(dir, "*.log"))
	if err != nil || len(matches) == 0 {
		run.Caveats = append(run.Caveats, "no log file found, zero lines analyzed")
		return nil
	}
	sort.Strings(matches)

	data, err := os.ReadFile(matches[0])
	if err != nil {
		run.Caveats = append(run.Caveats, fmt.Sprintf("log file %s unreadable, zero lines analyzed", filepath.Base(matches[0])))
		return nil
	}

	return SplitLines(string(data))
}

// loadFindings collects findings from the summary text and any SARIF
// payloads.
func (r *Reader) loadFindings(dir string, run *Run) {
	if data, err := os.ReadFile(filepath.Join(dir, findingsSummaryFile)); err == nil {
		run.Findings = append(run.Findings, ParseFindingsSummary(string(data))...)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.sarif"))
	if err != nil {
		return
	}
	sort.Strings(matches)

	for _, match := range matches {
		data, err := os.ReadFile(match)
		if err != nil {
			run.Caveats = append(run.Caveats, fmt.Sprintf("%s unreadable, findings not recovered", filepath.Base(match)))
			continue
		}

		findings, err := ParseSARIF(data)
		if err != nil {
			run.Caveats = append(run.Caveats, fmt.Sprintf("%s malformed, findings not recovered", filepath.Base(match)))
			continue
		}
		run.Findings = append(run.Findings, findings...)
	}
}

// loadCompliance parses response payloads for the compliance variants.
func (r *Reader) loadCompliance(dir string, run *Run) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "response_") || !strings.HasSuffix(name, ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			run.Caveats = append(run.Caveats, fmt.Sprintf("%s unreadable, compliance payload not recovered", name))
			continue
		}

		check, err := ParseComplianceFile(name, data)
		if err != nil {
			run.Caveats = append(run.Caveats, fmt.Sprintf("%s malformed, compliance payload not recovered", name))
			continue
		}
		run.Compliance = append(run.Compliance, check)
	}
}

// SplitLines splits raw log content into lines, tolerating CRLF endings
// and a trailing newline.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}

	content = strings.TrimRight(content, "\n")
	if content == "" {
		return nil
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	return lines
}

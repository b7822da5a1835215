package artifact

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/yairfalse/sampo/pkg/types"
)

const (
	metadataFile        = "workflow-metadata.json"
	structureFile       = "repository-structure.txt"
	findingsSummaryFile = "codeql-summary.txt"
)

// metadataRecord is the wire form of workflow-metadata.json. Run ids and
// numbers appear both quoted and bare in captured artifacts, so both are
// decoded as json.Number.
type metadataRecord struct {
	Workflow  string      `json:"workflow"`
	RunID     json.Number `json:"run_id"`
	RunNumber json.Number `json:"run_number"`
	Timestamp string      `json:"timestamp"`
	RefName   string      `json:"ref_name"`
	Ref       string      `json:"ref"`
	SHA       string      `json:"sha"`
}

// parseMetadata decodes a metadata record and resolves its fields, using
// the structure snapshot as the fallback for branch and commit before
// degrading to the unknown sentinel.
func parseMetadata(data []byte, structure *types.RepoStructure) (types.RunMetadata, error) {
	var record metadataRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return types.RunMetadata{}, fmt.Errorf("no usable workflow metadata: %w", err)
	}

	workflow, err := types.ParseWorkflowType(record.Workflow)
	if err != nil {
		return types.RunMetadata{}, err
	}

	timestamp, err := time.Parse(time.RFC3339, record.Timestamp)
	if err != nil {
		return types.RunMetadata{}, fmt.Errorf("unparseable run timestamp %q", record.Timestamp)
	}

	runNumber := 0
	if n, err := record.RunNumber.Int64(); err == nil {
		runNumber = int(n)
	}

	metadata := types.RunMetadata{
		RunID:     record.RunID.String(),
		RunNumber: runNumber,
		Workflow:  workflow,
		Timestamp: timestamp,
		Branch:    resolveBranch(record, structure),
		Commit:    resolveCommit(record, structure),
	}

	return metadata, nil
}

// resolveBranch picks the branch from ref_name, then ref, then the
// structure snapshot.
func resolveBranch(record metadataRecord, structure *types.RepoStructure) string {
	if record.RefName != "" {
		return record.RefName
	}
	if record.Ref != "" {
		return strings.TrimPrefix(record.Ref, "refs/heads/")
	}
	if structure != nil && structure.Branch != "" {
		return structure.Branch
	}
	return types.Unknown
}

// resolveCommit picks the commit from sha, then the structure snapshot.
func resolveCommit(record metadataRecord, structure *types.RepoStructure) string {
	if record.SHA != "" {
		return record.SHA
	}
	if structure != nil && structure.Commit != "" {
		return structure.Commit
	}
	return types.Unknown
}

package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Unknown is the sentinel substituted for metadata fields that could not be
// read. It is never treated as an error.
const Unknown = "unknown"

// WorkflowType identifies which pipeline produced a run. The set is closed:
// one security scan plus three variants of the recurring compliance check.
type WorkflowType string

const (
	WorkflowSecurityScan      WorkflowType = "security_scan"
	WorkflowComplianceLive    WorkflowType = "compliance_live"
	WorkflowComplianceSandbox WorkflowType = "compliance_sandbox"
	WorkflowComplianceWeekly  WorkflowType = "compliance_weekly"
)

// AllWorkflowTypes returns the closed set in stable display order.
func AllWorkflowTypes() []WorkflowType {
	return []WorkflowType{
		WorkflowSecurityScan,
		WorkflowComplianceLive,
		WorkflowComplianceSandbox,
		WorkflowComplianceWeekly,
	}
}

// String returns the enum literal.
func (w WorkflowType) String() string {
	return string(w)
}

// Valid reports whether w is a member of the closed set.
func (w WorkflowType) Valid() bool {
	switch w {
	case WorkflowSecurityScan, WorkflowComplianceLive, WorkflowComplianceSandbox, WorkflowComplianceWeekly:
		return true
	}
	return false
}

// IsCompliance reports whether w is one of the compliance check variants.
func (w WorkflowType) IsCompliance() bool {
	switch w {
	case WorkflowComplianceLive, WorkflowComplianceSandbox, WorkflowComplianceWeekly:
		return true
	}
	return false
}

// ParseWorkflowType maps a workflow name to its type. It accepts both the
// enum literal and the human-readable workflow names found in run metadata
// ("CodeQL Analysis", "Compliance Check (Companies House - Live)", ...).
func ParseWorkflowType(name string) (WorkflowType, error) {
	trimmed := strings.TrimSpace(name)
	if wt := WorkflowType(trimmed); wt.Valid() {
		return wt, nil
	}

	lower := strings.ToLower(trimmed)
	switch {
	case strings.Contains(lower, "codeql"), strings.Contains(lower, "security"):
		return WorkflowSecurityScan, nil
	case strings.Contains(lower, "sandbox"):
		return WorkflowComplianceSandbox, nil
	case strings.Contains(lower, "weekly"):
		return WorkflowComplianceWeekly, nil
	case strings.Contains(lower, "live"):
		return WorkflowComplianceLive, nil
	}
	return "", fmt.Errorf("unrecognized workflow name: %q", name)
}

// RunMetadata describes one pipeline execution. Immutable once read.
// Branch and Commit degrade to the "unknown" sentinel when the artifact
// does not carry them; Timestamp is required because it orders the
// cross-run timeline.
type RunMetadata struct {
	RunID     string       `json:"run_id"`
	RunNumber int          `json:"run_number,omitempty"`
	Workflow  WorkflowType `json:"workflow"`
	Timestamp time.Time    `json:"timestamp"`
	Branch    string       `json:"branch"`
	Commit    string       `json:"commit"`
}

// Validate checks that the metadata can participate in aggregation.
func (m *RunMetadata) Validate() error {
	if strings.TrimSpace(m.RunID) == "" {
		return errors.New("run ID is required")
	}
	if !m.Workflow.Valid() {
		return fmt.Errorf("workflow type %q is not recognized", m.Workflow)
	}
	if m.Timestamp.IsZero() {
		return errors.New("run timestamp is required")
	}
	return nil
}

// ShortCommit returns the commit truncated to seven characters for display,
// matching the form captured in repository structure snapshots.
func (m *RunMetadata) ShortCommit() string {
	if len(m.Commit) > 7 {
		return m.Commit[:7]
	}
	return m.Commit
}

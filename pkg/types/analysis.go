package types

import (
	"errors"
	"fmt"
)

// SecurityFinding is a finding recovered from an auxiliary artifact (a
// findings summary or a structured security-results payload). Findings are
// kept separate from LogEvents so the one-event-per-line invariant of an
// analysis stays exact.
type SecurityFinding struct {
	RuleID   string   `json:"rule_id,omitempty"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Location string   `json:"location,omitempty"`
	Source   string   `json:"source"`
}

// ComplianceCheck is one parsed compliance response payload.
type ComplianceCheck struct {
	Variant      string `json:"variant"`
	File         string `json:"file"`
	CompanyName  string `json:"company_name"`
	CompanyNum   string `json:"company_number"`
	Status       string `json:"company_status"`
	CompanyType  string `json:"company_type,omitempty"`
	Incorporated string `json:"incorporated,omitempty"`
}

// RepoStructure is the repository snapshot captured alongside a run. Raw
// keeps the verbatim text; the other fields are extracted best-effort.
type RepoStructure struct {
	Branch     string `json:"branch,omitempty"`
	Commit     string `json:"commit,omitempty"`
	TotalFiles int    `json:"total_files,omitempty"`
	Raw        string `json:"-"`
}

// AnalysisResult is the frozen outcome of analyzing one run: its metadata,
// exactly one event per input line, and whatever the auxiliary artifacts
// contributed. Built once per invocation and never mutated afterwards.
type AnalysisResult struct {
	Metadata   RunMetadata       `json:"metadata"`
	Events     []LogEvent        `json:"events"`
	Findings   []SecurityFinding `json:"findings,omitempty"`
	Compliance []ComplianceCheck `json:"compliance,omitempty"`
	Structure  *RepoStructure    `json:"structure,omitempty"`
	Caveats    []string          `json:"caveats,omitempty"`
}

// TotalLines returns the number of input lines, which equals the number of
// events because unmatched lines are retained as unclassified.
func (r *AnalysisResult) TotalLines() int {
	return len(r.Events)
}

// Counts tallies the events per category. The tally is computed from the
// event sequence on every call so it cannot drift from the source of truth.
func (r *AnalysisResult) Counts() CategoryCounts {
	var c CategoryCounts
	for i := range r.Events {
		c.Add(r.Events[i].Category)
	}
	return c
}

// EventsByCategory returns the events of one category in line order.
func (r *AnalysisResult) EventsByCategory(cat EventCategory) []LogEvent {
	var out []LogEvent
	for i := range r.Events {
		if r.Events[i].Category == cat {
			out = append(out, r.Events[i])
		}
	}
	return out
}

// SecurityIssueCount sums classified security_finding events with the
// auxiliary findings. This is the number threshold rules and integration
// notes reason about.
func (r *AnalysisResult) SecurityIssueCount() int {
	return r.Counts().SecurityFindings + len(r.Findings)
}

// MaxFindingSeverity returns the highest severity recorded on this run
// across classified events and auxiliary findings.
func (r *AnalysisResult) MaxFindingSeverity() Severity {
	max := SeverityUnknown
	for i := range r.Events {
		if r.Events[i].Category == CategorySecurityFinding && r.Events[i].Severity.Rank() > max.Rank() {
			max = r.Events[i].Severity
		}
	}
	for i := range r.Findings {
		if r.Findings[i].Severity.Rank() > max.Rank() {
			max = r.Findings[i].Severity
		}
	}
	return max
}

// Validate checks the construction invariants: valid metadata and strictly
// increasing 1-based line numbers.
func (r *AnalysisResult) Validate() error {
	if err := r.Metadata.Validate(); err != nil {
		return fmt.Errorf("analysis metadata: %w", err)
	}
	if r.Events == nil {
		return errors.New("analysis events cannot be nil")
	}
	prev := 0
	for i := range r.Events {
		if r.Events[i].Line <= prev {
			return fmt.Errorf("event %d has line %d, want > %d", i, r.Events[i].Line, prev)
		}
		prev = r.Events[i].Line
	}
	return nil
}
